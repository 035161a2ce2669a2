package chain

import (
	"errors"
	"fmt"
)

var (
	ErrFinalizationTimeout  = errors.New("transaction was not finalized")
	ErrExpectedEventMissing = errors.New("expected event missing from finalized transaction")
	ErrMetadataTooLong      = errors.New("metadata exceeds limit")
	ErrInvalidState         = errors.New("invalid envelope state")
)

// RejectedError reports a transaction refused before inclusion.
type RejectedError struct {
	Status TxStatus
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transaction rejected (%s): %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("transaction rejected (%s)", e.Status)
}

// FailedError reports a transaction included in a block whose execution
// failed.
type FailedError struct {
	TxHash        string
	BlockHash     string
	DispatchError string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.TxHash, e.DispatchError)
}

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
