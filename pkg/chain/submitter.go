package chain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultFinalizationTimeout bounds the wait for a final status.
const DefaultFinalizationTimeout = 2 * time.Minute

type SubmitterConfig struct {
	FinalizationTimeout time.Duration
	MetadataLimit       int
}

type Submitter struct {
	connection Connection
	signer     Signer
	timeout    time.Duration
	limit      int
}

// Receipt describes a finalized transaction. Event is the matched domain
// event; it is zero when the expected event was missing.
type Receipt struct {
	TxHash    string
	BlockHash string
	Events    []Event
	Event     Event
}

func NewSubmitter(connection Connection, signer Signer, config SubmitterConfig) (*Submitter, error) {
	if connection == nil {
		return nil, fmt.Errorf("connection is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("signer is required")
	}
	timeout := config.FinalizationTimeout
	if timeout <= 0 {
		timeout = DefaultFinalizationTimeout
	}
	limit := config.MetadataLimit
	if limit <= 0 {
		limit = DefaultMetadataLimit
	}
	return &Submitter{connection: connection, signer: signer, timeout: timeout, limit: limit}, nil
}

func (s *Submitter) MetadataLimit() int {
	return s.limit
}

func (s *Submitter) Signer() Signer {
	return s.signer
}

func (s *Submitter) Connection() Connection {
	return s.connection
}

// Submit builds, signs and submits call exactly once, then waits for
// finalization. When the transaction finalizes without an event of kind
// expected, the receipt is returned together with ErrExpectedEventMissing.
// An empty expected kind skips the event check.
func (s *Submitter) Submit(ctx context.Context, call Call, expected EventKind) (Receipt, error) {
	if call.Kind == CallSetItemMetadata {
		if err := CheckMetadata(call.Metadata, s.limit); err != nil {
			return Receipt{}, err
		}
	}

	envelope, err := s.connection.Build(ctx, call, s.signer.PublicIdentity())
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to build %s: %w", call.Kind, err)
	}
	if err := envelope.Sign(s.signer); err != nil {
		return Receipt{}, err
	}

	updates, err := s.connection.SubmitSigned(ctx, envelope)
	if err != nil {
		var rejected *RejectedError
		var transport *TransportError
		if errors.As(err, &rejected) || errors.As(err, &transport) {
			return Receipt{}, err
		}
		return Receipt{}, &TransportError{Op: "submit " + string(call.Kind), Err: err}
	}
	if err := envelope.advance(StateSubmitted); err != nil {
		return Receipt{}, err
	}

	return s.awaitFinalization(ctx, envelope, updates, expected)
}

func (s *Submitter) awaitFinalization(
	ctx context.Context,
	envelope *Envelope,
	updates <-chan StatusUpdate,
	expected EventKind,
) (Receipt, error) {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return Receipt{}, fmt.Errorf("%w: %w", ErrFinalizationTimeout, ctx.Err())
		case <-timer.C:
			return Receipt{}, fmt.Errorf("%w after %s", ErrFinalizationTimeout, s.timeout)
		case update, ok := <-updates:
			if !ok {
				return Receipt{}, fmt.Errorf("%w: status stream ended in state %s", ErrFinalizationTimeout, envelope.state)
			}
			if update.TxHash != "" {
				envelope.txHash = update.TxHash
			}
			if update.BlockHash != "" {
				envelope.blockHash = update.BlockHash
			}

			switch update.Status {
			case StatusBroadcast:
			case StatusInBlock:
				if err := envelope.advance(StateInBlock); err != nil {
					return Receipt{}, err
				}
			case StatusInvalid, StatusDropped, StatusUsurped:
				return Receipt{}, &RejectedError{Status: update.Status, Reason: update.Reason}
			case StatusError:
				return Receipt{}, &TransportError{Op: "status stream", Err: update.Err}
			case StatusFinalized:
				if err := envelope.advance(StateFinalized); err != nil {
					return Receipt{}, err
				}
				return finalize(envelope, update, expected)
			}
		}
	}
}

func finalize(envelope *Envelope, update StatusUpdate, expected EventKind) (Receipt, error) {
	if update.DispatchError != "" {
		return Receipt{}, &FailedError{
			TxHash:        envelope.txHash,
			BlockHash:     envelope.blockHash,
			DispatchError: update.DispatchError,
		}
	}

	receipt := Receipt{
		TxHash:    envelope.txHash,
		BlockHash: envelope.blockHash,
		Events:    update.Events,
	}
	if expected == "" {
		return receipt, nil
	}
	event, found := FindEvent(update.Events, expected)
	if !found {
		return receipt, fmt.Errorf("%w: %s in %s", ErrExpectedEventMissing, expected, envelope.txHash)
	}
	receipt.Event = event
	return receipt, nil
}
