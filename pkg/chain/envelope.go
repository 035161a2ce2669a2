package chain

import "fmt"

type State string

const (
	StateBuilt     State = "built"
	StateSigned    State = "signed"
	StateSubmitted State = "submitted"
	StateInBlock   State = "in_block"
	StateFinalized State = "finalized"
)

// SignHook lets a Connection sign its native transaction form instead of the
// raw payload. It returns the signed native value.
type SignHook func(native any, signer Signer) (any, error)

// Envelope is a built transaction on its way to finalization. Native holds
// the connection's own representation.
type Envelope struct {
	Call      Call
	Payload   []byte
	Native    any
	state     State
	signature []byte
	signHook  SignHook
	txHash    string
	blockHash string
}

func NewEnvelope(call Call, payload []byte, native any, signHook SignHook) *Envelope {
	return &Envelope{
		Call:     call,
		Payload:  payload,
		Native:   native,
		state:    StateBuilt,
		signHook: signHook,
	}
}

func (e *Envelope) State() State {
	return e.state
}

func (e *Envelope) Signature() []byte {
	return e.signature
}

func (e *Envelope) TxHash() string {
	return e.txHash
}

func (e *Envelope) BlockHash() string {
	return e.blockHash
}

// Sign moves a built envelope to Signed.
func (e *Envelope) Sign(signer Signer) error {
	if e.state != StateBuilt {
		return fmt.Errorf("%w: cannot sign in state %s", ErrInvalidState, e.state)
	}
	if signer == nil {
		return fmt.Errorf("signer is required")
	}
	if e.signHook != nil {
		signed, err := e.signHook(e.Native, signer)
		if err != nil {
			return fmt.Errorf("failed to sign transaction: %w", err)
		}
		e.Native = signed
	} else {
		e.signature = signer.Sign(e.Payload)
	}
	e.state = StateSigned
	return nil
}

var transitions = map[State][]State{
	StateSigned:    {StateSubmitted},
	StateSubmitted: {StateInBlock, StateFinalized},
	StateInBlock:   {StateInBlock, StateFinalized},
}

// advance applies a status-driven transition. Connections that observe
// finality directly may skip InBlock.
func (e *Envelope) advance(next State) error {
	for _, candidate := range transitions[e.state] {
		if candidate == next {
			e.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidState, e.state, next)
}
