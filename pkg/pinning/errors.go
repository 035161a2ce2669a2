package pinning

import "fmt"

// ProviderError is returned when the pinning provider answers with a non-2xx
// status or an unusable body.
type ProviderError struct {
	Provider Strategy
	Status   int
	Body     string
	Message  string
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "pinning provider error"
	}
	message := e.Message
	if message == "" {
		message = "pinning request rejected"
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status=%d): %s", e.Provider, message, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %s", e.Provider, message)
}

// TransportError wraps a network failure while talking to a provider or
// gateway.
type TransportError struct {
	Provider Strategy
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
