package chain

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Dialer opens a Connection.
type Dialer func(ctx context.Context) (Connection, error)

// Handle shares one lazily opened Connection across a process. The first
// call to Connection dials; later calls return the same result.
type Handle struct {
	dial       Dialer
	once       sync.Once
	connection Connection
	err        error
}

func NewHandle(dial Dialer) *Handle {
	return &Handle{dial: dial}
}

func (h *Handle) Connection(ctx context.Context) (Connection, error) {
	h.once.Do(func() {
		if h.dial == nil {
			h.err = fmt.Errorf("dialer is required")
			return
		}
		h.connection, h.err = h.dial(ctx)
		if h.err == nil && h.connection == nil {
			h.err = fmt.Errorf("dialer returned no connection")
		}
	})
	return h.connection, h.err
}

// Close releases the connection when it was opened and implements io.Closer.
func (h *Handle) Close() error {
	if closer, ok := h.connection.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
