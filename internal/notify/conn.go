package notify

import "context"

// Conn is the capability a live viewer connection must offer. The registry and
// dispatcher only ever see this interface, so the transport behind it is
// swappable (websocket in production, in-memory fakes in tests).
type Conn interface {
	// Send delivers one payload. A returned error means the connection is
	// unusable and will be unregistered and closed.
	Send(ctx context.Context, payload []byte) error
	Close() error
}
