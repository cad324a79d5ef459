// Package ports declares the interfaces the session engine consumes.
// Implementations live under adapters.
package ports

import "context"

// RequestOptions carries per-request settings passed to the transport.
type RequestOptions struct {
	// SessionID routes the request to a conversation session.
	SessionID string
	// ToolName selects the remote tool for transports that need one.
	ToolName string
}

// Transport is a duplex channel to the agent. Exactly one session owns a
// transport at a time; the at-most-one-in-flight-request rule is enforced
// here and surfaced as an error, never a hang.
type Transport interface {
	// Connect establishes the connection.
	Connect(ctx context.Context) error

	// Disconnect tears the connection down. It is idempotent and safe to
	// call on a transport that never connected.
	Disconnect() error

	// SendRequest writes an ordered batch of wire records. It fails when
	// not connected or when another request is still outstanding.
	SendRequest(ctx context.Context, records []map[string]any, opts RequestOptions) error

	// ReceiveMessages returns the inbound record stream. The record
	// channel closes on peer close; the error channel delivers at most
	// one terminal error. A connection-closed error is a normal
	// end-of-stream, not a failure.
	ReceiveMessages(ctx context.Context) (<-chan map[string]any, <-chan error)

	// SendElicitationResponse answers a request-shaped server event,
	// keyed by its correlation id.
	SendElicitationResponse(ctx context.Context, id, value string) error

	// Interrupt sends an out-of-band interrupt. Transports that cannot
	// interrupt return an error.
	Interrupt(ctx context.Context) error

	// Connected reports whether the transport is usable.
	Connected() bool
}
