package sage

import (
	"context"
	"maps"
	"sync"

	"github.com/sageagent/sage-sdk-go/pkg/sage/adapters/cli"
	"github.com/sageagent/sage-sdk-go/pkg/sage/adapters/httpapi"
	"github.com/sageagent/sage-sdk-go/pkg/sage/dispatch"
	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sage/session"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// DefaultSessionID is stamped on outbound requests that do not name a
// session of their own.
const DefaultSessionID = "default"

// Client is a bidirectional session with a sage agent. Construct with
// NewClient, then Connect; Query sends prompts and ReceiveMessages or
// ReceiveResponse consumes the typed reply stream. Event handlers may
// be registered at any time, including mid-session.
//
// A Client is safe for concurrent use, but the receive iterators are
// single-consumer: run at most one at a time.
type Client struct {
	opts     *options.Options
	registry *dispatch.Registry

	mu        sync.Mutex
	connected bool
	transport ports.Transport
	queue     *session.Queue
	pump      *session.Pump
	cancel    context.CancelFunc
}

// NewClient creates a disconnected client. No transport exists until
// Connect or ConnectWith.
func NewClient(opts *options.Options) *Client {
	if opts == nil {
		opts = &options.Options{}
	}

	return &Client{
		opts:     opts,
		registry: dispatch.NewRegistry(),
	}
}

// OnNotification registers the handler for notification events,
// replacing any previous one.
func (c *Client) OnNotification(h dispatch.NotificationHandler) {
	c.registry.SetNotification(h)
}

// OnElicitation registers the handler for elicitation requests,
// replacing any previous one. The returned value is sent back to the
// agent as the elicitation response.
func (c *Client) OnElicitation(h dispatch.ElicitationHandler) {
	c.registry.SetElicitation(h)
}

// OnToolsChanged registers the handler for tool-list change events,
// replacing any previous one.
func (c *Client) OnToolsChanged(h dispatch.ToolsChangedHandler) {
	c.registry.SetToolsChanged(h)
}

// OnResourceRequest registers the handler for resource requests,
// replacing any previous one. The returned content is sent back to the
// agent as the response.
func (c *Client) OnResourceRequest(h dispatch.ResourceHandler) {
	c.registry.SetResource(h)
}

// Connect builds the transport selected by the options, connects it and
// starts the session. Must be called before Query or the receive
// iterators.
func (c *Client) Connect(ctx context.Context) error {
	transport, err := buildTransport(c.opts, nil)
	if err != nil {
		return err
	}

	return c.ConnectWith(ctx, transport)
}

// ConnectWith connects using a caller-supplied transport instead of one
// built from the options.
func (c *Client) ConnectWith(ctx context.Context, transport ports.Transport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return sagerrs.NewConnectionError(sagerrs.ErrCodeConnectionFailed, "already connected", nil)
	}

	if err := transport.Connect(ctx); err != nil {
		return err
	}

	// The session outlives the Connect call; Disconnect ends it.
	pumpCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	queue := session.NewQueue(session.DefaultQueueCapacity)
	pump := session.NewPump(transport, c.registry, queue, c.opts.Logger)
	pump.Start(pumpCtx)

	c.transport = transport
	c.queue = queue
	c.pump = pump
	c.cancel = cancel
	c.connected = true

	return nil
}

// Query sends a prompt on the default session.
func (c *Client) Query(ctx context.Context, prompt string) error {
	return c.QuerySession(ctx, prompt, DefaultSessionID)
}

// QuerySession sends a prompt on the named session.
func (c *Client) QuerySession(ctx context.Context, prompt, sessionID string) error {
	return c.sendRecords(ctx, "Query", []map[string]any{userRecord(prompt, sessionID)}, sessionID)
}

// QueryRecords sends pre-built wire records, stamping the session id on
// any record that lacks one.
func (c *Client) QueryRecords(ctx context.Context, records []map[string]any, sessionID string) error {
	stamped := make([]map[string]any, len(records))
	for i, record := range records {
		if _, ok := record["session_id"]; !ok {
			record = maps.Clone(record)
			record["session_id"] = sessionID
		}
		stamped[i] = record
	}

	return c.sendRecords(ctx, "QueryRecords", stamped, sessionID)
}

func (c *Client) sendRecords(ctx context.Context, op string, records []map[string]any, sessionID string) error {
	transport, err := c.activeTransport(op)
	if err != nil {
		return err
	}

	return transport.SendRequest(ctx, records, ports.RequestOptions{SessionID: sessionID})
}

// Interrupt asks the agent to stop the current turn.
func (c *Client) Interrupt(ctx context.Context) error {
	transport, err := c.activeTransport("Interrupt")
	if err != nil {
		return err
	}

	return transport.Interrupt(ctx)
}

// Disconnect ends the session: stops the pump, closes the delivery
// queue and disconnects the transport. Safe to call more than once.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()

		return nil
	}
	transport, pump, cancel := c.transport, c.pump, c.cancel
	c.connected = false
	c.transport = nil
	c.queue = nil
	c.pump = nil
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	<-pump.Done()

	return transport.Disconnect()
}

// Connected reports whether the client currently holds a live session.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connected
}

func (c *Client) activeTransport(op string) (ports.Transport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil, sagerrs.NewNotConnectedError(op)
	}

	return c.transport, nil
}

func (c *Client) activeQueue() *session.Queue {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	return c.queue
}

// userRecord is the wire shape for an outbound prompt.
func userRecord(prompt, sessionID string) map[string]any {
	return map[string]any{
		"type": "user",
		"message": map[string]any{
			"role":    "user",
			"content": prompt,
		},
		"parent_tool_use_id": nil,
		"session_id":         sessionID,
	}
}

// buildTransport selects the transport from the options: the sage CLI
// subprocess by default, the HTTP agent service when configured. A
// non-nil prompt puts the CLI into one-shot mode.
func buildTransport(opts *options.Options, prompt *string) (ports.Transport, error) {
	cfg := opts.Transport
	if cfg == nil || cfg.Type == options.TransportSubprocess {
		return cli.New(opts, prompt), nil
	}

	switch cfg.Type {
	case options.TransportHTTP:
		return httpapi.New(cfg, opts), nil
	default:
		return nil, sagerrs.NewConnectionError(
			sagerrs.ErrCodeInvalidConfig,
			"unknown transport type: "+string(cfg.Type),
			nil,
		)
	}
}
