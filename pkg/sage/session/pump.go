package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/sageagent/sage-sdk-go/pkg/sage/decode"
	"github.com/sageagent/sage-sdk-go/pkg/sage/dispatch"
	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// Pump is the single reader of a transport's inbound stream.
//
// Conversation messages go to the queue in arrival order. Events are
// handled inline: the pump awaits each handler before reading further,
// so side-channel processing is totally ordered with respect to the
// conversation stream. That trades handler latency for simplicity and
// is intentional.
type Pump struct {
	transport ports.Transport
	registry  *dispatch.Registry
	queue     *Queue
	logger    *slog.Logger
	done      chan struct{}
}

// NewPump wires a pump to its transport, registry and queue.
func NewPump(transport ports.Transport, registry *dispatch.Registry, queue *Queue, logger *slog.Logger) *Pump {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pump{
		transport: transport,
		registry:  registry,
		queue:     queue,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start launches the pump goroutine. Call at most once, after the
// transport connected.
func (p *Pump) Start(ctx context.Context) {
	go p.run(ctx)
}

// Done closes when the pump has fully stopped.
func (p *Pump) Done() <-chan struct{} {
	return p.done
}

func (p *Pump) run(ctx context.Context) {
	defer close(p.done)

	msgCh, errCh := p.transport.ReceiveMessages(ctx)

	for {
		select {
		case <-ctx.Done():
			p.queue.Close(nil)

			return

		case record, ok := <-msgCh:
			if !ok {
				// Peer closed. A terminal error may already be
				// waiting; prefer it over a clean end.
				select {
				case err, ok := <-errCh:
					if ok && err != nil {
						p.finish(err)

						return
					}
				default:
				}
				p.queue.Close(nil)

				return
			}
			if err := p.handleRecord(ctx, record); err != nil {
				p.finish(err)

				return
			}

		case err, ok := <-errCh:
			if !ok {
				errCh = nil

				continue
			}
			if err == nil {
				continue
			}
			p.finish(err)

			return
		}
	}
}

// finish closes the queue, treating cancellation and connection-closed
// conditions as a clean end rather than a consumer-visible error.
func (p *Pump) finish(err error) {
	if isCleanEnd(err) {
		p.queue.Close(nil)

		return
	}
	p.queue.Close(err)
}

func isCleanEnd(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		sagerrs.IsConnectionClosed(err)
}

// handleRecord decodes and routes one record. A returned error is fatal
// to the pump.
func (p *Pump) handleRecord(ctx context.Context, record map[string]any) error {
	if remoteErr, ok := decode.ErrorPayload(record); ok {
		return remoteErr
	}

	value, err := decode.Record(record)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case messages.Event:
		return p.handleEvent(ctx, v)
	case messages.Message:
		return p.queue.Push(ctx, v)
	default:
		return sagerrs.NewDecodeError(
			sagerrs.ErrCodeMessageParseFailed,
			"decoded record is neither message nor event",
			nil,
		).WithRecord(record)
	}
}

// handleEvent invokes the registered handler, if any, and sends the
// reply for request-shaped events. Handler failures on fire-and-forget
// events fail that dispatch only; failures on request-shaped events and
// reply-send failures are fatal.
func (p *Pump) handleEvent(ctx context.Context, event messages.Event) error {
	switch ev := event.(type) {
	case messages.Notification:
		handler := p.registry.Notification()
		if handler == nil {
			p.logger.Debug("dropping notification, no handler registered", "method", ev.Method)

			return nil
		}
		if err := handler(ctx, ev); err != nil {
			p.logger.Warn("notification handler failed", "method", ev.Method, "error", err)
		}

		return nil

	case messages.ToolsChanged:
		handler := p.registry.ToolsChanged()
		if handler == nil {
			p.logger.Debug("dropping tools_changed, no handler registered")

			return nil
		}
		if err := handler(ctx, ev); err != nil {
			p.logger.Warn("tools_changed handler failed", "error", err)
		}

		return nil

	case messages.ElicitationRequest:
		handler := p.registry.Elicitation()
		if handler == nil {
			p.logger.Debug("dropping elicitation request, no handler registered", "id", ev.ID)

			return nil
		}
		reply, err := handler(ctx, ev)
		if err != nil {
			return err
		}

		return p.sendReply(ctx, ev.ID, reply)

	case messages.ResourceRequest:
		handler := p.registry.Resource()
		if handler == nil {
			p.logger.Debug("dropping resource request, no handler registered", "id", ev.ID, "name", ev.Name)

			return nil
		}
		content, err := handler(ctx, ev)
		if err != nil {
			return err
		}

		return p.sendReply(ctx, ev.ID, content)

	default:
		return nil
	}
}

// sendReply answers a request-shaped event. No reply is sent for a
// session that was torn down while the handler ran.
func (p *Pump) sendReply(ctx context.Context, id, value string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return p.transport.SendElicitationResponse(ctx, id, value)
}
