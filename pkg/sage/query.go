package sage

import (
	"context"
	"iter"

	"github.com/sageagent/sage-sdk-go/pkg/sage/dispatch"
	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
	"github.com/sageagent/sage-sdk-go/pkg/sage/session"
)

// Query runs one prompt to completion and yields the reply stream.
// It connects a fresh transport, sends the prompt, yields decoded
// messages until the stream ends and always disconnects, including
// when the consumer stops early. Server events are dropped; use a
// Client to handle them.
func Query(ctx context.Context, prompt string, opts *options.Options) iter.Seq2[messages.Message, error] {
	return func(yield func(messages.Message, error) bool) {
		if opts == nil {
			opts = &options.Options{}
		}

		transport, err := buildTransport(opts, &prompt)
		if err != nil {
			yield(nil, err)

			return
		}

		if err := transport.Connect(ctx); err != nil {
			yield(nil, err)

			return
		}
		defer func() { _ = transport.Disconnect() }()

		// The CLI transport takes the prompt on its command line; the
		// HTTP transport needs it sent as a request.
		if opts.Transport != nil && opts.Transport.Type == options.TransportHTTP {
			records := []map[string]any{userRecord(prompt, DefaultSessionID)}
			if err := transport.SendRequest(ctx, records, ports.RequestOptions{SessionID: DefaultSessionID}); err != nil {
				yield(nil, err)

				return
			}
		}

		pumpCtx, cancel := context.WithCancel(ctx)
		queue := session.NewQueue(session.DefaultQueueCapacity)
		pump := session.NewPump(transport, dispatch.NewRegistry(), queue, opts.Logger)
		pump.Start(pumpCtx)
		defer func() {
			cancel()
			<-pump.Done()
		}()

		for {
			select {
			case <-ctx.Done():
				yield(nil, ctx.Err())

				return
			case msg, ok := <-queue.Messages():
				if !ok {
					if err := queue.Err(); err != nil {
						yield(nil, err)
					}

					return
				}
				if !yield(msg, nil) {
					return
				}
			}
		}
	}
}
