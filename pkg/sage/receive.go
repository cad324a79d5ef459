package sage

import (
	"context"
	"iter"

	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
	"github.com/sageagent/sage-sdk-go/pkg/sagerrs"
)

// ReceiveMessages yields conversation messages in transport arrival
// order until the session ends. When the pump recorded a terminal
// failure the iterator yields it as its final pair; a clean end just
// stops the iteration.
//
// The iterator is lazy and single-consumer.
func (c *Client) ReceiveMessages(ctx context.Context) iter.Seq2[messages.Message, error] {
	return c.stream(ctx, false)
}

// ReceiveResponse is ReceiveMessages bounded to one response cycle: it
// stops after yielding a ResultMessage, leaving later messages for the
// next receive call. The session stays open.
func (c *Client) ReceiveResponse(ctx context.Context) iter.Seq2[messages.Message, error] {
	return c.stream(ctx, true)
}

func (c *Client) stream(ctx context.Context, stopAtResult bool) iter.Seq2[messages.Message, error] {
	return func(yield func(messages.Message, error) bool) {
		queue := c.activeQueue()
		if queue == nil {
			yield(nil, sagerrs.NewNotConnectedError("ReceiveMessages"))

			return
		}

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
				if _, isResult := msg.(messages.ResultMessage); isResult && stopAtResult {
					return
				}
			}
		}
	}
}
