package sage

import (
	"context"

	"github.com/sageagent/sage-sdk-go/pkg/sage/options"
	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
)

// WithSession runs fn inside a connected session and guarantees
// Disconnect on every exit path, normal return, error or panic.
func WithSession(ctx context.Context, opts *options.Options, fn func(context.Context, *Client) error) error {
	return scopedSession(ctx, opts, nil, fn)
}

func scopedSession(ctx context.Context, opts *options.Options, transport ports.Transport, fn func(context.Context, *Client) error) error {
	client := NewClient(opts)

	var err error
	if transport != nil {
		err = client.ConnectWith(ctx, transport)
	} else {
		err = client.Connect(ctx)
	}
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect() }()

	return fn(ctx, client)
}
