package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
)

func TestEmptyRegistryReturnsNil(t *testing.T) {
	r := NewRegistry()

	assert.Nil(t, r.Notification())
	assert.Nil(t, r.Elicitation())
	assert.Nil(t, r.ToolsChanged())
	assert.Nil(t, r.Resource())
}

func TestLastRegistrationWins(t *testing.T) {
	r := NewRegistry()

	var got string
	r.SetElicitation(func(ctx context.Context, req messages.ElicitationRequest) (string, error) {
		got = "first"

		return "first", nil
	})
	r.SetElicitation(func(ctx context.Context, req messages.ElicitationRequest) (string, error) {
		got = "second"

		return "second", nil
	})

	h := r.Elicitation()
	require.NotNil(t, h)

	reply, err := h(context.Background(), messages.ElicitationRequest{ID: "1", Prompt: "?"})
	require.NoError(t, err)
	assert.Equal(t, "second", reply)
	assert.Equal(t, "second", got)
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.SetNotification(func(ctx context.Context, n messages.Notification) error {
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_ = r.Notification()
		}()
	}
	wg.Wait()

	assert.NotNil(t, r.Notification())
}
