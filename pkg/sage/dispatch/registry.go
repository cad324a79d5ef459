// Package dispatch maps server event kinds to user handlers.
//
// Each kind holds at most one handler; registering again replaces the
// previous one. An event with no handler is dropped, which for
// request-shaped events means the peer's correlation id is never
// answered. That is deliberate policy, not an oversight.
package dispatch

import (
	"context"
	"sync"

	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
)

// NotificationHandler services fire-and-forget notifications.
type NotificationHandler func(ctx context.Context, n messages.Notification) error

// ElicitationHandler answers an elicitation request; the returned string
// is sent back to the peer keyed by the request id.
type ElicitationHandler func(ctx context.Context, req messages.ElicitationRequest) (string, error)

// ToolsChangedHandler services tool-set change announcements.
type ToolsChangedHandler func(ctx context.Context, tc messages.ToolsChanged) error

// ResourceHandler answers a resource request; the returned string is the
// resource content sent back keyed by the request id.
type ResourceHandler func(ctx context.Context, req messages.ResourceRequest) (string, error)

// Registry is the event dispatch table. The pump reads it on every
// event; the foreground goroutine writes it, so access is guarded by a
// read-write mutex.
type Registry struct {
	mu           sync.RWMutex
	notification NotificationHandler
	elicitation  ElicitationHandler
	toolsChanged ToolsChangedHandler
	resource     ResourceHandler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetNotification registers the notification handler, replacing any
// previous registration.
func (r *Registry) SetNotification(h NotificationHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notification = h
}

// SetElicitation registers the elicitation handler, replacing any
// previous registration.
func (r *Registry) SetElicitation(h ElicitationHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elicitation = h
}

// SetToolsChanged registers the tools-changed handler, replacing any
// previous registration.
func (r *Registry) SetToolsChanged(h ToolsChangedHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolsChanged = h
}

// SetResource registers the resource handler, replacing any previous
// registration.
func (r *Registry) SetResource(h ResourceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resource = h
}

// Notification returns the registered notification handler or nil.
func (r *Registry) Notification() NotificationHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.notification
}

// Elicitation returns the registered elicitation handler or nil.
func (r *Registry) Elicitation() ElicitationHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.elicitation
}

// ToolsChanged returns the registered tools-changed handler or nil.
func (r *Registry) ToolsChanged() ToolsChangedHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.toolsChanged
}

// Resource returns the registered resource handler or nil.
func (r *Registry) Resource() ResourceHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.resource
}
