// Package testutil provides hermetic test doubles and wire fixtures.
package testutil

import (
	"context"
	"sync"

	"github.com/sageagent/sage-sdk-go/pkg/sage/ports"
)

// ElicitationReply records one side-channel reply sent by the session.
type ElicitationReply struct {
	ID    string
	Value string
}

// SentRequest records one SendRequest call.
type SentRequest struct {
	Records []map[string]any
	Options ports.RequestOptions
}

// FakeTransport simulates a duplex transport without spawning processes
// or opening sockets. Responses are queued up front; everything the
// session writes is recorded for assertions.
type FakeTransport struct {
	mu             sync.Mutex
	responses      []map[string]any
	streamErr      error
	connectErr     error
	sendErr        error
	connected      bool
	sentRequests   []SentRequest
	replies        []ElicitationReply
	interruptCalls int
	disconnects    int
}

// NewFakeTransport creates an empty fake transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{}
}

// QueueResponse appends a record to the inbound stream.
func (f *FakeTransport) QueueResponse(msg map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, msg)
}

// FailStream delivers err on the error channel after the queued
// responses have been consumed.
func (f *FakeTransport) FailStream(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamErr = err
}

// FailConnect makes Connect return err.
func (f *FakeTransport) FailConnect(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectErr = err
}

// FailSend makes SendRequest return err.
func (f *FakeTransport) FailSend(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

// Connect implements ports.Transport.
func (f *FakeTransport) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true

	return nil
}

// Disconnect implements ports.Transport.
func (f *FakeTransport) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnects++

	return nil
}

// SendRequest implements ports.Transport.
func (f *FakeTransport) SendRequest(ctx context.Context, records []map[string]any, opts ports.RequestOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sentRequests = append(f.sentRequests, SentRequest{Records: records, Options: opts})

	return nil
}

// ReceiveMessages implements ports.Transport. The record channel closes
// after the queued responses unless FailStream was set.
func (f *FakeTransport) ReceiveMessages(ctx context.Context) (<-chan map[string]any, <-chan error) {
	f.mu.Lock()
	queued := make([]map[string]any, len(f.responses))
	copy(queued, f.responses)
	streamErr := f.streamErr
	f.mu.Unlock()

	msgCh := make(chan map[string]any)
	errCh := make(chan error, 1)

	go func() {
		defer close(msgCh)
		defer close(errCh)

		for _, msg := range queued {
			select {
			case msgCh <- msg:
			case <-ctx.Done():
				return
			}
		}

		if streamErr != nil {
			errCh <- streamErr
		}
	}()

	return msgCh, errCh
}

// SendElicitationResponse implements ports.Transport.
func (f *FakeTransport) SendElicitationResponse(ctx context.Context, id, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, ElicitationReply{ID: id, Value: value})

	return nil
}

// Interrupt implements ports.Transport.
func (f *FakeTransport) Interrupt(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interruptCalls++

	return nil
}

// Connected implements ports.Transport.
func (f *FakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.connected
}

// SentRequests returns a copy of all recorded SendRequest calls.
func (f *FakeTransport) SentRequests() []SentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentRequest, len(f.sentRequests))
	copy(out, f.sentRequests)

	return out
}

// Replies returns a copy of all recorded side-channel replies.
func (f *FakeTransport) Replies() []ElicitationReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ElicitationReply, len(f.replies))
	copy(out, f.replies)

	return out
}

// InterruptCalls returns how many times Interrupt was invoked.
func (f *FakeTransport) InterruptCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.interruptCalls
}

// Disconnects returns how many times Disconnect was invoked.
func (f *FakeTransport) Disconnects() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.disconnects
}

var _ ports.Transport = (*FakeTransport)(nil)
