// Package messages defines the typed records exchanged with the agent.
//
// Incoming records split into two closed unions: Message for the ordered
// conversation stream and Event for server-initiated traffic. Both are
// sealed with unexported marker methods so a type switch over the
// variants is exhaustive.
package messages

// Incoming is any decoded record received from the agent.
type Incoming interface {
	incoming()
}

// Message is a conversation record, delivered to the consumer in exact
// arrival order.
type Message interface {
	Incoming
	message()
}

// UserMessage represents a user turn echoed back by the agent.
type UserMessage struct {
	Content MessageContent
}

func (UserMessage) incoming() {}
func (UserMessage) message()  {}

// AssistantMessage represents an assistant turn with its content blocks.
type AssistantMessage struct {
	Content []ContentBlock
	Model   string
}

func (AssistantMessage) incoming() {}
func (AssistantMessage) message()  {}

// SystemMessage carries agent metadata; Data holds the raw record since
// fields vary by subtype.
type SystemMessage struct {
	Subtype string
	Data    map[string]any
}

func (SystemMessage) incoming() {}
func (SystemMessage) message()  {}

// MessageContent is either a plain string or a list of content blocks.
type MessageContent interface {
	messageContent()
}

// StringContent is plain string message content.
type StringContent string

func (StringContent) messageContent() {}

// BlockListContent is structured message content.
type BlockListContent []ContentBlock

func (BlockListContent) messageContent() {}
