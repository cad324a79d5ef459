package messages

// Event is a server-initiated record serviced by registered handlers,
// never delivered on the conversation stream.
type Event interface {
	Incoming
	event()
}

// Notification is a fire-and-forget event from the agent.
type Notification struct {
	Method string
	Params map[string]any
	// Data holds the raw record for forward compatibility.
	Data map[string]any
}

func (Notification) incoming() {}
func (Notification) event()    {}

// ElicitationRequest asks the user for input. It is request-shaped: the
// handler's return value is sent back keyed by ID.
type ElicitationRequest struct {
	ID     string
	Prompt string
	Data   map[string]any
}

func (ElicitationRequest) incoming() {}
func (ElicitationRequest) event()    {}

// ToolsChanged announces that the agent's tool set changed.
type ToolsChanged struct {
	AddedTools   []string
	RemovedTools []string
	Data         map[string]any
}

func (ToolsChanged) incoming() {}
func (ToolsChanged) event()    {}

// ResourceRequest asks the client to provide resource content. It is
// request-shaped: the handler's return value is sent back keyed by ID.
type ResourceRequest struct {
	ID   string
	Name string
	Data map[string]any
}

func (ResourceRequest) incoming() {}
func (ResourceRequest) event()    {}
