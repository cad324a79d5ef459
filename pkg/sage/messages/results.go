package messages

// ResultMessage closes one response cycle. Its arrival marks the end of
// a turn; the session itself stays open for further queries.
type ResultMessage struct {
	// Subtype is "success", "error_max_turns" or "error_during_execution".
	Subtype       string         `json:"subtype"`
	DurationMS    int            `json:"duration_ms"`
	DurationAPIMS int            `json:"duration_api_ms"`
	IsError       bool           `json:"is_error"`
	NumTurns      int            `json:"num_turns"`
	SessionID     string         `json:"session_id"`
	TotalCostUSD  *float64       `json:"total_cost_usd,omitempty"`
	Usage         map[string]any `json:"usage,omitempty"`
	Result        *string        `json:"result,omitempty"`
}

func (ResultMessage) incoming() {}
func (ResultMessage) message()  {}
