// Package sage provides a high-level SDK for conversing with a sage
// agent over a bidirectional session.
//
// Query runs a single prompt to completion. Client holds a long-lived
// session: prompts go out through Query/QuerySession, typed replies
// come back through ReceiveMessages or ReceiveResponse, and
// agent-initiated events (notifications, elicitation requests, tool
// list changes, resource requests) are routed to registered handlers
// while the reply stream keeps its order.
package sage
