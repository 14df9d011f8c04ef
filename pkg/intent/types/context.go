package types

// MaxHistoryRecords bounds the rolling classification history kept on a
// conversation context.
const MaxHistoryRecords = 10

// HistoryRecord is one past classification kept for context-boost decisions
// on later turns.
type HistoryRecord struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Domain     string  `json:"domain,omitempty"`
}

// ConversationContext is the session-scoped state threaded through Classify.
// The engine never stores it; the caller owns persistence per session and is
// responsible for serializing concurrent turns of the same session.
type ConversationContext struct {
	ActiveContext string          `json:"active_context,omitempty"`
	ContextTurns  int             `json:"context_turns"`
	MaxDuration   int             `json:"max_duration"`
	History       []HistoryRecord `json:"history,omitempty"`
}

// Activate switches the context to the named rule, resetting the turn counter.
func (c *ConversationContext) Activate(name string, duration int) {
	c.ActiveContext = name
	c.ContextTurns = 0
	c.MaxDuration = duration
}

// Clear drops the active context. History is kept.
func (c *ConversationContext) Clear() {
	c.ActiveContext = ""
	c.ContextTurns = 0
	c.MaxDuration = 0
}

// PushHistory appends one record, evicting the oldest beyond MaxHistoryRecords.
func (c *ConversationContext) PushHistory(rec HistoryRecord) {
	c.History = append(c.History, rec)
	if len(c.History) > MaxHistoryRecords {
		c.History = c.History[len(c.History)-MaxHistoryRecords:]
	}
}

// RecentHistory returns up to n most recent records, oldest first.
func (c *ConversationContext) RecentHistory(n int) []HistoryRecord {
	if n <= 0 || len(c.History) == 0 {
		return nil
	}
	if n > len(c.History) {
		n = len(c.History)
	}
	out := make([]HistoryRecord, n)
	copy(out, c.History[len(c.History)-n:])
	return out
}

// ContextInfo is the external view of a session context.
type ContextInfo struct {
	ActiveContext string          `json:"active_context,omitempty"`
	ContextTurns  int             `json:"context_turns"`
	RecentHistory []HistoryRecord `json:"recent_history"`
}

// Info summarizes the context with its n most recent history records.
func (c *ConversationContext) Info(n int) ContextInfo {
	history := c.RecentHistory(n)
	if history == nil {
		history = []HistoryRecord{}
	}
	return ContextInfo{
		ActiveContext: c.ActiveContext,
		ContextTurns:  c.ContextTurns,
		RecentHistory: history,
	}
}
