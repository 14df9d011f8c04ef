package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationContext_ActivateAndClear(t *testing.T) {
	var conv ConversationContext

	conv.Activate("hotel_planning", 3)
	assert.Equal(t, "hotel_planning", conv.ActiveContext)
	assert.Equal(t, 0, conv.ContextTurns)
	assert.Equal(t, 3, conv.MaxDuration)

	conv.ContextTurns = 2
	conv.PushHistory(HistoryRecord{Intent: "hotel_query", Confidence: 0.9})
	conv.Clear()

	assert.Empty(t, conv.ActiveContext)
	assert.Equal(t, 0, conv.ContextTurns)
	assert.Equal(t, 0, conv.MaxDuration)
	assert.Len(t, conv.History, 1, "clearing the active context keeps history")
}

func TestConversationContext_HistoryBounded(t *testing.T) {
	var conv ConversationContext

	for i := 0; i < MaxHistoryRecords+5; i++ {
		conv.PushHistory(HistoryRecord{Intent: fmt.Sprintf("intent_%d", i)})
	}

	assert.Len(t, conv.History, MaxHistoryRecords)
	assert.Equal(t, "intent_5", conv.History[0].Intent, "oldest records are evicted first")
	assert.Equal(t, fmt.Sprintf("intent_%d", MaxHistoryRecords+4), conv.History[len(conv.History)-1].Intent)
}

func TestConversationContext_RecentHistory(t *testing.T) {
	var conv ConversationContext
	conv.PushHistory(HistoryRecord{Intent: "a"})
	conv.PushHistory(HistoryRecord{Intent: "b"})
	conv.PushHistory(HistoryRecord{Intent: "c"})
	conv.PushHistory(HistoryRecord{Intent: "d"})

	recent := conv.RecentHistory(3)
	assert.Equal(t, []HistoryRecord{{Intent: "b"}, {Intent: "c"}, {Intent: "d"}}, recent)

	assert.Nil(t, conv.RecentHistory(0))
	assert.Len(t, conv.RecentHistory(10), 4)
}

func TestConversationContext_Info(t *testing.T) {
	var conv ConversationContext

	info := conv.Info(3)
	assert.Empty(t, info.ActiveContext)
	assert.Equal(t, 0, info.ContextTurns)
	assert.NotNil(t, info.RecentHistory)
	assert.Empty(t, info.RecentHistory)
}
