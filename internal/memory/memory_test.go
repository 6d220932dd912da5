package memory

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartSession(t *testing.T) {
	id1 := StartSession("citizen1")
	time.Sleep(time.Microsecond)
	id2 := StartSession("citizen1")

	assert.Len(t, id1, 16)
	assert.NotEqual(t, id1, id2)
	assert.NotContains(t, id1, "citizen1")
}

func TestFormatTranscript(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		assert.Empty(t, formatTranscript(nil))
	})

	t.Run("turns in order", func(t *testing.T) {
		got := formatTranscript([]ConversationMemory{
			{UserQuery: "What is zoning?", AssistantResponse: "Zoning divides land into districts."},
			{UserQuery: "Who decides it?", AssistantResponse: "The planning commission."},
		})

		want := strings.Join([]string{
			"User: What is zoning?",
			"Assistant: Zoning divides land into districts.",
			"User: Who decides it?",
			"Assistant: The planning commission.",
		}, "\n")
		assert.Equal(t, want, got)
	})
}

func TestFormatRelevant(t *testing.T) {
	t.Run("empty recall", func(t *testing.T) {
		assert.Empty(t, formatRelevant(nil))
	})

	t.Run("truncates long responses", func(t *testing.T) {
		long := strings.Repeat("a", 120)
		got := formatRelevant([]scoredMemory{
			{ConversationMemory: ConversationMemory{UserQuery: "past question", AssistantResponse: long}},
		})

		assert.True(t, strings.HasPrefix(got, "Relevant past conversations:"))
		assert.Contains(t, got, "- Past Q: 'past question'")
		assert.Contains(t, got, strings.Repeat("a", 80)+"...'")
		assert.NotContains(t, got, strings.Repeat("a", 81))
	})
}
