package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentFeedbackHeadersOnOwnLines(t *testing.T) {
	raw := "What is good:\n" +
		"- Clear actor and outcome.\n" +
		"- Testable as written.\n" +
		"What to change:\n" +
		"- Add an acceptance criterion.\n" +
		"Improved story:\n" +
		"As a user, I can log in with my email so that I keep one identity.\n"

	f := SegmentFeedback(raw)

	assert.True(t, f.Recognized())
	assert.Equal(t, []string{"Clear actor and outcome.", "Testable as written."}, f.Good)
	assert.Equal(t, []string{"Add an acceptance criterion."}, f.Change)
	assert.Equal(t, "As a user, I can log in with my email so that I keep one identity.", f.ImprovedStory)
	assert.Empty(t, f.Notes)
	assert.Equal(t, raw, f.Raw)
}

func TestSegmentFeedbackInlineHeaders(t *testing.T) {
	raw := "**What is good:** solid actor.\n" +
		"**What to change:** tighten the outcome.\n" +
		"**Improved story:** As a user, I can reset my password."

	f := SegmentFeedback(raw)

	assert.Equal(t, []string{"solid actor."}, f.Good)
	assert.Equal(t, []string{"tighten the outcome."}, f.Change)
	assert.Equal(t, "As a user, I can reset my password.", f.ImprovedStory)
}

func TestSegmentFeedbackCaseInsensitiveAndNumbered(t *testing.T) {
	raw := "1. WHAT IS GOOD\n" +
		"concrete user value\n" +
		"2) what to change\n" +
		"split into two stories\n"

	f := SegmentFeedback(raw)

	assert.Equal(t, []string{"concrete user value"}, f.Good)
	assert.Equal(t, []string{"split into two stories"}, f.Change)
}

func TestSegmentFeedbackUnstructuredFallsBackToNotes(t *testing.T) {
	raw := "This story is fine overall.\nConsider edge cases around empty input."

	f := SegmentFeedback(raw)

	assert.False(t, f.Recognized())
	assert.Equal(t, []string{
		"This story is fine overall.",
		"Consider edge cases around empty input.",
	}, f.Notes)
	assert.Equal(t, raw, f.Raw)
}
