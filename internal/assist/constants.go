package assist

import "time"

const (
	// CompletionTimeout bounds one completion round trip.
	CompletionTimeout = 60 * time.Second

	// Temperature is fixed for all three operations.
	Temperature = 0.2

	// FeedbackMaxTokens is the token budget for a story review.
	FeedbackMaxTokens = 450

	// StructuredMaxTokens is the budget for the JSON-shaped replies
	// (option generation, risk scoring).
	StructuredMaxTokens = 900

	// MaxOptions caps how many generated project skeletons are offered.
	MaxOptions = 3
)
