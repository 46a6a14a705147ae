package question

import "context"

// FallbackSource serves a fixed adult-knowledge pool. It is used whenever
// an upstream generator is unavailable so verification never blocks on an
// external service.
type FallbackSource struct{}

var fallbackPool = []Question{
	{
		Text:         "Roughly how long does a standard mortgage run?",
		Options:      [OptionCount]string{"3 years", "30 years", "99 years"},
		CorrectIndex: 1,
	},
	{
		Text:         "What does APR on a credit card stand for?",
		Options:      [OptionCount]string{"Annual Percentage Rate", "Average Payment Ratio", "Approved Purchase Range"},
		CorrectIndex: 0,
	},
	{
		Text:         "Which document do employers send for income tax filing?",
		Options:      [OptionCount]string{"A warranty card", "A wage statement", "A boarding pass"},
		CorrectIndex: 1,
	},
	{
		Text:         "What is a security deposit on a rental?",
		Options:      [OptionCount]string{"A tip for the landlord", "Money held against damage", "The first month's groceries"},
		CorrectIndex: 1,
	},
	{
		Text:         "Which of these typically charges compound interest?",
		Options:      [OptionCount]string{"A savings account", "A bus ticket", "A library card"},
		CorrectIndex: 0,
	},
	{
		Text:         "What does an insurance deductible mean?",
		Options:      [OptionCount]string{"The part you pay before coverage starts", "A discount for paying early", "A refund at year end"},
		CorrectIndex: 0,
	},
}

// Questions returns a copy of the static pool.
func (FallbackSource) Questions(_ context.Context) ([]Question, error) {
	pool := make([]Question, len(fallbackPool))
	copy(pool, fallbackPool)
	return pool, nil
}

var _ Source = FallbackSource{}
