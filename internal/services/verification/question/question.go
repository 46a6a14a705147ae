// Package question defines the parental verification quiz content
// contract: pools of exactly six three-option questions.
package question

import (
	"context"
	"strconv"

	apperrors "github.com/sproutbank/sproutbank/internal/platform/errors"
)

// PoolSize is the number of questions a verification session consumes.
const PoolSize = 6

// OptionCount is the number of answer options per question.
const OptionCount = 3

// Question is one multiple-choice quiz item. CorrectIndex never leaves the
// server.
type Question struct {
	Text         string              `json:"text"`
	Options      [OptionCount]string `json:"options"`
	CorrectIndex int                 `json:"-"`
}

// Source produces question pools. Implementations may call out to an
// external generator; callers fall back to the static pool when a source
// fails.
type Source interface {
	Questions(ctx context.Context) ([]Question, error)
}

// ValidatePool checks that a pool is usable by the session machine.
func ValidatePool(pool []Question) error {
	if len(pool) != PoolSize {
		return apperrors.WithMetadata(apperrors.CodeQuestionPoolInvalid,
			"question pool must contain exactly six questions",
			map[string]string{"size": strconv.Itoa(len(pool))})
	}
	for i, q := range pool {
		if q.Text == "" {
			return apperrors.WithMetadata(apperrors.CodeQuestionPoolInvalid,
				"question text is empty", map[string]string{"index": strconv.Itoa(i)})
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
			return apperrors.WithMetadata(apperrors.CodeQuestionPoolInvalid,
				"correct index out of range", map[string]string{"index": strconv.Itoa(i)})
		}
		for _, option := range q.Options {
			if option == "" {
				return apperrors.WithMetadata(apperrors.CodeQuestionPoolInvalid,
					"question option is empty", map[string]string{"index": strconv.Itoa(i)})
			}
		}
	}
	return nil
}
