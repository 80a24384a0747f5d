package quiz

import (
	"testing"

	"github.com/example/ballethq/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	responses := []models.Response{
		{Prompt: "a", IsCorrect: true},
		{Prompt: "b", IsCorrect: false},
		{Prompt: "c", IsCorrect: true},
	}

	require.Equal(t, Score{Correct: 2, Total: 5}, Tally(responses, 5))
	require.Equal(t, Score{Correct: 0, Total: 3}, Tally(nil, 3))
}

func TestReviewKeepsAnswerOrder(t *testing.T) {
	responses := []models.Response{
		{Prompt: "a", IsCorrect: false},
		{Prompt: "b", IsCorrect: true},
		{Prompt: "c", IsCorrect: false},
	}

	review := Review(responses)
	require.Equal(t, []models.Response{responses[0], responses[2]}, review)
}

func TestReviewWithoutMistakesIsEmptyNotNil(t *testing.T) {
	review := Review([]models.Response{{Prompt: "a", IsCorrect: true}})
	require.NotNil(t, review)
	require.Empty(t, review)
	require.True(t, Tally([]models.Response{{IsCorrect: true}}, 1).Perfect())
}
