package router

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/example/ballethq/internal/excel"
	"github.com/example/ballethq/internal/quiz"
	"github.com/example/ballethq/pkg/models"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	sheets map[string][]models.Question
	loads  int
}

func (f *fakeSource) Questions(sheet string) ([]models.Question, error) {
	f.loads++
	qs, ok := f.sheets[sheet]
	if !ok {
		return nil, &excel.MissingSheetError{Sheet: sheet, Source: "theory.xlsx"}
	}
	return qs, nil
}

func newTestRouter() (*Router, *fakeSource) {
	source := &fakeSource{sheets: map[string][]models.Question{
		"Grade 1": {
			{Prompt: "Q1", OptionA: "1", OptionB: "2", OptionC: "3", OptionD: "4", Answer: "b"},
			{Prompt: "Q2", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", Answer: "a"},
		},
	}}
	sections := []models.Section{
		{Title: "Grade 1", Sheet: "Grade 1"},
		{Title: "Grade 2", Sheet: "Grade 2"},
		{Title: "Flash Cards"},
	}
	return New(sections, source, quiz.WithRand(rand.New(rand.NewSource(1)))), source
}

// answer submits choice for the question currently presented
func answer(state State, choice string) SubmitAnswer {
	a := SubmitAnswer{Choice: choice}
	if state.Quiz != nil {
		a.Attempt = state.Quiz.ID()
		a.Question = state.Quiz.Index()
	}
	return a
}

func TestDefaultStateIsLanding(t *testing.T) {
	var state State
	require.Equal(t, Landing, state.View)
	require.Equal(t, "landing", state.View.String())
}

func TestPlayThroughAndReset(t *testing.T) {
	r, _ := newTestRouter()

	state, err := r.Reduce(State{}, SelectSection{Title: "Grade 1"})
	require.NoError(t, err)
	require.Equal(t, QuizView("Grade 1"), state.View)
	require.Equal(t, "quiz:Grade 1", state.View.String())
	require.NotNil(t, state.Quiz)
	require.Equal(t, 0, state.Quiz.Index())

	state, err = r.Reduce(state, answer(state, "2"))
	require.NoError(t, err)
	require.Equal(t, 1, state.Quiz.Index())

	state, err = r.Reduce(state, answer(state, "y"))
	require.NoError(t, err)
	require.Equal(t, quiz.Finished, state.Quiz.Phase())
	require.Equal(t, quiz.Score{Correct: 1, Total: 2}, state.Quiz.Score())

	again, err := r.Reduce(state, PlayAgain{})
	require.NoError(t, err)
	require.Equal(t, QuizView("Grade 1"), again.View)
	require.NotSame(t, state.Quiz, again.Quiz)
	require.Equal(t, 0, again.Quiz.Index())
	require.Empty(t, again.Quiz.Responses())
	require.Equal(t, quiz.Presenting, again.Quiz.Phase())

	home, err := r.Reduce(again, GoHome{})
	require.NoError(t, err)
	require.Equal(t, State{View: Landing}, home)
}

func TestSelectPlaceholder(t *testing.T) {
	r, source := newTestRouter()

	state, err := r.Reduce(State{}, SelectSection{Title: "Flash Cards"})
	require.NoError(t, err)
	require.Equal(t, PlaceholderView("Flash Cards"), state.View)
	require.Equal(t, "placeholder:Flash Cards", state.View.String())
	require.Nil(t, state.Quiz)
	require.Zero(t, source.loads)
}

func TestSelectMissingSheetKeepsErrorInState(t *testing.T) {
	r, _ := newTestRouter()

	state, err := r.Reduce(State{}, SelectSection{Title: "Grade 2"})
	require.NoError(t, err)
	require.Equal(t, QuizView("Grade 2"), state.View)
	require.Nil(t, state.Quiz)

	var missing *excel.MissingSheetError
	require.True(t, errors.As(state.LoadErr, &missing))
	require.Equal(t, "Grade 2", missing.Sheet)

	_, err = r.Reduce(state, answer(state, "x"))
	require.ErrorIs(t, err, ErrNotAvailable)

	home, err := r.Reduce(state, GoHome{})
	require.NoError(t, err)
	require.Equal(t, Landing, home.View)
}

func TestInvalidActionsLeaveStateUnchanged(t *testing.T) {
	r, _ := newTestRouter()

	_, err := r.Reduce(State{}, SelectSection{Title: "Grade 9"})
	require.ErrorIs(t, err, ErrUnknownSection)

	_, err = r.Reduce(State{}, SubmitAnswer{Choice: "2"})
	require.ErrorIs(t, err, ErrNotAvailable)

	_, err = r.Reduce(State{}, PlayAgain{})
	require.ErrorIs(t, err, ErrNotAvailable)

	state, err := r.Reduce(State{}, SelectSection{Title: "Grade 1"})
	require.NoError(t, err)
	options := state.Quiz.Options()

	same, err := r.Reduce(state, answer(state, ""))
	require.ErrorIs(t, err, quiz.ErrNoChoice)
	require.Equal(t, state, same)
	require.Equal(t, options, same.Quiz.Options())

	_, err = r.Reduce(state, SelectSection{Title: "Grade 1"})
	require.ErrorIs(t, err, ErrNotAvailable)
}

func TestStaleAnswersAreRejected(t *testing.T) {
	r, _ := newTestRouter()

	first, err := r.Reduce(State{}, SelectSection{Title: "Grade 1"})
	require.NoError(t, err)
	old := answer(first, "3")

	home, err := r.Reduce(first, GoHome{})
	require.NoError(t, err)
	second, err := r.Reduce(home, SelectSection{Title: "Grade 1"})
	require.NoError(t, err)
	require.NotEqual(t, first.Quiz.ID(), second.Quiz.ID())

	same, err := r.Reduce(second, old)
	require.ErrorIs(t, err, ErrStaleAnswer)
	require.ErrorIs(t, err, ErrNotAvailable)
	require.Equal(t, second, same)
	require.Empty(t, second.Quiz.Responses())

	repeated := answer(second, "2")
	next, err := r.Reduce(second, repeated)
	require.NoError(t, err)
	require.Equal(t, 1, next.Quiz.Index())

	_, err = r.Reduce(next, repeated)
	require.ErrorIs(t, err, ErrStaleAnswer)
	require.Len(t, next.Quiz.Responses(), 1)
	require.Equal(t, 1, next.Quiz.Index())
}
