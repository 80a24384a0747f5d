package router

import (
	"errors"
	"fmt"

	"github.com/example/ballethq/internal/quiz"
	"github.com/example/ballethq/pkg/models"
)

var (
	// ErrUnknownSection is returned when a selected title matches no configured section
	ErrUnknownSection = errors.New("unknown section")
	// ErrNotAvailable is returned for an action the current view does not offer
	ErrNotAvailable = errors.New("action is not available on this page")
	// ErrStaleAnswer is returned for an answer given to a question that is no longer presented
	ErrStaleAnswer = fmt.Errorf("%w: the answer belongs to an earlier question", ErrNotAvailable)
)

// Action is a user interaction
type Action interface {
	action()
}

// SelectSection opens a section from the landing page
type SelectSection struct{ Title string }

// SubmitAnswer answers the question being presented.
// Attempt and Question name the session ID and question index the answer was given for.
type SubmitAnswer struct {
	Attempt  string
	Question int
	Choice   string
}

// GoHome returns to the landing page and discards the quiz
type GoHome struct{}

// PlayAgain restarts the current quiz from the first question
type PlayAgain struct{}

func (SelectSection) action() {}
func (SubmitAnswer) action() {}
func (GoHome) action() {}
func (PlayAgain) action() {}

// State is everything one learner's interactive session holds
type State struct {
	View    View
	Quiz    *quiz.Session // Set on a quiz view whose sheet loaded
	LoadErr error         // Set on a quiz view whose sheet failed to load
}

// QuestionSource provides the questions of a sheet
type QuestionSource interface {
	Questions(sheet string) ([]models.Question, error)
}

// Router applies actions to session states
type Router struct {
	sections []models.Section
	source   QuestionSource
	opts     []quiz.Option
}

// New creates a router over the landing sections. opts are passed to every new quiz session.
func New(sections []models.Section, source QuestionSource, opts ...quiz.Option) *Router {
	return &Router{
		sections: sections,
		source:   source,
		opts:     opts,
	}
}

// Sections returns the landing page entries in display order
func (r *Router) Sections() []models.Section {
	return append([]models.Section(nil), r.sections...)
}

// Section looks up a section by its title
func (r *Router) Section(title string) (models.Section, bool) {
	for _, s := range r.sections {
		if s.Title == title {
			return s, true
		}
	}
	return models.Section{}, false
}

// Reduce performs the single transition triggered by an action.
// On error the returned state is the unchanged input state.
func (r *Router) Reduce(state State, a Action) (State, error) {
	switch a := a.(type) {
	case SelectSection:
		if state.View.Kind != KindLanding {
			return state, ErrNotAvailable
		}
		section, ok := r.Section(a.Title)
		if !ok {
			return state, fmt.Errorf("%w: %q", ErrUnknownSection, a.Title)
		}
		if !section.IsQuiz() {
			return State{View: PlaceholderView(section.Title)}, nil
		}
		return r.startQuiz(section.Sheet), nil

	case SubmitAnswer:
		if state.View.Kind != KindQuiz || state.Quiz == nil {
			return state, ErrNotAvailable
		}
		if a.Attempt != state.Quiz.ID() || a.Question != state.Quiz.Index() {
			return state, ErrStaleAnswer
		}
		if _, err := state.Quiz.Submit(a.Choice); err != nil {
			return state, err
		}
		return state, nil

	case GoHome:
		return State{View: Landing}, nil

	case PlayAgain:
		if state.View.Kind != KindQuiz {
			return state, ErrNotAvailable
		}
		return r.startQuiz(state.View.Name), nil
	}

	return state, fmt.Errorf("unsupported action %T", a)
}

// startQuiz builds a fresh session for sheet. A load failure is kept in the state for display.
func (r *Router) startQuiz(sheet string) State {
	questions, err := r.source.Questions(sheet)
	if err != nil {
		return State{View: QuizView(sheet), LoadErr: err}
	}
	return State{View: QuizView(sheet), Quiz: quiz.NewSession(sheet, questions, r.opts...)}
}
