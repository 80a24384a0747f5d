package quiz

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/example/ballethq/pkg/models"
	"github.com/google/uuid"
)

var (
	// ErrNoChoice is returned when an answer is submitted without picking an option
	ErrNoChoice = errors.New("please choose one of the options")
	// ErrUnknownChoice is returned when the submitted text is none of the displayed options
	ErrUnknownChoice = errors.New("the chosen answer is not one of the options")
	// ErrFinished is returned when an answer is submitted after the last question
	ErrFinished = errors.New("the quiz is already finished")
)

// Phase is the state of a quiz session
type Phase int

const (
	// Presenting means the question at Index is waiting for an answer
	Presenting Phase = iota
	// Finished means every question has been answered
	Finished
)

func (p Phase) String() string {
	if p == Finished {
		return "finished"
	}
	return "presenting"
}

// Session is one learner's attempt at the questions of a sheet
type Session struct {
	id        string
	sheet     string
	questions []models.Question
	index     int
	responses []models.Response
	shuffles  map[int][]string // question index -> display order, fixed once computed
	rnd       *rand.Rand
}

// Option configures a Session
type Option func(*Session)

// WithRand makes option shuffles come from r instead of a time-seeded source
func WithRand(r *rand.Rand) Option {
	return func(s *Session) {
		s.rnd = r
	}
}

// NewSession starts a session at the first question. questions is shared and never modified.
func NewSession(sheet string, questions []models.Question, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		sheet:     sheet,
		questions: questions,
		responses: make([]models.Response, 0, len(questions)),
		shuffles:  make(map[int][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// ID identifies this attempt. Play again and Home start a session with a new ID.
func (s *Session) ID() string {
	return s.id
}

// Sheet returns the worksheet the questions came from
func (s *Session) Sheet() string { return s.sheet }

// Total returns the number of questions loaded for the sheet
func (s *Session) Total() int { return len(s.questions) }

// Index returns the position of the question being presented (Total once finished)
func (s *Session) Index() int { return s.index }

// Phase reports whether the session is presenting a question or finished
func (s *Session) Phase() Phase {
	if s.index >= len(s.questions) {
		return Finished
	}
	return Presenting
}

// Current returns the question being presented
func (s *Session) Current() (models.Question, bool) {
	if s.Phase() == Finished {
		return models.Question{}, false
	}
	return s.questions[s.index], true
}

// Options returns the current question's four option texts in display order.
// The order is drawn the first time it is asked for and reused afterwards.
func (s *Session) Options() []string {
	q, ok := s.Current()
	if !ok {
		return nil
	}

	opts, ok := s.shuffles[s.index]
	if !ok {
		texts := q.Options()
		opts = make([]string, len(texts))
		for i, j := range s.rnd.Perm(len(texts)) {
			opts[i] = texts[j]
		}
		s.shuffles[s.index] = opts
	}
	return append([]string(nil), opts...)
}

// Submit records the answer to the current question and moves to the next one.
// The choice is compared with the text of the option named by the answer letter,
// ignoring case and surrounding or repeated whitespace.
func (s *Session) Submit(choice string) (models.Response, error) {
	q, ok := s.Current()
	if !ok {
		return models.Response{}, ErrFinished
	}
	if strings.TrimSpace(choice) == "" {
		return models.Response{}, ErrNoChoice
	}

	chosen := ""
	for _, opt := range s.Options() {
		if sameText(opt, choice) {
			chosen = opt
			break
		}
	}
	if chosen == "" {
		return models.Response{}, ErrUnknownChoice
	}

	correct := q.CorrectText()
	resp := models.Response{
		Prompt:    q.Prompt,
		Chosen:    chosen,
		Correct:   correct,
		IsCorrect: sameText(chosen, correct),
	}
	s.responses = append(s.responses, resp)
	s.index++
	return resp, nil
}

// Responses returns the recorded answers, first answered first
func (s *Session) Responses() []models.Response {
	return append([]models.Response(nil), s.responses...)
}

// Feedback describes the outcome of the most recent answer
type Feedback struct {
	models.Response
	ImageURL string // Set only for a correct answer with an illustrated question
}

// LastFeedback returns the feedback for the previous question, if one was answered
func (s *Session) LastFeedback() (Feedback, bool) {
	if len(s.responses) == 0 {
		return Feedback{}, false
	}
	resp := s.responses[len(s.responses)-1]
	fb := Feedback{Response: resp}
	if resp.IsCorrect {
		fb.ImageURL = s.questions[len(s.responses)-1].ImageURL
	}
	return fb, true
}

// Score tallies the session against every question of the sheet
func (s *Session) Score() Score {
	return Tally(s.responses, len(s.questions))
}

// Review returns the answers that were wrong
func (s *Session) Review() []models.Response {
	return Review(s.responses)
}

// sameText compares two answers ignoring case and whitespace differences
func sameText(a, b string) bool {
	return normalize(a) == normalize(b)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
