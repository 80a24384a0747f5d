package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/ballethq/internal/excel"
	"github.com/example/ballethq/internal/quiz"
	"github.com/example/ballethq/internal/router"
	"github.com/example/ballethq/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "quiz_session"

// page is the data behind templates/page.html
type page struct {
	Title   string
	HasLogo bool
	Error   string
	Kind    string // landing, question, results, placeholder, load_error
	Heading string

	Sections []models.Section

	Attempt  string
	Index    int
	Number   int
	Total    int
	Question string
	Options  []string
	Feedback *quiz.Feedback

	Score  quiz.Score
	Review []models.Response

	LoadError string
}

func (s *Server) showPage(c *gin.Context) {
	var p page
	s.sessions.Do(s.sessionID(c), func(state *router.State) error {
		p = s.buildPage(state, nil)
		return nil
	})
	c.HTML(http.StatusOK, "page.html", p)
}

func (s *Server) selectSection(c *gin.Context) {
	s.act(c, router.SelectSection{Title: c.PostForm("section")})
}

func (s *Server) submitAnswer(c *gin.Context) {
	index, err := strconv.Atoi(c.PostForm("index"))
	if err != nil {
		index = -1
	}
	s.act(c, router.SubmitAnswer{
		Attempt:  c.PostForm("attempt"),
		Question: index,
		Choice:   c.PostForm("choice"),
	})
}

func (s *Server) goHome(c *gin.Context) {
	s.act(c, router.GoHome{})
}

func (s *Server) playAgain(c *gin.Context) {
	s.act(c, router.PlayAgain{})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

// act applies one action to the caller's session. Successful actions redirect back to the page;
// rejected input re-renders the unchanged page with the reason.
func (s *Server) act(c *gin.Context, action router.Action) {
	var p page
	err := s.sessions.Do(s.sessionID(c), func(state *router.State) error {
		next, err := s.router.Reduce(*state, action)
		*state = next
		if err != nil {
			p = s.buildPage(state, err)
		}
		return err
	})

	switch {
	case err == nil,
		errors.Is(err, router.ErrNotAvailable),
		errors.Is(err, quiz.ErrFinished):
		// Stale forms from another tab or a repeated submit fall back to the current page
		c.Redirect(http.StatusSeeOther, "/")
	default:
		c.HTML(http.StatusUnprocessableEntity, "page.html", p)
	}
}

// sessionID returns the caller's session id, issuing a new cookie when needed
func (s *Server) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}

// buildPage describes the view of a state. actionErr is shown above the page.
func (s *Server) buildPage(state *router.State, actionErr error) page {
	p := page{
		Title:   s.opts.Title,
		HasLogo: s.hasLogo,
	}
	if actionErr != nil {
		p.Error = actionErr.Error()
	}

	switch state.View.Kind {
	case router.KindPlaceholder:
		p.Kind = "placeholder"
		p.Heading = state.View.Name

	case router.KindQuiz:
		p.Heading = state.View.Name
		if state.Quiz == nil {
			p.Kind = "load_error"
			p.LoadError = loadErrorMessage(state.LoadErr)
			break
		}

		if fb, ok := state.Quiz.LastFeedback(); ok {
			p.Feedback = &fb
		}

		q, ok := state.Quiz.Current()
		if !ok {
			p.Kind = "results"
			p.Score = state.Quiz.Score()
			p.Review = state.Quiz.Review()
			break
		}
		p.Kind = "question"
		p.Attempt = state.Quiz.ID()
		p.Index = state.Quiz.Index()
		p.Number = p.Index + 1
		p.Total = state.Quiz.Total()
		p.Question = q.Prompt
		p.Options = state.Quiz.Options()

	default:
		p.Kind = "landing"
		p.Sections = s.router.Sections()
	}
	return p
}

func loadErrorMessage(err error) string {
	var missing *excel.MissingSheetError
	if errors.As(err, &missing) {
		return "Sheet “" + missing.Sheet + "” not found in '" + missing.Source + "'. Open the workbook and add the tab."
	}
	if err != nil {
		return err.Error()
	}
	return "The quiz could not be loaded."
}
