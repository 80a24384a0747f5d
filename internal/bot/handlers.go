package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/ballethq/internal/excel"
	"github.com/example/ballethq/internal/quiz"
	"github.com/example/ballethq/internal/router"
	"github.com/example/ballethq/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Callback data prefixes and values
const (
	callbackSection   = "section:" // section:<index>
	callbackAnswer    = "answer:"  // answer:<session id>:<question index>:<option index>
	callbackHome      = "home"
	callbackPlayAgain = "again"
)

// HandleMessage answers commands. Any command brings the chat back to the landing page.
func (b *Bot) HandleMessage(message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	if !message.IsCommand() {
		return b.sendAll([]tgbotapi.Chattable{
			tgbotapi.NewMessage(chatID, "Use /menu to choose a section."),
		})
	}

	var out []tgbotapi.Chattable
	b.sessions.Do(sessionID(chatID), func(state *router.State) error {
		*state, _ = b.router.Reduce(*state, router.GoHome{})
		out = b.render(chatID, state, nil, nil)
		return nil
	})
	return b.sendAll(out)
}

// HandleCallback turns an inline button press into a router action
func (b *Bot) HandleCallback(callback *tgbotapi.CallbackQuery) error {
	if callback == nil || callback.Message == nil || callback.Message.Chat == nil {
		return fmt.Errorf("invalid callback data: required fields are missing")
	}

	// Always answer the callback query to remove the loading state
	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		logger.Log.Warn("Failed to answer callback", zap.Error(err))
	}

	chatID := callback.Message.Chat.ID
	var out []tgbotapi.Chattable

	b.sessions.Do(sessionID(chatID), func(state *router.State) error {
		action, err := b.parseCallback(callback.Data, state)
		if err != nil {
			out = b.render(chatID, state, nil, err)
			return nil
		}

		next, err := b.router.Reduce(*state, action)
		*state = next

		var fb *quiz.Feedback
		if _, answered := action.(router.SubmitAnswer); answered && err == nil {
			if f, ok := state.Quiz.LastFeedback(); ok {
				fb = &f
			}
		}
		out = b.render(chatID, state, fb, err)
		return nil
	})

	return b.sendAll(out)
}

var errStaleButton = errors.New("that button belongs to an earlier question")

// parseCallback resolves button data against the chat's current state
func (b *Bot) parseCallback(data string, state *router.State) (router.Action, error) {
	switch {
	case data == callbackHome:
		return router.GoHome{}, nil
	case data == callbackPlayAgain:
		return router.PlayAgain{}, nil

	case strings.HasPrefix(data, callbackSection):
		idx, err := strconv.Atoi(strings.TrimPrefix(data, callbackSection))
		sections := b.router.Sections()
		if err != nil || idx < 0 || idx >= len(sections) {
			return nil, fmt.Errorf("%w: %q", router.ErrUnknownSection, data)
		}
		return router.SelectSection{Title: sections[idx].Title}, nil

	case strings.HasPrefix(data, callbackAnswer):
		parts := strings.Split(strings.TrimPrefix(data, callbackAnswer), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid answer data %q", data)
		}
		attempt := parts[0]
		qIdx, err1 := strconv.Atoi(parts[1])
		optIdx, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid answer data %q", data)
		}
		// The option index only means something in the shuffle it was rendered from
		if state.Quiz == nil || state.Quiz.ID() != attempt || state.Quiz.Index() != qIdx {
			return nil, errStaleButton
		}
		options := state.Quiz.Options()
		if optIdx < 0 || optIdx >= len(options) {
			return nil, quiz.ErrUnknownChoice
		}
		return router.SubmitAnswer{Attempt: attempt, Question: qIdx, Choice: options[optIdx]}, nil
	}

	return nil, fmt.Errorf("unknown action %q", data)
}

// render builds the messages showing a state: feedback first, then the page itself
func (b *Bot) render(chatID int64, state *router.State, fb *quiz.Feedback, actionErr error) []tgbotapi.Chattable {
	var out []tgbotapi.Chattable

	if actionErr != nil {
		out = append(out, tgbotapi.NewMessage(chatID, "⚠️ "+actionErr.Error()))
	}

	if fb != nil {
		if fb.IsCorrect {
			out = append(out, tgbotapi.NewMessage(chatID, "✅ Correct!"))
			if fb.ImageURL != "" {
				out = append(out, tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(fb.ImageURL)))
			}
		} else {
			out = append(out, tgbotapi.NewMessage(chatID, "❌ Incorrect.\nCorrect answer: "+fb.Correct))
		}
	}

	homeRow := []MenuButton{{Text: "🏠 Home", CallbackData: callbackHome}}

	var msg tgbotapi.MessageConfig
	switch state.View.Kind {
	case router.KindPlaceholder:
		msg = tgbotapi.NewMessage(chatID, state.View.Name+"\n\n🚧 Content coming soon!")
		msg.ReplyMarkup = createKeyboard([][]MenuButton{homeRow})

	case router.KindQuiz:
		msg = b.renderQuiz(chatID, state, homeRow)

	default:
		var rows [][]MenuButton
		for i, s := range b.router.Sections() {
			rows = append(rows, []MenuButton{{Text: s.Title, CallbackData: callbackSection + strconv.Itoa(i)}})
		}
		msg = tgbotapi.NewMessage(chatID, b.title+"\n\nSelect a section to begin:")
		msg.ReplyMarkup = createKeyboard(rows)
	}

	return append(out, msg)
}

func (b *Bot) renderQuiz(chatID int64, state *router.State, homeRow []MenuButton) tgbotapi.MessageConfig {
	sheet := state.View.Name

	if state.Quiz == nil {
		text := "❌ " + sheet + " could not be loaded."
		var missing *excel.MissingSheetError
		if errors.As(state.LoadErr, &missing) {
			text = fmt.Sprintf("❌ Sheet “%s” not found in '%s'. Open the workbook and add the tab.", missing.Sheet, missing.Source)
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = createKeyboard([][]MenuButton{homeRow})
		return msg
	}

	q, ok := state.Quiz.Current()
	if !ok {
		score := state.Quiz.Score()
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s – Results\n\nScore: %d / %d\n", sheet, score.Correct, score.Total)

		review := state.Quiz.Review()
		if len(review) == 0 {
			sb.WriteString("\nNo mistakes – well done!")
		} else {
			sb.WriteString("\nReview questions to practise:\n")
			for _, r := range review {
				fmt.Fprintf(&sb, "\nQ: %s\n✘ Your answer: %s\n✔ Correct: %s\n", r.Prompt, r.Chosen, r.Correct)
			}
		}

		msg := tgbotapi.NewMessage(chatID, sb.String())
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{
			{Text: "🏠 Home", CallbackData: callbackHome},
			{Text: "Play again 🔄", CallbackData: callbackPlayAgain},
		}})
		return msg
	}

	var rows [][]MenuButton
	var row []MenuButton
	for i, opt := range state.Quiz.Options() {
		row = append(row, MenuButton{
			Text:         opt,
			CallbackData: fmt.Sprintf("%s%s:%d:%d", callbackAnswer, state.Quiz.ID(), state.Quiz.Index(), i),
		})
		if len(row) == b.config.AnswersPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, homeRow)

	text := fmt.Sprintf("%s – question %d of %d\n\n%s", sheet, state.Quiz.Index()+1, state.Quiz.Total(), q.Prompt)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(rows)
	return msg
}
