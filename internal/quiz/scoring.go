package quiz

import "github.com/example/ballethq/pkg/models"

// Score is the result of a quiz
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Perfect reports whether every question was answered correctly
func (s Score) Perfect() bool {
	return s.Correct == s.Total
}

// Tally counts the correct responses. total is the number of questions in the sheet.
func Tally(responses []models.Response, total int) Score {
	score := Score{Total: total}
	for _, r := range responses {
		if r.IsCorrect {
			score.Correct++
		}
	}
	return score
}

// Review returns the incorrect responses in the order they were given.
// The result is never nil.
func Review(responses []models.Response) []models.Response {
	wrong := make([]models.Response, 0)
	for _, r := range responses {
		if !r.IsCorrect {
			wrong = append(wrong, r)
		}
	}
	return wrong
}
