package models

import "strings"

// Question represents one multiple-choice row of a quiz sheet
type Question struct {
	Prompt   string `json:"question"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
	OptionC  string `json:"option_c"`
	OptionD  string `json:"option_d"`
	Answer   string `json:"answer"`              // Option letter: a, b, c or d
	ImageURL string `json:"image_url,omitempty"` // Optional picture shown after a correct answer
}

// Letters lists the option letters in their stored order
var Letters = []string{"a", "b", "c", "d"}

// Options returns the four option texts in a..d order
func (q Question) Options() []string {
	return []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}

// Option returns the text stored under an option letter
func (q Question) Option(letter string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(letter)) {
	case "a":
		return q.OptionA, true
	case "b":
		return q.OptionB, true
	case "c":
		return q.OptionC, true
	case "d":
		return q.OptionD, true
	}
	return "", false
}

// CorrectText resolves the answer letter to its option text
func (q Question) CorrectText() string {
	text, _ := q.Option(q.Answer)
	return text
}
