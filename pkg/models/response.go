package models

// Response records how the learner answered one question
type Response struct {
	Prompt    string `json:"question"`
	Chosen    string `json:"chosen"`
	Correct   string `json:"correct"`
	IsCorrect bool   `json:"is_correct"`
}
