package models

// Section is an entry of the landing page. A section without a sheet is a placeholder page.
type Section struct {
	Title string `json:"title" mapstructure:"title"`
	Sheet string `json:"sheet" mapstructure:"sheet"`
}

// IsQuiz reports whether the section is backed by a worksheet
func (s Section) IsQuiz() bool {
	return s.Sheet != ""
}
