package router

// Kind is the type of top-level page being shown
type Kind int

const (
	KindLanding Kind = iota
	KindQuiz
	KindPlaceholder
)

// View selects the active page. The zero value is the landing page.
type View struct {
	Kind Kind
	Name string // Sheet of a quiz, title of a placeholder
}

// Landing is the section picker shown on first access
var Landing = View{Kind: KindLanding}

// QuizView returns the view of the quiz over sheet
func QuizView(sheet string) View {
	return View{Kind: KindQuiz, Name: sheet}
}

// PlaceholderView returns the view of a section without content yet
func PlaceholderView(title string) View {
	return View{Kind: KindPlaceholder, Name: title}
}

func (v View) String() string {
	switch v.Kind {
	case KindQuiz:
		return "quiz:" + v.Name
	case KindPlaceholder:
		return "placeholder:" + v.Name
	default:
		return "landing"
	}
}
