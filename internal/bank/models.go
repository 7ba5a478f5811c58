package bank

// Kind discriminates the five question variants.
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindFillInBlank    Kind = "fill-in-blank"
	KindTextInput      Kind = "text-input"
	KindMatching       Kind = "matching"
	KindFreeWriting    Kind = "free-writing"
)

// Kinds lists every supported kind in catalog order.
var Kinds = []Kind{KindMultipleChoice, KindFillInBlank, KindTextInput, KindMatching, KindFreeWriting}

// BlankMarker is the placeholder for one blank inside a fill-in-blank text.
const BlankMarker = "________"

// Question is the closed union of question kinds. Only the types in this
// package implement it.
type Question interface {
	QuestionID() string
	Kind() Kind
	Prompt() string
	isQuestion()
}

type Option struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

type Blank struct {
	ID     string `json:"id" yaml:"id"`
	Answer string `json:"answer,omitempty" yaml:"answer,omitempty"`
}

type Pair struct {
	ID    string `json:"id" yaml:"id"`
	Item  string `json:"item" yaml:"item"`
	Match string `json:"match,omitempty" yaml:"match,omitempty"`
}

type MultipleChoice struct {
	ID             string
	Text           string
	ImageURL       string
	Options        []Option
	CorrectAnswers []string
	Explanation    string
}

type FillInBlank struct {
	ID                 string
	Text               string
	ImageURL           string
	Blanks             []Blank
	AlternativeAnswers map[string][]string
	Explanation        string
}

type TextInput struct {
	ID                 string
	Text               string
	ImageURL           string
	CorrectAnswer      string
	AlternativeAnswers []string
	Explanation        string
}

type Matching struct {
	ID          string
	Text        string
	ImageURL    string
	Pairs       []Pair
	Explanation string
}

// FreeWriting has no single correct answer. Zero word bounds mean unset.
type FreeWriting struct {
	ID           string
	Text         string
	ImageURL     string
	MinWords     int
	MaxWords     int
	Guidance     string
	SampleAnswer string
}

func (q *MultipleChoice) QuestionID() string { return q.ID }
func (q *FillInBlank) QuestionID() string    { return q.ID }
func (q *TextInput) QuestionID() string      { return q.ID }
func (q *Matching) QuestionID() string       { return q.ID }
func (q *FreeWriting) QuestionID() string    { return q.ID }

func (*MultipleChoice) Kind() Kind { return KindMultipleChoice }
func (*FillInBlank) Kind() Kind    { return KindFillInBlank }
func (*TextInput) Kind() Kind      { return KindTextInput }
func (*Matching) Kind() Kind       { return KindMatching }
func (*FreeWriting) Kind() Kind    { return KindFreeWriting }

func (q *MultipleChoice) Prompt() string { return q.Text }
func (q *FillInBlank) Prompt() string    { return q.Text }
func (q *TextInput) Prompt() string      { return q.Text }
func (q *Matching) Prompt() string       { return q.Text }
func (q *FreeWriting) Prompt() string    { return q.Text }

func (*MultipleChoice) isQuestion() {}
func (*FillInBlank) isQuestion()    {}
func (*TextInput) isQuestion()      {}
func (*Matching) isQuestion()       {}
func (*FreeWriting) isQuestion()    {}

// Category is a named, fixed collection of questions on one grammar topic.
type Category struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Tip         string
	Questions   []Question
}

// Summary is the catalog listing entry for a category.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Tip           string `json:"tip,omitempty"`
	QuestionCount int    `json:"question_count"`
}

func (c Category) Summary() Summary {
	return Summary{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Icon:          c.Icon,
		Tip:           c.Tip,
		QuestionCount: len(c.Questions),
	}
}

// Explanation returns the question's explanation, if its kind carries one.
func Explanation(q Question) string {
	switch v := q.(type) {
	case *MultipleChoice:
		return v.Explanation
	case *FillInBlank:
		return v.Explanation
	case *TextInput:
		return v.Explanation
	case *Matching:
		return v.Explanation
	case *FreeWriting:
		return ""
	}
	return ""
}
