package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Alternatives holds accepted alternative answers. Fill-in-blank questions
// key them by blank id; text-input questions use a flat list.
type Alternatives struct {
	ByBlank map[string][]string
	List    []string
}

func (a Alternatives) IsZero() bool { return len(a.ByBlank) == 0 && len(a.List) == 0 }

func (a Alternatives) MarshalJSON() ([]byte, error) {
	if len(a.ByBlank) > 0 {
		return json.Marshal(a.ByBlank)
	}
	if len(a.List) > 0 {
		return json.Marshal(a.List)
	}
	return []byte("null"), nil
}

func (a *Alternatives) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		a.List = list
		return nil
	}
	var m map[string][]string
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("alternativeAnswers: want list or map of lists: %w", err)
	}
	a.ByBlank = m
	return nil
}

func (a Alternatives) MarshalYAML() (interface{}, error) {
	if len(a.ByBlank) > 0 {
		return a.ByBlank, nil
	}
	return a.List, nil
}

func (a *Alternatives) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		return n.Decode(&a.List)
	case yaml.MappingNode:
		return n.Decode(&a.ByBlank)
	default:
		return fmt.Errorf("alternativeAnswers: line %d: want list or mapping", n.Line)
	}
}

// Record is the flat wire form of a question, shared by the YAML catalog,
// generated quizzes and the HTTP API.
type Record struct {
	ID                 string       `json:"id" yaml:"id"`
	Type               Kind         `json:"type" yaml:"type"`
	Text               string       `json:"text" yaml:"text"`
	ImageURL           string       `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Options            []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	CorrectAnswers     []string     `json:"correctAnswers,omitempty" yaml:"correctAnswers,omitempty"`
	Blanks             []Blank      `json:"blanks,omitempty" yaml:"blanks,omitempty"`
	CorrectAnswer      string       `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`
	AlternativeAnswers Alternatives `json:"alternativeAnswers,omitempty" yaml:"alternativeAnswers,omitempty"`
	Pairs              []Pair       `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Choices            []string     `json:"choices,omitempty" yaml:"-"`
	MinWords           int          `json:"minWords,omitempty" yaml:"minWords,omitempty"`
	MaxWords           int          `json:"maxWords,omitempty" yaml:"maxWords,omitempty"`
	Guidance           string       `json:"guidance,omitempty" yaml:"guidance,omitempty"`
	SampleAnswer       string       `json:"sampleAnswer,omitempty" yaml:"sampleAnswer,omitempty"`
	Explanation        string       `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Question converts the record into its union variant. Only the kind is
// checked here; shape invariants are checked by Validate.
func (r Record) Question() (Question, error) {
	switch r.Type {
	case KindMultipleChoice:
		return &MultipleChoice{
			ID: r.ID, Text: r.Text, ImageURL: r.ImageURL,
			Options: r.Options, CorrectAnswers: r.CorrectAnswers, Explanation: r.Explanation,
		}, nil
	case KindFillInBlank:
		return &FillInBlank{
			ID: r.ID, Text: r.Text, ImageURL: r.ImageURL,
			Blanks: r.Blanks, AlternativeAnswers: r.AlternativeAnswers.ByBlank, Explanation: r.Explanation,
		}, nil
	case KindTextInput:
		return &TextInput{
			ID: r.ID, Text: r.Text, ImageURL: r.ImageURL,
			CorrectAnswer: r.CorrectAnswer, AlternativeAnswers: r.AlternativeAnswers.List, Explanation: r.Explanation,
		}, nil
	case KindMatching:
		return &Matching{
			ID: r.ID, Text: r.Text, ImageURL: r.ImageURL,
			Pairs: r.Pairs, Explanation: r.Explanation,
		}, nil
	case KindFreeWriting:
		return &FreeWriting{
			ID: r.ID, Text: r.Text, ImageURL: r.ImageURL,
			MinWords: r.MinWords, MaxWords: r.MaxWords, Guidance: r.Guidance, SampleAnswer: r.SampleAnswer,
		}, nil
	}
	return nil, &InvalidQuestionError{QuestionID: r.ID, Reason: fmt.Sprintf("unknown question type %q", r.Type)}
}

// RecordOf converts a question back into its wire form.
func RecordOf(q Question) Record {
	switch v := q.(type) {
	case *MultipleChoice:
		return Record{ID: v.ID, Type: KindMultipleChoice, Text: v.Text, ImageURL: v.ImageURL,
			Options: v.Options, CorrectAnswers: v.CorrectAnswers, Explanation: v.Explanation}
	case *FillInBlank:
		return Record{ID: v.ID, Type: KindFillInBlank, Text: v.Text, ImageURL: v.ImageURL,
			Blanks: v.Blanks, AlternativeAnswers: Alternatives{ByBlank: v.AlternativeAnswers}, Explanation: v.Explanation}
	case *TextInput:
		return Record{ID: v.ID, Type: KindTextInput, Text: v.Text, ImageURL: v.ImageURL,
			CorrectAnswer: v.CorrectAnswer, AlternativeAnswers: Alternatives{List: v.AlternativeAnswers}, Explanation: v.Explanation}
	case *Matching:
		return Record{ID: v.ID, Type: KindMatching, Text: v.Text, ImageURL: v.ImageURL,
			Pairs: v.Pairs, Explanation: v.Explanation}
	case *FreeWriting:
		return Record{ID: v.ID, Type: KindFreeWriting, Text: v.Text, ImageURL: v.ImageURL,
			MinWords: v.MinWords, MaxWords: v.MaxWords, Guidance: v.Guidance, SampleAnswer: v.SampleAnswer}
	}
	return Record{}
}

// Redact is the record a learner may see while answering: answer keys,
// alternatives, matches, explanations and sample answers are stripped.
// Matching questions list their distinct matches, sorted, as Choices.
func Redact(q Question) Record {
	r := RecordOf(q)
	r.CorrectAnswers = nil
	r.CorrectAnswer = ""
	r.AlternativeAnswers = Alternatives{}
	r.Explanation = ""
	r.SampleAnswer = ""
	if len(r.Blanks) > 0 {
		blanks := make([]Blank, len(r.Blanks))
		for i, b := range r.Blanks {
			blanks[i] = Blank{ID: b.ID}
		}
		r.Blanks = blanks
	}
	if len(r.Pairs) > 0 {
		seen := map[string]struct{}{}
		pairs := make([]Pair, len(r.Pairs))
		for i, p := range r.Pairs {
			pairs[i] = Pair{ID: p.ID, Item: p.Item}
			if _, ok := seen[p.Match]; !ok {
				seen[p.Match] = struct{}{}
				r.Choices = append(r.Choices, p.Match)
			}
		}
		sort.Strings(r.Choices)
		r.Pairs = pairs
	}
	return r
}

// CategoryRecord is the wire form of a category.
type CategoryRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
	Tip         string   `json:"tip,omitempty" yaml:"tip,omitempty"`
	Questions   []Record `json:"questions" yaml:"questions"`
}

// Category converts the record, failing on the first unknown question type.
func (cr CategoryRecord) Category() (Category, error) {
	c := Category{ID: cr.ID, Title: cr.Title, Description: cr.Description, Icon: cr.Icon, Tip: cr.Tip}
	c.Questions = make([]Question, 0, len(cr.Questions))
	for _, r := range cr.Questions {
		q, err := r.Question()
		if err != nil {
			var iq *InvalidQuestionError
			if errors.As(err, &iq) {
				iq.CategoryID = cr.ID
			}
			return Category{}, err
		}
		c.Questions = append(c.Questions, q)
	}
	return c, nil
}

func RecordOfCategory(c Category) CategoryRecord {
	cr := CategoryRecord{ID: c.ID, Title: c.Title, Description: c.Description, Icon: c.Icon, Tip: c.Tip}
	cr.Questions = make([]Record, len(c.Questions))
	for i, q := range c.Questions {
		cr.Questions[i] = RecordOf(q)
	}
	return cr
}

// RedactCategory is the learner-safe form of a whole category.
func RedactCategory(c Category) CategoryRecord {
	cr := RecordOfCategory(c)
	for i, q := range c.Questions {
		cr.Questions[i] = Redact(q)
	}
	return cr
}
