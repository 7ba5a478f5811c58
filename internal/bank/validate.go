package bank

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidQuestionData = errors.New("invalid question data")
)

// InvalidQuestionError names the category and question that broke a shape
// invariant. It matches ErrInvalidQuestionData.
type InvalidQuestionError struct {
	CategoryID string
	QuestionID string
	Reason     string
}

func (e *InvalidQuestionError) Error() string {
	switch {
	case e.QuestionID != "":
		return fmt.Sprintf("invalid question data: category %q question %q: %s", e.CategoryID, e.QuestionID, e.Reason)
	case e.CategoryID != "":
		return fmt.Sprintf("invalid question data: category %q: %s", e.CategoryID, e.Reason)
	}
	return "invalid question data: " + e.Reason
}

func (e *InvalidQuestionError) Is(target error) bool { return target == ErrInvalidQuestionData }

// Validate checks every category and question invariant. It returns the first
// violation found.
func Validate(c Category) error {
	bad := func(qid, format string, args ...any) error {
		return &InvalidQuestionError{CategoryID: c.ID, QuestionID: qid, Reason: fmt.Sprintf(format, args...)}
	}
	if strings.TrimSpace(c.ID) == "" {
		return bad("", "missing id")
	}
	if len(c.Questions) == 0 {
		return bad("", "no questions")
	}
	ids := make(map[string]struct{}, len(c.Questions))
	for i, q := range c.Questions {
		if q == nil {
			return bad("", "question %d is empty", i)
		}
		id := q.QuestionID()
		if strings.TrimSpace(id) == "" {
			return bad("", "question %d has no id", i)
		}
		if _, dup := ids[id]; dup {
			return bad(id, "duplicate question id")
		}
		ids[id] = struct{}{}
		if reason := checkQuestion(q); reason != "" {
			return bad(id, "%s", reason)
		}
	}
	return nil
}

func checkQuestion(q Question) string {
	switch v := q.(type) {
	case *MultipleChoice:
		if len(v.Options) == 0 {
			return "multiple-choice without options"
		}
		opts, dup := idSet(len(v.Options), func(i int) string { return v.Options[i].ID })
		if dup != "" {
			return fmt.Sprintf("duplicate option id %q", dup)
		}
		if len(v.CorrectAnswers) == 0 {
			return "no correct answers"
		}
		for _, a := range v.CorrectAnswers {
			if _, ok := opts[a]; !ok {
				return fmt.Sprintf("correct answer %q is not an option", a)
			}
		}
	case *FillInBlank:
		if len(v.Blanks) == 0 {
			return "fill-in-blank without blanks"
		}
		if n := strings.Count(v.Text, BlankMarker); n != len(v.Blanks) {
			return fmt.Sprintf("text has %d blank markers, want %d", n, len(v.Blanks))
		}
		blanks, dup := idSet(len(v.Blanks), func(i int) string { return v.Blanks[i].ID })
		if dup != "" {
			return fmt.Sprintf("duplicate blank id %q", dup)
		}
		for _, b := range v.Blanks {
			if strings.TrimSpace(b.Answer) == "" {
				return fmt.Sprintf("blank %q without answer", b.ID)
			}
		}
		for k := range v.AlternativeAnswers {
			if _, ok := blanks[k]; !ok {
				return fmt.Sprintf("alternatives for unknown blank %q", k)
			}
		}
	case *TextInput:
		if strings.TrimSpace(v.CorrectAnswer) == "" {
			return "text-input without correct answer"
		}
	case *Matching:
		if len(v.Pairs) == 0 {
			return "matching without pairs"
		}
		if _, dup := idSet(len(v.Pairs), func(i int) string { return v.Pairs[i].ID }); dup != "" {
			return fmt.Sprintf("duplicate pair id %q", dup)
		}
		for _, p := range v.Pairs {
			if strings.TrimSpace(p.Match) == "" {
				return fmt.Sprintf("pair %q without match", p.ID)
			}
		}
	case *FreeWriting:
		if v.MinWords < 0 || v.MaxWords < 0 {
			return "negative word bound"
		}
		if v.MinWords > 0 && v.MaxWords > 0 && v.MinWords > v.MaxWords {
			return fmt.Sprintf("minWords %d exceeds maxWords %d", v.MinWords, v.MaxWords)
		}
	default:
		return fmt.Sprintf("unsupported question type %T", q)
	}
	return ""
}

// idSet collects ids and reports the first empty or duplicate one.
func idSet(n int, id func(int) string) (map[string]struct{}, string) {
	set := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := id(i)
		if _, ok := set[k]; ok || k == "" {
			if k == "" {
				k = "<empty>"
			}
			return nil, k
		}
		set[k] = struct{}{}
	}
	return set, ""
}
