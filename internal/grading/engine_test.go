package grading

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mind-engage/grammaire/internal/bank"
)

var (
	mcq = &bank.MultipleChoice{
		ID:             "mc",
		Text:           "Pick two",
		Options:        []bank.Option{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		CorrectAnswers: []string{"b", "c"},
	}
	blank = &bank.FillInBlank{
		ID:                 "fb",
		Text:               "J'ai ________ frère.",
		Blanks:             []bank.Blank{{ID: "blank1", Answer: "un"}},
		AlternativeAnswers: map[string][]string{"blank1": {"une"}},
	}
	twoBlanks = &bank.FillInBlank{
		ID:     "fb2",
		Text:   "Il est ________ heures ________.",
		Blanks: []bank.Blank{{ID: "blank1", Answer: "douze"}, {ID: "blank2", Answer: "trente"}},
	}
	textIn = &bank.TextInput{ID: "ti", Text: "Midi?", CorrectAnswer: "Il est midi.", AlternativeAnswers: []string{"Il est douze heures."}}
	match  = &bank.Matching{
		ID:   "m",
		Text: "Match",
		Pairs: []bank.Pair{
			{ID: "p1", Item: "livre", Match: "le"},
			{ID: "p2", Item: "chaise", Match: "la"},
			{ID: "p3", Item: "stylos", Match: "les"},
		},
	}
	free = &bank.FreeWriting{ID: "fw", Text: "Write", MinWords: 3, MaxWords: 10}
)

func TestMultipleChoiceExactSet(t *testing.T) {
	ev := NewEvaluator()
	cases := []struct {
		sel  Selection
		want bool
	}{
		{Selection{"b", "c"}, true},
		{Selection{"c", "b"}, true},
		{Selection{"c", "b", "b"}, true},
		{Selection{"b"}, false},
		{Selection{"b", "c", "d"}, false},
		{Selection{}, false},
	}
	for _, tc := range cases {
		if got := ev.Evaluate(mcq, tc.sel).Correct; got != tc.want {
			t.Errorf("%v: correct = %v, want %v", tc.sel, got, tc.want)
		}
	}
	single := &bank.MultipleChoice{ID: "s", Options: []bank.Option{{ID: "a"}, {ID: "b"}}, CorrectAnswers: []string{"a"}}
	if !ev.Evaluate(single, Text("a")).Correct {
		t.Error("single option id as text should be accepted")
	}
}

func TestFillInBlankCaseTrimAndAlternatives(t *testing.T) {
	ev := NewEvaluator()
	for _, given := range []string{"Un", " un ", "une"} {
		v := ev.Evaluate(blank, Keyed{"blank1": given})
		if !v.Correct || !v.Answered {
			t.Errorf("%q: verdict %+v, want correct", given, v)
		}
	}
	v := ev.Evaluate(blank, Keyed{"blank1": "le"})
	if v.Correct {
		t.Error(`"le" should be incorrect`)
	}
	if len(v.Blanks) != 1 || v.Blanks[0].Expected != "un" || v.Blanks[0].Given != "le" {
		t.Errorf("blank parts = %+v", v.Blanks)
	}
}

func TestFillInBlankAllOrNothingWithDetail(t *testing.T) {
	v := NewEvaluator().Evaluate(twoBlanks, Keyed{"blank1": "douze", "blank2": "quinze"})
	if v.Correct {
		t.Fatal("one wrong blank must make the question incorrect")
	}
	if !v.Blanks[0].Correct || v.Blanks[1].Correct {
		t.Fatalf("per-blank detail = %+v", v.Blanks)
	}
}

func TestTextInput(t *testing.T) {
	ev := NewEvaluator()
	if !ev.Evaluate(textIn, Text("il est midi.")).Correct {
		t.Error("case difference should be accepted")
	}
	if !ev.Evaluate(textIn, Text("  Il est douze heures. ")).Correct {
		t.Error("alternative with padding should be accepted")
	}
	v := ev.Evaluate(textIn, Text("Il est midii."))
	if v.Correct {
		t.Fatal("typo must not be correct")
	}
	if len(v.Feedback) != 1 || v.Feedback[0] != "close match" {
		t.Errorf("feedback = %v, want close match", v.Feedback)
	}
	if fb := NewEvaluator(WithMaxEditDistance(0)).Evaluate(textIn, Text("Il est midii.")).Feedback; len(fb) != 0 {
		t.Errorf("near-miss disabled, got feedback %v", fb)
	}
}

func TestMatchingPairsIndependent(t *testing.T) {
	v := NewEvaluator().Evaluate(match, Keyed{"p1": "le", "p2": "les", "p3": "les"})
	if v.Correct {
		t.Fatal("aggregate should be incorrect")
	}
	want := []bool{true, false, true}
	for i, p := range v.Pairs {
		if p.Correct != want[i] {
			t.Errorf("pair %s correct = %v, want %v", p.ID, p.Correct, want[i])
		}
	}
	if !NewEvaluator().Evaluate(match, Keyed{"p1": "le", "p2": "la", "p3": "les"}).Correct {
		t.Error("all pairs right should be correct")
	}
	if NewEvaluator().Evaluate(match, Keyed{"p1": "Le", "p2": "la", "p3": "les"}).Correct {
		t.Error("matching is case-sensitive")
	}
}

func TestFreeWriting(t *testing.T) {
	v := NewEvaluator().Evaluate(free, Text("Je vais bien aujourd'hui"))
	if v.Gradable || v.Correct {
		t.Fatalf("free writing must not be auto-graded: %+v", v)
	}
	if v.WordCount != 4 || !v.WithinRange || !v.Answered {
		t.Fatalf("verdict = %+v, want 4 words within range", v)
	}
	blankText := NewEvaluator().Evaluate(free, Text("   \n\t"))
	if blankText.Answered || blankText.WordCount != 0 {
		t.Fatalf("whitespace-only text: %+v", blankText)
	}
}

func TestUnansweredAndMismatch(t *testing.T) {
	ev := NewEvaluator()
	for _, q := range []bank.Question{mcq, blank, textIn, match, free} {
		v := ev.Evaluate(q, nil)
		if v.Answered || v.Correct || v.Err != nil {
			t.Errorf("%s: nil answer verdict %+v", q.QuestionID(), v)
		}
	}
	// An empty key must never grade as correct, even against empty expectations.
	openBlank := &bank.FillInBlank{ID: "ob", Text: "________", Blanks: []bank.Blank{{ID: "blank1"}}}
	openPair := &bank.Matching{ID: "op", Pairs: []bank.Pair{{ID: "p1", Item: "livre"}}}
	for _, q := range []bank.Question{blank, match, openBlank, openPair} {
		if v := ev.Evaluate(q, Keyed{}); v.Answered || v.Correct {
			t.Errorf("%s: empty keyed verdict %+v", q.QuestionID(), v)
		}
	}
	v := ev.Evaluate(match, Text("le"))
	if v.Correct || !errors.Is(v.Err, ErrEvaluation) {
		t.Fatalf("text for matching: %+v", v)
	}
	v = ev.Evaluate(textIn, Selection{"a"})
	if v.Correct || !errors.Is(v.Err, ErrEvaluation) {
		t.Fatalf("selection for text-input: %+v", v)
	}
}

func TestWordRange(t *testing.T) {
	cases := []struct {
		count, min, max int
		want            bool
	}{
		{4, 3, 10, true},
		{2, 3, 10, false},
		{11, 3, 10, false},
		{11, 3, 0, true},
		{0, 0, 0, true},
	}
	for _, tc := range cases {
		if got := WithinWordRange(tc.count, tc.min, tc.max); got != tc.want {
			t.Errorf("WithinWordRange(%d,%d,%d) = %v", tc.count, tc.min, tc.max, got)
		}
	}
}

func TestDecodeAnswer(t *testing.T) {
	cases := []struct {
		raw  string
		want Answer
	}{
		{`"il est midi"`, Text("il est midi")},
		{`["a","b"]`, Selection{"a", "b"}},
		{`{"blank1":"un"}`, Keyed{"blank1": "un"}},
		{`null`, nil},
		{``, nil},
	}
	for _, tc := range cases {
		got, err := DecodeAnswer(json.RawMessage(tc.raw))
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if b1, b2 := mustJSON(t, got), mustJSON(t, tc.want); b1 != b2 {
			t.Errorf("%s: got %s want %s", tc.raw, b1, b2)
		}
	}
	for _, raw := range []string{`42`, `[1,2]`, `{"a":1}`, `true`} {
		if _, err := DecodeAnswer(json.RawMessage(raw)); !errors.Is(err, ErrAnswerShape) {
			t.Errorf("%s: err = %v, want ErrAnswerShape", raw, err)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	if d := levenshtein("heure", "heures"); d != 1 {
		t.Errorf("heure/heures = %d", d)
	}
	if d := levenshtein("", "abc"); d != 3 {
		t.Errorf("empty/abc = %d", d)
	}
	if d := levenshtein("déjà", "deja"); d != 2 {
		t.Errorf("déjà/deja = %d", d)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
