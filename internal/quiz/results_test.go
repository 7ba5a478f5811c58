package quiz

import (
	"testing"

	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/grading"
)

func TestPercent(t *testing.T) {
	cases := []struct{ c, t, want int }{
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds away from zero
		{0, 0, 0},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := Percent(tc.c, tc.t); got != tc.want {
			t.Errorf("Percent(%d,%d) = %d, want %d", tc.c, tc.t, got, tc.want)
		}
	}
}

func TestFreeWritingIsPendingReview(t *testing.T) {
	c := bank.Category{
		ID: "fw",
		Questions: []bank.Question{
			&bank.TextInput{ID: "t", CorrectAnswer: "oui"},
			&bank.FreeWriting{ID: "f", MinWords: 2},
		},
	}
	res := Score(c, []grading.Answer{grading.Text("Oui"), grading.Text("un deux trois")}, grading.NewEvaluator())
	if res.TotalCount != 1 || res.CorrectCount != 1 || res.PendingReview != 1 || res.Score != 100 || !res.Scored {
		t.Fatalf("results = %+v", res)
	}
	if res.PerQuestion[1].CorrectAnswer != noSampleAnswer {
		t.Fatalf("free-writing display answer = %v", res.PerQuestion[1].CorrectAnswer)
	}
	if v := res.PerQuestion[1].Verdict; v.WordCount != 3 || !v.WithinRange {
		t.Fatalf("free-writing verdict = %+v", v)
	}

	onlyFree := bank.Category{ID: "x", Questions: []bank.Question{&bank.FreeWriting{ID: "f"}}}
	if r := Score(onlyFree, nil, grading.NewEvaluator()); r.Score != 0 || r.TotalCount != 0 || r.Scored || r.PendingReview != 1 {
		t.Fatalf("free-only results = %+v", r)
	}
}

func TestCorrectAnswerForms(t *testing.T) {
	mc := &bank.MultipleChoice{
		Options:        []bank.Option{{ID: "a", Text: "trois heures et quart"}, {ID: "b", Text: "x"}, {ID: "c", Text: "trois heures quinze"}},
		CorrectAnswers: []string{"c", "a"},
	}
	if got := CorrectAnswer(mc); got != "trois heures et quart, trois heures quinze" {
		t.Errorf("multiple-choice = %v", got)
	}
	m := &bank.Matching{Pairs: []bank.Pair{{ID: "p1", Item: "livre", Match: "le"}}}
	if got := CorrectAnswer(m).(map[string]string); got["livre"] != "le" {
		t.Errorf("matching = %v", got)
	}
	fb := &bank.FillInBlank{Blanks: []bank.Blank{{ID: "blank1", Answer: "un"}}}
	if got := CorrectAnswer(fb).(map[string]string); got["blank1"] != "un" {
		t.Errorf("fill-in-blank = %v", got)
	}
}
