package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/grading"
	"github.com/mind-engage/grammaire/internal/quiz"
)

func TestRenderWritesPDF(t *testing.T) {
	c := bank.Category{
		ID:    "telling-time",
		Title: "Uhrzeit auf Französisch",
		Questions: []bank.Question{
			&bank.TextInput{ID: "t1", Text: "Schreibe: Es ist Mittag.", CorrectAnswer: "Il est midi.", Explanation: "« Midi » bedeutet Mittag."},
			&bank.FillInBlank{ID: "t2", Text: "Il est une ________.", Blanks: []bank.Blank{{ID: "blank1", Answer: "heure"}}},
			&bank.FreeWriting{ID: "t3", Text: "Décris ta journée.", MinWords: 2},
		},
	}
	res := quiz.Score(c, []grading.Answer{
		grading.Text("il est midi."),
		grading.Keyed{"blank1": "heures"},
		grading.Text("Je me réveille tôt."),
	}, grading.NewEvaluator())

	var buf bytes.Buffer
	if err := Render(&buf, res, time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestSummaryLine(t *testing.T) {
	free := bank.Category{ID: "free-writing", Questions: []bank.Question{&bank.FreeWriting{ID: "f", Text: "Écris."}}}
	res := quiz.Score(free, []grading.Answer{grading.Text("Bonjour à tous")}, grading.NewEvaluator())
	if got := summaryLine(res); got != "Not scored: 1 answer(s) pending review" {
		t.Fatalf("free-writing summary = %q", got)
	}
	mixed := quiz.Results{Scored: true, CorrectCount: 1, TotalCount: 3, Score: 33, PendingReview: 1}
	if got := summaryLine(mixed); got != "1 / 3 correct (33%)\n1 answer(s) pending review" {
		t.Fatalf("mixed summary = %q", got)
	}
}

func TestFormatAnswer(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, noAnswer},
		{grading.Text("  "), noAnswer},
		{grading.Selection{"a", "c"}, "a, c"},
		{grading.Keyed{"blank2": "trente", "blank1": "douze"}, "blank1: douze; blank2: trente"},
		{map[string]string{"livre": "le"}, "livre: le"},
		{"Il est midi.", "Il est midi."},
	}
	for _, tc := range cases {
		if got := FormatAnswer(tc.in); got != tc.want {
			t.Errorf("FormatAnswer(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
