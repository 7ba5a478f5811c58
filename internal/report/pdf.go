package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mind-engage/grammaire/internal/grading"
	"github.com/mind-engage/grammaire/internal/quiz"
)

const noAnswer = "(no answer)"

// Render writes the results of one session as an A4 PDF. Core fonts are
// used with the cp1252 translator, which covers French and German accents.
func Render(w io.Writer, r quiz.Results, generatedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Quiz results: "+r.Title), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, tr("Quiz results"), "", "L", false)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 7, tr(r.Title), "", "L", false)
	pdf.Ln(2)

	summary := summaryLine(r) + "\nGenerated " + generatedAt.Format("2006-01-02 15:04")
	pdf.MultiCell(0, 7, tr(summary), "", "L", false)
	pdf.Ln(4)

	for _, q := range r.PerQuestion {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("Question %d: %s", q.Index+1, status(q.Verdict))), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(q.Text), "", "L", false)

		lines := []string{"Your answer: " + FormatAnswer(q.UserAnswer)}
		if !q.Verdict.Correct {
			lines = append(lines, "Correct answer: "+FormatAnswer(q.CorrectAnswer))
		}
		if q.Verdict.WordCount > 0 {
			lines = append(lines, fmt.Sprintf("Words: %d", q.Verdict.WordCount))
		}
		lines = append(lines, q.Explanation)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(strings.Join(lines, "\n")), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func status(v grading.Verdict) string {
	switch {
	case !v.Gradable:
		return "pending review"
	case v.Correct:
		return "correct"
	case !v.Answered:
		return "unanswered"
	}
	return "incorrect"
}

// FormatAnswer renders an answer or a correct-answer display value as one
// line of text. Map entries are sorted by key.
func FormatAnswer(v any) string {
	switch t := v.(type) {
	case nil:
		return noAnswer
	case grading.Text:
		return nonEmpty(string(t))
	case string:
		return nonEmpty(t)
	case grading.Selection:
		return nonEmpty(strings.Join(t, ", "))
	case []string:
		return nonEmpty(strings.Join(t, ", "))
	case grading.Keyed:
		return joinMap(t)
	case map[string]string:
		return joinMap(t)
	}
	return fmt.Sprint(v)
}

func nonEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return noAnswer
	}
	return s
}

func joinMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+m[k])
	}
	return nonEmpty(strings.Join(parts, "; "))
}

func summaryLine(r quiz.Results) string {
	if !r.Scored {
		return fmt.Sprintf("Not scored: %d answer(s) pending review", r.PendingReview)
	}
	s := fmt.Sprintf("%d / %d correct (%d%%)", r.CorrectCount, r.TotalCount, r.Score)
	if r.PendingReview > 0 {
		s += fmt.Sprintf("\n%d answer(s) pending review", r.PendingReview)
	}
	return s
}
