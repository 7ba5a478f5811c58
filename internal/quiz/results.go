package quiz

import (
	"math"
	"strings"
	"time"

	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/grading"
)

const (
	noExplanation  = "No explanation available"
	noSampleAnswer = "No sample answer provided"
)

// QuestionResult is the per-question line of a results page.
type QuestionResult struct {
	Index         int             `json:"index"`
	QuestionID    string          `json:"question_id"`
	Type          bank.Kind       `json:"type"`
	Text          string          `json:"text"`
	UserAnswer    grading.Answer  `json:"user_answer"`
	CorrectAnswer any             `json:"correct_answer"`
	Verdict       grading.Verdict `json:"verdict"`
	Explanation   string          `json:"explanation"`
}

// Results is the scored outcome of one session.
type Results struct {
	SessionID     string           `json:"session_id,omitempty"`
	CategoryID    string           `json:"category_id"`
	Title         string           `json:"title"`
	Score         int              `json:"score"`
	CorrectCount  int              `json:"correct_count"`
	TotalCount    int              `json:"total_count"`
	PendingReview int              `json:"pending_review"`
	// Scored is false when nothing was gradable, e.g. a free-writing quiz;
	// Score is then 0 and should not be shown as a percentage.
	Scored        bool             `json:"scored"`
	StartedAt     time.Time        `json:"started_at"`
	CompletedAt   time.Time        `json:"completed_at"`
	PerQuestion   []QuestionResult `json:"questions"`
}

// SessionResult is the history record handed to the learner collaborator.
type SessionResult struct {
	CategoryID   string    `json:"categoryId"`
	SessionID    string    `json:"quizId,omitempty"`
	Score        int       `json:"score"`
	CorrectCount int       `json:"correctAnswers"`
	TotalCount   int       `json:"totalQuestions"`
	Timestamp    time.Time `json:"timestamp"`
}

// Ratio is CorrectCount/TotalCount, or 0 with nothing to grade.
func (r SessionResult) Ratio() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalCount)
}

func (r Results) SessionResult(ts time.Time) SessionResult {
	return SessionResult{
		CategoryID:   r.CategoryID,
		SessionID:    r.SessionID,
		Score:        r.Score,
		CorrectCount: r.CorrectCount,
		TotalCount:   r.TotalCount,
		Timestamp:    ts,
	}
}

// Score evaluates every question once and aggregates. Free-writing questions
// are counted as pending review and left out of TotalCount. answers may be
// shorter than the question list; missing entries are unanswered.
func Score(c bank.Category, answers []grading.Answer, ev *grading.Evaluator) Results {
	res := Results{CategoryID: c.ID, Title: c.Title, PerQuestion: make([]QuestionResult, 0, len(c.Questions))}
	for i, q := range c.Questions {
		var a grading.Answer
		if i < len(answers) {
			a = answers[i]
		}
		v := ev.Evaluate(q, a)
		if v.Gradable {
			res.TotalCount++
			if v.Correct {
				res.CorrectCount++
			}
		} else {
			res.PendingReview++
		}
		expl := bank.Explanation(q)
		if expl == "" {
			expl = noExplanation
		}
		res.PerQuestion = append(res.PerQuestion, QuestionResult{
			Index:         i,
			QuestionID:    q.QuestionID(),
			Type:          q.Kind(),
			Text:          q.Prompt(),
			UserAnswer:    a,
			CorrectAnswer: CorrectAnswer(q),
			Verdict:       v,
			Explanation:   expl,
		})
	}
	res.Score = Percent(res.CorrectCount, res.TotalCount)
	res.Scored = res.TotalCount > 0
	return res
}

// Percent is round(100*correct/total), halves away from zero, 0 when total
// is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// CorrectAnswer returns the display form of q's expected answer.
func CorrectAnswer(q bank.Question) any {
	switch v := q.(type) {
	case *bank.MultipleChoice:
		want := map[string]struct{}{}
		for _, id := range v.CorrectAnswers {
			want[id] = struct{}{}
		}
		var texts []string
		for _, o := range v.Options {
			if _, ok := want[o.ID]; ok {
				texts = append(texts, o.Text)
			}
		}
		return strings.Join(texts, ", ")
	case *bank.FillInBlank:
		out := make(map[string]string, len(v.Blanks))
		for _, b := range v.Blanks {
			out[b.ID] = b.Answer
		}
		return out
	case *bank.TextInput:
		return v.CorrectAnswer
	case *bank.Matching:
		out := make(map[string]string, len(v.Pairs))
		for _, p := range v.Pairs {
			out[p.Item] = p.Match
		}
		return out
	case *bank.FreeWriting:
		if v.SampleAnswer == "" {
			return noSampleAnswer
		}
		return v.SampleAnswer
	}
	return nil
}
