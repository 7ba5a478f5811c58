package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mind-engage/grammaire/internal/bank"
	"github.com/mind-engage/grammaire/internal/learner"
)

const DefaultQuestionCount = 5

type categoryMeta struct {
	title string
	// quiz is the topic line of the generation prompt, focus the tutor's.
	quiz  string
	focus string
	icon  string
}

var categories = map[string]categoryMeta{
	"telling-time": {
		title: "Telling Time",
		quiz:  `telling time in French (using hours, minutes, expressions like "quarter to", "half past", etc.)`,
		focus: "expressing time in French including hours, minutes, and time-related expressions",
		icon:  "🕒",
	},
	"writing-practice": {
		title: "Writing Practice",
		quiz:  "French writing practice focusing on sentence structure and vocabulary",
		focus: "French sentence structure, verb placement, and proper written expression",
		icon:  "✍️",
	},
	"matching-articles": {
		title: "Article Matching",
		quiz:  "matching correct articles (le, la, les, un, une, des) with French nouns",
		focus: "correctly using French articles (le, la, les, un, une, des) with nouns",
		icon:  "🔤",
	},
	"subject-verb": {
		title: "Subject-Verb Agreement",
		quiz:  "French subject-verb agreement and conjugation",
		focus: "French verb conjugation and ensuring subject-verb agreement",
		icon:  "📝",
	},
	"free-writing": {
		title: "Free Writing",
		quiz:  "French writing prompts for paragraph composition",
		focus: "composing coherent paragraphs and texts in French with proper grammar",
		icon:  "📄",
	},
}

const generalTopic = "general French grammar concepts"

// CategoryTitle is the display title used in generated quizzes and the
// tutor prompt. Unknown ids are title-cased on '-'.
func CategoryTitle(categoryID string) string {
	if m, ok := categories[categoryID]; ok {
		return m.title
	}
	words := strings.Split(categoryID, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func categoryIcon(categoryID string) string {
	if m, ok := categories[categoryID]; ok {
		return m.icon
	}
	return "🤖"
}

func orNotSpecified(list []string) string {
	if len(list) == 0 {
		return "Not specified"
	}
	return strings.Join(list, ", ")
}

const quizFormat = `{
    "questions": [
        {
            "id": "generated-1",
            "type": "multiple-choice",
            "text": "What is the correct way to say...",
            "options": [
                {"id": "a", "text": "Option A"},
                {"id": "b", "text": "Option B"},
                {"id": "c", "text": "Option C"},
                {"id": "d", "text": "Option D"}
            ],
            "correctAnswers": ["c"],
            "explanation": "Explanation of the correct answer..."
        },
        {
            "id": "generated-2",
            "type": "fill-in-blank",
            "text": "Complete the sentence: J'ai ________ chien et ________ chat.",
            "blanks": [
                {"id": "blank1", "answer": "un"},
                {"id": "blank2", "answer": "un"}
            ],
            "explanation": "The correct answers are 'un' and 'un' because..."
        }
    ]
}`

func quizPrompt(categoryID string, count int, p learner.Profile) string {
	topic := generalTopic
	if m, ok := categories[categoryID]; ok {
		topic = m.quiz
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a French grammar quiz with %d questions focused on %s.\n\n", count, topic)
	fmt.Fprintf(&b, "The student's proficiency level is: %s\n", p.ProficiencyLevel)
	fmt.Fprintf(&b, "Strengths: %s\n", orNotSpecified(p.Strengths))
	fmt.Fprintf(&b, "Areas to improve: %s\n\n", orNotSpecified(p.Weaknesses))
	b.WriteString("For each question, please follow this exact JSON format:\n")
	b.WriteString(quizFormat)
	b.WriteString("\n\nImportant:\n")
	b.WriteString("- Question types should be one of: multiple-choice, fill-in-blank, text-input, or matching\n")
	b.WriteString("- For multiple-choice, you can have single or multiple correct answers\n")
	fmt.Fprintf(&b, "- For fill-in-blank, make sure to use exactly %q (8 underscores) as the placeholder in the text\n", bank.BlankMarker)
	b.WriteString("- Ensure all explanations provide educational value\n")
	b.WriteString("- Make sure the JSON is valid and properly formatted\n\n")
	b.WriteString("Only return the JSON, no other text.")
	return b.String()
}

// Generator asks a Model for quizzes and answer analyses.
type Generator struct {
	model Model
}

func NewGenerator(m Model) *Generator { return &Generator{model: m} }

// GenerateQuiz returns a validated category of count questions (5 when
// count <= 0) tailored to p. It is not added to any catalog.
func (g *Generator) GenerateQuiz(ctx context.Context, categoryID string, count int, p learner.Profile) (bank.Category, error) {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	text, err := g.model.Generate(ctx, UserPrompt(quizPrompt(categoryID, count, p)))
	if err != nil {
		return bank.Category{}, err
	}
	return ParseQuiz(categoryID, text)
}

// ParseQuiz converts a model reply into a category. The reply may wrap the
// JSON object in prose or code fences.
func ParseQuiz(categoryID, reply string) (bank.Category, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return bank.Category{}, fmt.Errorf("%w: no JSON object in reply", ErrBadGeneration)
	}
	var doc struct {
		Questions []bank.Record `json:"questions"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &doc); err != nil {
		return bank.Category{}, fmt.Errorf("%w: %v", ErrBadGeneration, err)
	}
	if len(doc.Questions) == 0 {
		return bank.Category{}, fmt.Errorf("%w: reply has no questions", ErrBadGeneration)
	}
	for i := range doc.Questions {
		if strings.TrimSpace(doc.Questions[i].ID) == "" {
			doc.Questions[i].ID = fmt.Sprintf("generated-%d", i+1)
		}
	}

	title := CategoryTitle(categoryID)
	cr := bank.CategoryRecord{
		ID:          "ai-generated-" + categoryID,
		Title:       "AI Generated " + title + " Quiz",
		Description: "A personalized quiz focused on " + strings.ToLower(title) + ", tailored to your learning needs.",
		Icon:        categoryIcon(categoryID),
		Questions:   doc.Questions,
	}
	c, err := cr.Category()
	if err != nil {
		return bank.Category{}, fmt.Errorf("%w: %w", ErrBadGeneration, err)
	}
	if err := bank.Validate(c); err != nil {
		return bank.Category{}, fmt.Errorf("%w: %w", ErrBadGeneration, err)
	}
	return c, nil
}

// AnalyzeAnswer asks for feedback on one answer. attempts is the number
// of quizzes the learner has completed so far.
func (g *Generator) AnalyzeAnswer(ctx context.Context, questionText, userAnswer, correctAnswer string, attempts int) (string, error) {
	prompt := fmt.Sprintf(`Question: %s
Student's answer: %s
Correct answer: %s
Number of previous attempts: %d

Please analyze the student's answer and provide helpful guidance. Focus on:
1. What they did correctly
2. Where they made mistakes
3. Why the correct answer is what it is
4. A helpful tip to remember this grammar rule
`, questionText, userAnswer, correctAnswer, attempts)
	return g.model.Generate(ctx, UserPrompt(prompt))
}
