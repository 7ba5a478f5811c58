package learner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mind-engage/grammaire/internal/quiz"
)

var (
	ErrUnknownLevel = errors.New("unknown proficiency level")
	ErrNoProfile    = errors.New("no learner profile stored")
)

type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case Beginner, Intermediate, Advanced:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Profile is what the AI collaborator knows about the learner.
type Profile struct {
	ProficiencyLevel Level                `json:"proficiency_level"`
	Strengths        []string             `json:"strengths"`
	Weaknesses       []string             `json:"weaknesses"`
	History          []quiz.SessionResult `json:"history"`
}

// Thresholds on the average correct ratio per category, over at least
// minResults results.
const (
	strengthAvg = 0.75
	weaknessAvg = 0.6
	minResults  = 2
)

// Analyze derives strengths and weaknesses from history. Results with
// nothing to grade are ignored. Both lists are sorted by category id.
func Analyze(history []quiz.SessionResult) (strengths, weaknesses []string) {
	type agg struct {
		sum float64
		n   int
	}
	per := map[string]*agg{}
	for _, r := range history {
		if r.TotalCount <= 0 {
			continue
		}
		a := per[r.CategoryID]
		if a == nil {
			a = &agg{}
			per[r.CategoryID] = a
		}
		a.sum += r.Ratio()
		a.n++
	}
	for id, a := range per {
		if a.n < minResults {
			continue
		}
		avg := a.sum / float64(a.n)
		switch {
		case avg >= strengthAvg:
			strengths = append(strengths, id)
		case avg < weaknessAvg:
			weaknesses = append(weaknesses, id)
		}
	}
	sort.Strings(strengths)
	sort.Strings(weaknesses)
	return strengths, weaknesses
}
