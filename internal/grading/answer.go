package grading

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Answer is a learner's response to one question. A nil Answer means the
// question was left unanswered.
type Answer interface {
	isAnswer()
}

// Selection is a set of option ids.
type Selection []string

// Keyed maps blank ids to text, or pair ids to the chosen match.
type Keyed map[string]string

// Text is free text for text-input and free-writing questions.
type Text string

func (Selection) isAnswer() {}
func (Keyed) isAnswer()     {}
func (Text) isAnswer()      {}

var ErrAnswerShape = errors.New("answer must be a string, a list of strings, an object of strings or null")

// DecodeAnswer maps a JSON value onto the Answer union by shape alone.
func DecodeAnswer(raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnswerShape, err)
		}
		return Text(s), nil
	case '[':
		var sel []string
		if err := json.Unmarshal(raw, &sel); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnswerShape, err)
		}
		return Selection(sel), nil
	case '{':
		var k map[string]string
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAnswerShape, err)
		}
		return Keyed(k), nil
	}
	return nil, ErrAnswerShape
}

// answered reports whether a carries any non-blank content.
func answered(a Answer) bool {
	switch v := a.(type) {
	case Selection:
		return len(v) > 0
	case Keyed:
		for _, s := range v {
			if fold(s) != "" {
				return true
			}
		}
		return false
	case Text:
		return fold(string(v)) != ""
	}
	return false
}
