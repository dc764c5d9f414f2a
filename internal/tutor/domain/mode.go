package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidMode = errors.New("invalid learning mode")
	ErrNoConcept   = errors.New("no concept selected")
)

type Mode string

const (
	ModeLearn     Mode = "learn"
	ModeQuiz      Mode = "quiz"
	ModeTeachBack Mode = "teach_back"
)

// ParseMode accepts the canonical names plus a few spoken variants
// ("teach back", "teach-back").
func ParseMode(s string) (Mode, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	switch Mode(norm) {
	case ModeLearn, ModeQuiz, ModeTeachBack:
		return Mode(norm), nil
	case "teachback":
		return ModeTeachBack, nil
	}
	return "", ErrInvalidMode
}

func (m Mode) Valid() bool {
	switch m {
	case ModeLearn, ModeQuiz, ModeTeachBack:
		return true
	}
	return false
}

// State is the tutoring position of one session. The zero value means no
// mode has been chosen yet.
type State struct {
	Mode      Mode   `json:"mode,omitempty"`
	ConceptID string `json:"concept_id,omitempty"`
}

// Switch moves to mode. An empty conceptID keeps the current concept; there
// must be a concept after the switch.
func Switch(cur State, mode Mode, conceptID string) (State, error) {
	if !mode.Valid() {
		return cur, ErrInvalidMode
	}

	next := State{Mode: mode, ConceptID: strings.TrimSpace(conceptID)}
	if next.ConceptID == "" {
		next.ConceptID = cur.ConceptID
	}
	if next.ConceptID == "" {
		return cur, ErrNoConcept
	}
	return next, nil
}
