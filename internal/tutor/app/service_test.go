package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/shoping-voice/internal/tutor/domain"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var concepts = []domain.Concept{
	{ID: "variables", Title: "Variables", Summary: "A variable names a value.", SampleQuestion: "What is a variable?"},
	{ID: "loops", Title: "Loops", Summary: "A loop repeats work.", SampleQuestion: "When does a for loop stop?"},
}

type fakeSource struct {
	items []domain.Concept
	err   error
}

func (f fakeSource) Load(ctx context.Context) ([]domain.Concept, error) { return f.items, f.err }

func TestSwitchValidatesConcept(t *testing.T) {
	svc := NewService(concepts)
	ctx := context.Background()

	_, err := svc.Switch(ctx, domain.State{}, domain.ModeLearn, "recursion")
	assert.ErrorIs(t, err, ErrConceptNotFound)

	s, err := svc.Switch(ctx, domain.State{}, domain.ModeLearn, "LOOPS")
	require.NoError(t, err)
	assert.Equal(t, "loops", s.ConceptID)
}

func TestDescribe(t *testing.T) {
	svc := NewService(concepts)

	d, err := svc.Describe(domain.State{Mode: domain.ModeLearn, ConceptID: "variables"})
	require.NoError(t, err)
	assert.Equal(t, "A variable names a value.", d.Prompt)

	d, err = svc.Describe(domain.State{Mode: domain.ModeQuiz, ConceptID: "variables"})
	require.NoError(t, err)
	assert.Equal(t, "What is a variable?", d.Prompt)

	d, err = svc.Describe(domain.State{Mode: domain.ModeTeachBack, ConceptID: "loops"})
	require.NoError(t, err)
	assert.Contains(t, d.Prompt, "Loops")

	_, err = svc.Describe(domain.State{})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestLoadFailsSoft(t *testing.T) {
	svc := Load(context.Background(), fakeSource{err: errors.New("boom")}, logger.Discard())
	assert.Empty(t, svc.Concepts())

	svc = Load(context.Background(), fakeSource{items: concepts}, logger.Discard())
	assert.Len(t, svc.Concepts(), 2)
}
