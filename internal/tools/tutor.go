package tools

import (
	"context"
	"fmt"

	tutordomain "github.com/dwikikusuma/shoping-voice/internal/tutor/domain"
)

type setModeArgs struct {
	Mode      string `json:"mode"`
	ConceptID string `json:"concept_id"`
}

func (r *Registry) registerTutor() {
	r.add(&Tool{
		Name:        "set_learning_mode",
		Description: "Switch tutoring mode. Omit concept_id to keep the current concept.",
		Params: []Param{
			{Name: "mode", Type: TypeString, Description: "Tutoring mode.", Required: true,
				Enum: []string{string(tutordomain.ModeLearn), string(tutordomain.ModeQuiz), string(tutordomain.ModeTeachBack)}},
			{Name: "concept_id", Type: TypeString, Description: "Concept to work on."},
		},
		session: true,
		handle:  r.setLearningMode,
	})

	r.add(&Tool{
		Name:        "describe_concept",
		Description: "Get what to say for the current mode and concept.",
		session:     true,
		handle:      r.describeConcept,
	})

	r.add(&Tool{
		Name:        "list_concepts",
		Description: "List the concepts available for tutoring.",
		handle:      r.listConcepts,
	})
}

func (r *Registry) setLearningMode(ctx context.Context, c *call) (Result, error) {
	args, err := decode[setModeArgs](c.args)
	if err != nil {
		return Result{}, err
	}

	mode, err := tutordomain.ParseMode(args.Mode)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %q", err, args.Mode)
	}

	next, err := r.deps.Tutor.Switch(ctx, c.sess.Tutor, mode, args.ConceptID)
	if err != nil {
		return Result{}, err
	}
	c.sess.Tutor = next

	d, err := r.deps.Tutor.Describe(next)
	if err != nil {
		return Result{}, err
	}
	return ok(fmt.Sprintf("Switched to %s mode on %s.", next.Mode, d.Concept.Title), d), nil
}

func (r *Registry) describeConcept(ctx context.Context, c *call) (Result, error) {
	d, err := r.deps.Tutor.Describe(c.sess.Tutor)
	if err != nil {
		return Result{}, err
	}
	return ok(d.Prompt, d), nil
}

func (r *Registry) listConcepts(ctx context.Context, c *call) (Result, error) {
	concepts := r.deps.Tutor.Concepts()
	return ok(fmt.Sprintf("There are %d concepts.", len(concepts)), map[string]any{"concepts": concepts}), nil
}
