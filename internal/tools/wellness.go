package tools

import (
	"context"
	"fmt"

	wellnessdomain "github.com/dwikikusuma/shoping-voice/internal/wellness/domain"
)

type recordCheckInArgs struct {
	Mood       string   `json:"mood"`
	Energy     string   `json:"energy"`
	Objectives []string `json:"objectives"`
	Summary    string   `json:"summary"`
}

func (r *Registry) registerWellness() {
	r.add(&Tool{
		Name:        "record_checkin",
		Description: "Save today's wellness check-in.",
		Params: []Param{
			{Name: "mood", Type: TypeString, Description: "How the user feels, in their words.", Required: true},
			{Name: "energy", Type: TypeString, Description: "Energy level, in their words."},
			{Name: "objectives", Type: TypeArray, Items: TypeString, Description: "One to three things they want to do today."},
			{Name: "summary", Type: TypeString, Description: "One sentence recap of the check-in."},
		},
		handle: r.recordCheckIn,
	})

	r.add(&Tool{
		Name:        "last_checkin",
		Description: "Fetch the previous check-in so today's conversation can refer back to it.",
		handle:      r.lastCheckIn,
	})
}

func (r *Registry) recordCheckIn(ctx context.Context, c *call) (Result, error) {
	args, err := decode[recordCheckInArgs](c.args)
	if err != nil {
		return Result{}, err
	}

	saved, err := r.deps.Wellness.Record(ctx, wellnessdomain.CheckIn{
		Mood:       args.Mood,
		Energy:     args.Energy,
		Objectives: args.Objectives,
		Summary:    args.Summary,
	})
	if err != nil {
		return Result{}, err
	}
	return ok("Check-in saved.", saved), nil
}

func (r *Registry) lastCheckIn(ctx context.Context, c *call) (Result, error) {
	last, found := r.deps.Wellness.Last(ctx)
	if !found {
		return ok("This is the first check-in.", map[string]any{"found": false}), nil
	}

	msg := fmt.Sprintf("Last time you felt %s.", last.Mood)
	if last.Energy != "" {
		msg = fmt.Sprintf("Last time you felt %s with %s energy.", last.Mood, last.Energy)
	}
	return ok(msg, map[string]any{"found": true, "checkin": last}), nil
}
