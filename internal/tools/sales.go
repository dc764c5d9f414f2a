package tools

import (
	"context"

	leaddomain "github.com/dwikikusuma/shoping-voice/internal/lead/domain"
)

type lookupFAQArgs struct {
	Query string `json:"query"`
}

type saveLeadArgs struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UseCase  string `json:"use_case"`
	TeamSize string `json:"team_size"`
	Timeline string `json:"timeline"`
	Notes    string `json:"notes"`
}

func (r *Registry) registerSales() {
	if r.deps.FAQ != nil {
		r.add(&Tool{
			Name:        "lookup_faq",
			Description: "Answer a product, company or pricing question from the FAQ. Use only what it returns.",
			Params: []Param{
				{Name: "query", Type: TypeString, Description: "The user's question.", Required: true},
			},
			handle: r.lookupFAQ,
		})
	}

	if r.deps.Leads != nil {
		r.add(&Tool{
			Name:        "save_lead",
			Description: "Save the qualified lead once, at the end of the call. Pass an empty string for unknown fields.",
			Params: []Param{
				{Name: "name", Type: TypeString, Description: "Contact name."},
				{Name: "company", Type: TypeString, Description: "Company name."},
				{Name: "email", Type: TypeString, Description: "Contact email."},
				{Name: "role", Type: TypeString, Description: "Contact's role."},
				{Name: "use_case", Type: TypeString, Description: "What they plan to use the product for."},
				{Name: "team_size", Type: TypeString, Description: "Team size."},
				{Name: "timeline", Type: TypeString, Description: "When they want to go live.", Enum: []string{"now", "soon", "later", ""}},
				{Name: "notes", Type: TypeString, Description: "Anything else worth passing on."},
			},
			handle: r.saveLead,
		})
	}
}

func (r *Registry) lookupFAQ(ctx context.Context, c *call) (Result, error) {
	args, err := decode[lookupFAQArgs](c.args)
	if err != nil {
		return Result{}, err
	}
	if err := requireArg("query", args.Query); err != nil {
		return Result{}, err
	}

	ans := r.deps.FAQ.Lookup(args.Query)
	return ok(ans.Text, ans), nil
}

func (r *Registry) saveLead(ctx context.Context, c *call) (Result, error) {
	args, err := decode[saveLeadArgs](c.args)
	if err != nil {
		return Result{}, err
	}

	lead, err := r.deps.Leads.Save(ctx, leaddomain.Lead{
		Name:     args.Name,
		Company:  args.Company,
		Email:    args.Email,
		Role:     args.Role,
		UseCase:  args.UseCase,
		TeamSize: args.TeamSize,
		Timeline: args.Timeline,
		Notes:    args.Notes,
	})
	if err != nil {
		return Result{}, err
	}
	return ok("Lead saved successfully.", map[string]any{"lead_id": lead.ID}), nil
}
