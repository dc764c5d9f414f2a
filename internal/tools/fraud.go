package tools

import (
	"context"
	"fmt"

	frauddomain "github.com/dwikikusuma/shoping-voice/internal/fraud/domain"
)

type findCaseArgs struct {
	UserName string `json:"user_name"`
}

type verifyArgs struct {
	CaseID int64  `json:"case_id"`
	Answer string `json:"answer"`
}

type resolveCaseArgs struct {
	CaseID  int64  `json:"case_id"`
	Outcome string `json:"outcome"`
	Note    string `json:"note"`
}

func (r *Registry) registerFraud() {
	r.add(&Tool{
		Name:        "find_fraud_case",
		Description: "Find the pending suspicious transaction for a customer.",
		Params: []Param{
			{Name: "user_name", Type: TypeString, Description: "Customer's name as they said it.", Required: true},
		},
		handle: r.findFraudCase,
	})

	r.add(&Tool{
		Name:        "verify_fraud_identity",
		Description: "Check the customer's answer to the security question. A wrong answer ends the review.",
		Params: []Param{
			{Name: "case_id", Type: TypeInteger, Description: "Case id from find_fraud_case.", Required: true},
			{Name: "answer", Type: TypeString, Description: "The customer's answer.", Required: true},
		},
		handle: r.verifyFraudIdentity,
	})

	r.add(&Tool{
		Name:        "resolve_fraud_case",
		Description: "Record whether the customer made the transaction.",
		Params: []Param{
			{Name: "case_id", Type: TypeInteger, Description: "Case id from find_fraud_case.", Required: true},
			{Name: "outcome", Type: TypeString, Description: "confirmed_safe if they made it, confirmed_fraud if not.", Required: true,
				Enum: []string{string(frauddomain.StatusConfirmedSafe), string(frauddomain.StatusConfirmedFraud)}},
			{Name: "note", Type: TypeString, Description: "Short note for the case file."},
		},
		handle: r.resolveFraudCase,
	})
}

func (r *Registry) findFraudCase(ctx context.Context, c *call) (Result, error) {
	args, err := decode[findCaseArgs](c.args)
	if err != nil {
		return Result{}, err
	}

	fc, err := r.deps.Fraud.FindPending(ctx, args.UserName)
	if err != nil {
		return Result{}, err
	}

	msg := fmt.Sprintf("Found a %d %s transaction at %s on the card ending %s.", fc.Amount, fc.Currency, fc.Merchant, fc.CardEnding)
	return ok(msg, fc), nil
}

func (r *Registry) verifyFraudIdentity(ctx context.Context, c *call) (Result, error) {
	args, err := decode[verifyArgs](c.args)
	if err != nil {
		return Result{}, err
	}

	verified, err := r.deps.Fraud.Verify(ctx, args.CaseID, args.Answer)
	if err != nil {
		return Result{}, err
	}
	if !verified {
		return ok("Verification failed. The case is closed for manual follow-up.", map[string]any{"verified": false}), nil
	}
	return ok("Identity verified.", map[string]any{"verified": true}), nil
}

func (r *Registry) resolveFraudCase(ctx context.Context, c *call) (Result, error) {
	args, err := decode[resolveCaseArgs](c.args)
	if err != nil {
		return Result{}, err
	}

	fc, err := r.deps.Fraud.Resolve(ctx, args.CaseID, frauddomain.Status(args.Outcome), args.Note)
	if err != nil {
		return Result{}, err
	}
	return ok(fmt.Sprintf("Case %d marked %s.", fc.ID, fc.Status), fc), nil
}
