package domain

import "time"

type Status string

const (
	StatusPendingReview      Status = "pending_review"
	StatusConfirmedSafe      Status = "confirmed_safe"
	StatusConfirmedFraud     Status = "confirmed_fraud"
	StatusVerificationFailed Status = "verification_failed"
)

// Outcome reports whether s is a status a review may end in.
func (s Status) Outcome() bool {
	return s == StatusConfirmedSafe || s == StatusConfirmedFraud
}

// Case is a suspicious transaction awaiting customer confirmation.
// SecurityAnswer is never serialized.
type Case struct {
	ID                 int64     `json:"id"`
	UserName           string    `json:"user_name"`
	SecurityIdentifier string    `json:"security_identifier"`
	CardEnding         string    `json:"card_ending"`
	Merchant           string    `json:"merchant"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	Location           string    `json:"location"`
	TransactionTime    time.Time `json:"transaction_time"`
	SecurityQuestion   string    `json:"security_question"`
	SecurityAnswer     string    `json:"-"`
	Status             Status    `json:"status"`
	Note               string    `json:"note"`
	UpdatedAt          time.Time `json:"updated_at"`
}
