package domain

import "time"

// Lead is a qualified sales prospect captured at the end of a call. Unknown
// fields stay empty.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	UseCase   string    `json:"use_case"`
	TeamSize  string    `json:"team_size"`
	Timeline  string    `json:"timeline"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
