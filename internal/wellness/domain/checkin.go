package domain

import "time"

type CheckIn struct {
	ID         string    `json:"id"`
	Mood       string    `json:"mood"`
	Energy     string    `json:"energy"`
	Objectives []string  `json:"objectives"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}
