package models

import "time"

// User represents a user in the system.
type User struct {
	ID           string    `json:"id" firestore:"-"` // Firebase Auth UID, also the document ID
	Email        string    `json:"email,omitempty" firestore:"email,omitempty"`
	DisplayName  string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL     string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	TokenBalance int       `json:"tokenBalance" firestore:"tokenBalance"` // never negative; mutated only inside transactions
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}
