package db

import "errors"

// ErrNotFound is returned when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// ErrInsufficientBalance is returned by UserRepository.AdjustBalance when a
// debit would take the token balance below zero. The balance is left
// untouched in that case.
var ErrInsufficientBalance = errors.New("insufficient token balance")
