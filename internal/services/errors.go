package services

import (
	"errors"
)

// Sentinel errors used by handlers to map failures onto HTTP status codes
var (
	// ErrInvalidInput marks validation failures (missing fields, bad amounts)
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks lookups of unknown users, bins or drops
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks failed credential or token checks
	ErrUnauthorized = errors.New("unauthorized")

	// ErrWalletNotConnected marks an approval attempt for a user who has not
	// linked a Cardano address
	ErrWalletNotConnected = errors.New("user has not connected a wallet")

	// ErrInsufficientTreasury marks a payout larger than the pooled balance
	ErrInsufficientTreasury = errors.New("insufficient treasury balance")

	// ErrAlreadyReviewed marks a review of a drop that is no longer pending
	ErrAlreadyReviewed = errors.New("drop has already been reviewed")
)
