package raffle

import "errors"

var (
	// ErrDuplicateID means a raffle with the same id is already tracked.
	// Given how ids are derived this indicates a bug, not a runtime condition.
	ErrDuplicateID = errors.New("raffle id already exists")

	// ErrRaffleNotFound means the raffle has already finished or was evicted.
	ErrRaffleNotFound = errors.New("raffle not found")

	// ErrAlreadyJoined means the user is already among the raffle's participants.
	ErrAlreadyJoined = errors.New("user already participates in this raffle")

	// ErrAlreadyWon means the user holds an unclaimed win in another raffle
	// and cannot enter new ones until that raffle is purged.
	ErrAlreadyWon = errors.New("user already won an active raffle")
)
