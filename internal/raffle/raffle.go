package raffle

import (
	"fmt"
	"time"
)

// MessageRef points at the live announcement message the engine edits in place.
// It stays stable for the raffle's lifetime.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// IsZero reports whether the reference was never obtained (announcement post failed).
func (m MessageRef) IsZero() bool {
	return m == MessageRef{}
}

// Raffle is one timed drawing for a single parking-spot announcement.
// All mutable fields are guarded by the owning Store's lock.
type Raffle struct {
	ID           string
	ChatID       int64
	PlaceNumber  int
	Participants []int64 // join order, no duplicates
	Announcement MessageRef
	CreatedAt    time.Time
	WinnerID     int64 // 0 until a winner is drawn (Telegram user IDs are positive)
	Finished     bool

	finalizeTimer *time.Timer
	refreshTimer  *time.Timer
}

// DeriveID builds the raffle id from the originating chat and message.
// Telegram message IDs are unique per chat, so the pair is unique per
// announcement for the lifetime of the process.
func DeriveID(chatID int64, messageID int) string {
	return fmt.Sprintf("%d_%d", chatID, messageID)
}

func (r *Raffle) hasParticipant(userID int64) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

func (r *Raffle) stopTimers() {
	if r.finalizeTimer != nil {
		r.finalizeTimer.Stop()
	}
	if r.refreshTimer != nil {
		r.refreshTimer.Stop()
	}
}

// sameDay reports whether two instants fall on the same calendar date
// in the local time zone.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
