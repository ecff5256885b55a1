package raffle

import (
	"sort"
	"sync"
	"time"
)

// Store is the authoritative in-memory table of raffles plus the set of
// users currently excluded from joining because they hold an unclaimed win.
// Every mutation goes through the single mutex; timer callbacks and the
// inbound handlers access it concurrently.
type Store struct {
	mu      sync.Mutex
	raffles map[string]*Raffle
	winners map[int64]string // winner user id -> id of the raffle they won
}

func NewStore() *Store {
	return &Store{
		raffles: make(map[string]*Raffle),
		winners: make(map[int64]string),
	}
}

// Evicted describes a raffle removed by eviction or day-rollover purge.
type Evicted struct {
	ID          string
	PlaceNumber int
	WinnerID    int64
	CreatedAt   time.Time
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.raffles)
}

// Insert adds a new raffle. ErrDuplicateID is an invariant violation:
// id derivation guarantees uniqueness per announcement.
func (st *Store) Insert(r *Raffle) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.raffles[r.ID]; ok {
		return ErrDuplicateID
	}
	st.raffles[r.ID] = r
	return nil
}

// Remove deletes a raffle, cancelling its timers and releasing its winner
// from the exclusion set. Absent ids are a no-op: finalize and eviction
// paths may race.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.removeLocked(id)
}

func (st *Store) removeLocked(id string) (Evicted, bool) {
	r, ok := st.raffles[id]
	if !ok {
		return Evicted{}, false
	}
	r.stopTimers()
	st.releaseWinnerLocked(r)
	delete(st.raffles, id)
	return Evicted{ID: r.ID, PlaceNumber: r.PlaceNumber, WinnerID: r.WinnerID, CreatedAt: r.CreatedAt}, true
}

// releaseWinnerLocked clears the exclusion entry, but only if it still points
// at this raffle: the same user must not be released by a stale entry.
func (st *Store) releaseWinnerLocked(r *Raffle) {
	if r.WinnerID == 0 {
		return
	}
	if st.winners[r.WinnerID] == r.ID {
		delete(st.winners, r.WinnerID)
	}
}

// Oldest returns the id of the raffle with the minimum creation time.
// Ties are broken by id so concurrent callers observe the same choice.
func (st *Store) Oldest() (string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.oldestLocked()
}

func (st *Store) oldestLocked() (string, bool) {
	var (
		oldestID string
		oldest   *Raffle
	)
	for id, r := range st.raffles {
		if oldest == nil ||
			r.CreatedAt.Before(oldest.CreatedAt) ||
			(r.CreatedAt.Equal(oldest.CreatedAt) && id < oldestID) {
			oldestID, oldest = id, r
		}
	}
	return oldestID, oldest != nil
}

// RemoveOldest evicts the single globally oldest raffle.
func (st *Store) RemoveOldest() (Evicted, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	id, ok := st.oldestLocked()
	if !ok {
		return Evicted{}, false
	}
	return st.removeLocked(id)
}

// PurgeNotToday removes every raffle created on a different calendar date
// than today, releasing each one's winner from the exclusion set.
func (st *Store) PurgeNotToday(today time.Time) []Evicted {
	st.mu.Lock()
	defer st.mu.Unlock()
	var purged []Evicted
	for id, r := range st.raffles {
		if sameDay(r.CreatedAt, today) {
			continue
		}
		if e, ok := st.removeLocked(id); ok {
			purged = append(purged, e)
		}
	}
	return purged
}

// IsExcluded reports whether the user currently holds an unclaimed win.
func (st *Store) IsExcluded(userID int64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.winners[userID]
	return ok
}

// joinView is the state copied out for the gateway call after a join.
type joinView struct {
	RaffleID     string
	PlaceNumber  int
	Ref          MessageRef
	Participants int
}

// addParticipant atomically performs the joined/excluded checks and the
// append. A finished raffle rejects joins the same way an absent one does:
// it is only retained for exclusivity bookkeeping.
func (st *Store) addParticipant(id string, userID int64) (joinView, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.raffles[id]
	if !ok || r.Finished {
		return joinView{}, ErrRaffleNotFound
	}
	if r.hasParticipant(userID) {
		return joinView{}, ErrAlreadyJoined
	}
	if _, won := st.winners[userID]; won {
		return joinView{}, ErrAlreadyWon
	}
	r.Participants = append(r.Participants, userID)
	return joinView{
		RaffleID:     r.ID,
		PlaceNumber:  r.PlaceNumber,
		Ref:          r.Announcement,
		Participants: len(r.Participants),
	}, nil
}

// finalizeResult is the state copied out for post-finalize I/O.
type finalizeResult struct {
	ChatID       int64
	PlaceNumber  int
	Participants int
	WinnerID     int64
}

// closeAndPick marks the raffle finished and, if anyone joined, records the
// winner chosen by pick and adds them to the exclusion set. Returns false if
// the raffle is absent or already finished, which makes duplicate timer
// firings a no-op. The winner, once set, is never cleared.
func (st *Store) closeAndPick(id string, pick func(n int) int) (finalizeResult, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.raffles[id]
	if !ok || r.Finished {
		return finalizeResult{}, false
	}
	r.Finished = true
	if r.refreshTimer != nil {
		r.refreshTimer.Stop()
	}
	res := finalizeResult{
		ChatID:       r.ChatID,
		PlaceNumber:  r.PlaceNumber,
		Participants: len(r.Participants),
	}
	if len(r.Participants) > 0 {
		r.WinnerID = r.Participants[pick(len(r.Participants))]
		st.winners[r.WinnerID] = r.ID
		res.WinnerID = r.WinnerID
	}
	return res, true
}

// announcementView is the state copied out for a full announcement refresh.
type announcementView struct {
	PlaceNumber  int
	Ref          MessageRef
	Participants int
	CreatedAt    time.Time
}

func (st *Store) announcementView(id string) (announcementView, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.raffles[id]
	if !ok || r.Finished {
		return announcementView{}, false
	}
	return announcementView{
		PlaceNumber:  r.PlaceNumber,
		Ref:          r.Announcement,
		Participants: len(r.Participants),
		CreatedAt:    r.CreatedAt,
	}, true
}

// setTimers attaches the freshly armed timers to the raffle. If the raffle
// vanished in the meantime (concurrent eviction), the timers are stopped so
// no orphaned callbacks keep firing.
func (st *Store) setTimers(id string, finalize, refresh *time.Timer) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.raffles[id]
	if !ok {
		finalize.Stop()
		refresh.Stop()
		return
	}
	r.finalizeTimer = finalize
	r.refreshTimer = refresh
}

// swapRefreshTimer replaces the refresh timer after a re-arm. Stops the new
// timer if the raffle is gone or already finished.
func (st *Store) swapRefreshTimer(id string, t *time.Timer) {
	st.mu.Lock()
	defer st.mu.Unlock()
	r, ok := st.raffles[id]
	if !ok || r.Finished {
		t.Stop()
		return
	}
	r.refreshTimer = t
}

// Status is a point-in-time view of one tracked raffle, for /status.
type Status struct {
	RaffleID     string
	PlaceNumber  int
	Participants int
	CreatedAt    time.Time
	Finished     bool
	WinnerID     int64
}

// SnapshotAll returns all tracked raffles ordered by creation time.
func (st *Store) SnapshotAll() []Status {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]Status, 0, len(st.raffles))
	for _, r := range st.raffles {
		out = append(out, Status{
			RaffleID:     r.ID,
			PlaceNumber:  r.PlaceNumber,
			Participants: len(r.Participants),
			CreatedAt:    r.CreatedAt,
			Finished:     r.Finished,
			WinnerID:     r.WinnerID,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RaffleID < out[j].RaffleID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
