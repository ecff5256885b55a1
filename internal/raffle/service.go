package raffle

import (
	"log/slog"
	"math/rand"
	"time"
)

// FallbackDisplayName is shown when the winner's name cannot be resolved,
// e.g. the user left the chat between joining and winning.
const FallbackDisplayName = "пользователь"

// Announcement carries everything the gateway needs to render the live
// raffle message and its join button.
type Announcement struct {
	RaffleID     string
	PlaceNumber  int
	Remaining    time.Duration
	Participants int
}

// Gateway is the messaging transport consumed by the engine. Implementations
// perform network I/O and must be called without holding the store lock.
type Gateway interface {
	// PostAnnouncement sends the initial raffle message as a reply to the
	// free-spot announcement and returns a reference for later edits.
	PostAnnouncement(chatID int64, replyToID int, a Announcement) (MessageRef, error)
	// UpdateAnnouncement re-renders the whole message: countdown, count, button.
	UpdateAnnouncement(ref MessageRef, a Announcement) error
	// UpdateJoinButton re-renders only the join button's participant badge.
	UpdateJoinButton(ref MessageRef, a Announcement) error
	// ResolveDisplayName looks up a chat member's display name, best effort.
	ResolveDisplayName(chatID, userID int64) (string, error)
	// AnnounceWinner posts the congratulation message.
	AnnounceWinner(chatID int64, placeNumber int, winnerName string) error
}

// Outcome is the record of a finished raffle with a winner.
type Outcome struct {
	RaffleID     string
	ChatID       int64
	PlaceNumber  int
	Participants int
	WinnerID     int64
	WinnerName   string
	FinishedAt   time.Time
}

// Recorder journals finished raffles. May be nil; recording is best effort
// and never affects the raffle lifecycle.
type Recorder interface {
	RecordOutcome(o Outcome) error
}

// Options tune the raffle lifecycle. Zero values fall back to the defaults
// the bot has always used: 2 minute countdown, 10 second refresh, 5 raffles.
type Options struct {
	Countdown    time.Duration
	RefreshEvery time.Duration
	Capacity     int
}

const (
	defaultCountdown    = 2 * time.Minute
	defaultRefreshEvery = 10 * time.Second
	defaultCapacity     = 5
)

// Service runs the raffle lifecycle: creation, capacity-bounded admission,
// participant registration, periodic announcement refresh and finalization.
type Service struct {
	store    *Store
	gateway  Gateway
	recorder Recorder
	logger   *slog.Logger

	countdown    time.Duration
	refreshEvery time.Duration
	capacity     int

	now  func() time.Time
	pick func(n int) int // uniform in [0, n)
}

func NewService(store *Store, gateway Gateway, recorder Recorder, logger *slog.Logger, opts Options) *Service {
	if opts.Countdown <= 0 {
		opts.Countdown = defaultCountdown
	}
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = defaultRefreshEvery
	}
	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}
	return &Service{
		store:        store,
		gateway:      gateway,
		recorder:     recorder,
		logger:       logger,
		countdown:    opts.Countdown,
		refreshEvery: opts.RefreshEvery,
		capacity:     opts.Capacity,
		now:          time.Now,
		pick:         rand.Intn,
	}
}

// Create starts a raffle for a detected free-spot announcement: purges stale
// raffles, evicts the oldest one if the capacity bound is hit, posts the
// announcement and arms the finalize and refresh timers.
//
// A failed announcement post is logged but does not abort creation: the
// raffle is tracked and the finalize timer fires either way.
func (s *Service) Create(chatID int64, sourceMessageID int, placeNumber int) (string, error) {
	now := s.now()

	for _, e := range s.store.PurgeNotToday(now) {
		s.logger.Info("purged raffle from a previous day",
			"raffle_id", e.ID,
			"place", e.PlaceNumber,
			"created_at", e.CreatedAt,
		)
	}

	for s.store.Len() >= s.capacity {
		e, ok := s.store.RemoveOldest()
		if !ok {
			break
		}
		s.logger.Info("evicted oldest raffle over capacity",
			"raffle_id", e.ID,
			"place", e.PlaceNumber,
		)
	}

	id := DeriveID(chatID, sourceMessageID)
	ann := Announcement{
		RaffleID:    id,
		PlaceNumber: placeNumber,
		Remaining:   s.countdown,
	}

	ref, err := s.gateway.PostAnnouncement(chatID, sourceMessageID, ann)
	if err != nil {
		s.logger.Error("failed to post raffle announcement",
			"raffle_id", id, "place", placeNumber, "error", err)
	}

	r := &Raffle{
		ID:           id,
		ChatID:       chatID,
		PlaceNumber:  placeNumber,
		Announcement: ref,
		CreatedAt:    now,
	}
	if err := s.store.Insert(r); err != nil {
		return "", err
	}

	finalize := time.AfterFunc(s.countdown, func() { s.Finalize(id) })
	refresh := time.AfterFunc(s.refreshEvery, func() { s.Refresh(id) })
	s.store.setTimers(id, finalize, refresh)

	s.logger.Info("raffle created",
		"raffle_id", id, "place", placeNumber, "countdown", s.countdown)
	return id, nil
}

// Join registers a participant. Returns ErrRaffleNotFound when the raffle
// has ended or was evicted, ErrAlreadyJoined on a repeat click and
// ErrAlreadyWon while the user holds an unclaimed win elsewhere.
func (s *Service) Join(raffleID string, userID int64) error {
	view, err := s.store.addParticipant(raffleID, userID)
	if err != nil {
		return err
	}

	// Only the button badge is re-rendered here; the countdown text is left
	// to the periodic refresh.
	if !view.Ref.IsZero() {
		a := Announcement{
			RaffleID:     view.RaffleID,
			PlaceNumber:  view.PlaceNumber,
			Participants: view.Participants,
		}
		if err := s.gateway.UpdateJoinButton(view.Ref, a); err != nil {
			s.logger.Debug("failed to update join button",
				"raffle_id", raffleID, "error", err)
		}
	}
	return nil
}

// Finalize closes the raffle and draws a winner if anyone joined. Safe to
// call more than once: only the first call has any effect. The entry stays
// in the store until day-end purge or eviction so winner exclusivity holds
// for the rest of the day.
func (s *Service) Finalize(raffleID string) {
	res, ok := s.store.closeAndPick(raffleID, s.pick)
	if !ok {
		return
	}

	if res.WinnerID == 0 {
		s.logger.Info("raffle finished without participants",
			"raffle_id", raffleID, "place", res.PlaceNumber)
		return
	}

	name, err := s.gateway.ResolveDisplayName(res.ChatID, res.WinnerID)
	if err != nil || name == "" {
		s.logger.Warn("failed to resolve winner display name",
			"raffle_id", raffleID, "winner_id", res.WinnerID, "error", err)
		name = FallbackDisplayName
	}

	if err := s.gateway.AnnounceWinner(res.ChatID, res.PlaceNumber, name); err != nil {
		s.logger.Error("failed to announce winner",
			"raffle_id", raffleID, "error", err)
	}

	s.logger.Info("raffle winner selected",
		"raffle_id", raffleID,
		"place", res.PlaceNumber,
		"winner_id", res.WinnerID,
		"winner", name,
		"participants", res.Participants,
	)

	if s.recorder != nil {
		o := Outcome{
			RaffleID:     raffleID,
			ChatID:       res.ChatID,
			PlaceNumber:  res.PlaceNumber,
			Participants: res.Participants,
			WinnerID:     res.WinnerID,
			WinnerName:   name,
			FinishedAt:   s.now(),
		}
		if err := s.recorder.RecordOutcome(o); err != nil {
			s.logger.Warn("failed to record raffle outcome",
				"raffle_id", raffleID, "error", err)
		}
	}
}

// Refresh re-renders the live announcement with the current countdown and
// re-arms itself while time remains. A failed edit is not a correctness
// problem: the finalize timer fires on its own schedule.
func (s *Service) Refresh(raffleID string) {
	now := s.now()
	view, ok := s.store.announcementView(raffleID)
	if !ok {
		return
	}

	remaining := countdownRemaining(s.countdown, view.CreatedAt, now)
	if !view.Ref.IsZero() {
		a := Announcement{
			RaffleID:     raffleID,
			PlaceNumber:  view.PlaceNumber,
			Remaining:    remaining,
			Participants: view.Participants,
		}
		if err := s.gateway.UpdateAnnouncement(view.Ref, a); err != nil {
			s.logger.Debug("failed to refresh raffle announcement",
				"raffle_id", raffleID, "error", err)
		}
	}

	if remaining > 0 {
		t := time.AfterFunc(s.refreshEvery, func() { s.Refresh(raffleID) })
		s.store.swapRefreshTimer(raffleID, t)
	}
}

// Remaining reports the countdown left for a status view entry.
func (s *Service) Remaining(st Status) time.Duration {
	if st.Finished {
		return 0
	}
	return countdownRemaining(s.countdown, st.CreatedAt, s.now())
}

// Snapshot lists all tracked raffles ordered by creation time.
func (s *Service) Snapshot() []Status {
	return s.store.SnapshotAll()
}

// countdownRemaining derives the countdown from elapsed wall-clock time, so
// delayed timer firings do not desynchronize the displayed value from the
// true deadline.
func countdownRemaining(countdown time.Duration, createdAt, now time.Time) time.Duration {
	remaining := countdown - now.Sub(createdAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
