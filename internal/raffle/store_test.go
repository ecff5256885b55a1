package raffle

import (
	"errors"
	"testing"
	"time"
)

func testRaffle(id string, place int, createdAt time.Time) *Raffle {
	return &Raffle{
		ID:          id,
		ChatID:      -100500,
		PlaceNumber: place,
		CreatedAt:   createdAt,
	}
}

func TestStore_InsertDuplicate(t *testing.T) {
	st := NewStore()
	now := time.Now()

	if err := st.Insert(testRaffle("a", 5, now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	err := st.Insert(testRaffle("a", 7, now))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	st := NewStore()
	st.Remove("missing") // must not panic or error
	if st.Len() != 0 {
		t.Errorf("Len = %d, want 0", st.Len())
	}
}

func TestStore_Oldest(t *testing.T) {
	st := NewStore()
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)

	st.Insert(testRaffle("b", 7, base.Add(10*time.Second)))
	st.Insert(testRaffle("a", 5, base))
	st.Insert(testRaffle("c", 9, base.Add(20*time.Second)))

	id, ok := st.Oldest()
	if !ok || id != "a" {
		t.Fatalf("Oldest = %q, %v; want %q, true", id, ok, "a")
	}
}

func TestStore_OldestTieIsDeterministic(t *testing.T) {
	st := NewStore()
	at := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)
	st.Insert(testRaffle("z", 1, at))
	st.Insert(testRaffle("a", 2, at))

	for i := 0; i < 10; i++ {
		id, ok := st.Oldest()
		if !ok || id != "a" {
			t.Fatalf("Oldest = %q, %v; want ties broken by id", id, ok)
		}
	}
}

func TestStore_RemoveOldestReleasesWinner(t *testing.T) {
	st := NewStore()
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)

	old := testRaffle("old", 5, base)
	old.Participants = []int64{101}
	st.Insert(old)
	st.Insert(testRaffle("new", 7, base.Add(time.Minute)))

	if _, ok := st.closeAndPick("old", func(int) int { return 0 }); !ok {
		t.Fatal("closeAndPick failed")
	}
	if !st.IsExcluded(101) {
		t.Fatal("winner should be excluded after finalize")
	}

	e, ok := st.RemoveOldest()
	if !ok || e.ID != "old" {
		t.Fatalf("RemoveOldest = %+v, %v", e, ok)
	}
	if e.WinnerID != 101 {
		t.Errorf("evicted WinnerID = %d, want 101", e.WinnerID)
	}
	if st.IsExcluded(101) {
		t.Error("eviction must release the winner from exclusion")
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
}

func TestStore_PurgeNotToday(t *testing.T) {
	st := NewStore()
	today := time.Date(2025, 6, 3, 10, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)

	stale := testRaffle("stale", 5, yesterday)
	stale.Participants = []int64{42}
	st.Insert(stale)
	st.Insert(testRaffle("fresh", 7, today.Add(-time.Hour)))

	st.closeAndPick("stale", func(int) int { return 0 })
	if !st.IsExcluded(42) {
		t.Fatal("expected winner 42 excluded")
	}

	purged := st.PurgeNotToday(today)
	if len(purged) != 1 || purged[0].ID != "stale" {
		t.Fatalf("purged = %+v, want only the stale raffle", purged)
	}
	if st.IsExcluded(42) {
		t.Error("purge must release the stale raffle's winner")
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Len())
	}
	if id, _ := st.Oldest(); id != "fresh" {
		t.Errorf("remaining raffle = %q, want %q", id, "fresh")
	}
}

func TestStore_AddParticipant(t *testing.T) {
	st := NewStore()
	now := time.Now()
	st.Insert(testRaffle("r", 5, now))

	t.Run("first join", func(t *testing.T) {
		v, err := st.addParticipant("r", 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Participants != 1 {
			t.Errorf("Participants = %d, want 1", v.Participants)
		}
	})

	t.Run("repeat join", func(t *testing.T) {
		_, err := st.addParticipant("r", 42)
		if !errors.Is(err, ErrAlreadyJoined) {
			t.Fatalf("expected ErrAlreadyJoined, got %v", err)
		}
	})

	t.Run("absent raffle", func(t *testing.T) {
		_, err := st.addParticipant("gone", 42)
		if !errors.Is(err, ErrRaffleNotFound) {
			t.Fatalf("expected ErrRaffleNotFound, got %v", err)
		}
	})

	t.Run("finished raffle", func(t *testing.T) {
		st.closeAndPick("r", func(int) int { return 0 })
		_, err := st.addParticipant("r", 43)
		if !errors.Is(err, ErrRaffleNotFound) {
			t.Fatalf("expected ErrRaffleNotFound for finished raffle, got %v", err)
		}
	})

	t.Run("excluded winner", func(t *testing.T) {
		st.Insert(testRaffle("other", 7, now))
		_, err := st.addParticipant("other", 42) // 42 won "r" above
		if !errors.Is(err, ErrAlreadyWon) {
			t.Fatalf("expected ErrAlreadyWon, got %v", err)
		}
	})
}

func TestStore_CloseAndPickIdempotent(t *testing.T) {
	st := NewStore()
	r := testRaffle("r", 5, time.Now())
	r.Participants = []int64{1, 2, 3}
	st.Insert(r)

	calls := 0
	pick := func(n int) int { calls++; return 1 }

	res, ok := st.closeAndPick("r", pick)
	if !ok {
		t.Fatal("first closeAndPick should succeed")
	}
	if res.WinnerID != 2 {
		t.Errorf("WinnerID = %d, want 2", res.WinnerID)
	}

	if _, ok := st.closeAndPick("r", pick); ok {
		t.Error("second closeAndPick must be a no-op")
	}
	if calls != 1 {
		t.Errorf("pick called %d times, want 1", calls)
	}
	if r.WinnerID != 2 {
		t.Errorf("winner changed to %d after duplicate finalize", r.WinnerID)
	}
}
