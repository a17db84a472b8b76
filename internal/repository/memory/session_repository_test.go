package memory

import (
	"testing"

	"github.com/bytebender77/honeypot/pkg/store"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()

	if _, found := repo.Get("s1"); found {
		t.Fatal("empty repo must not find anything")
	}

	repo.Save(&store.Session{ID: "s1", Turns: 3})

	got, found := repo.Get("s1")
	if !found {
		t.Fatal("saved session must be found")
	}
	if got.ID != "s1" || got.Turns != 3 {
		t.Errorf("got %+v, want s1 with 3 turns", got)
	}

	repo.Delete("s1")
	if _, found := repo.Get("s1"); found {
		t.Error("deleted session must be gone")
	}

	// Deleting twice is a no-op.
	repo.Delete("s1")
}
