package trade

import "testing"

func TestLedger_ProposeOverwritesPerReceiver(t *testing.T) {
	l := NewLedger()

	first := l.Propose("alice", "bob", []string{"old-road"}, nil, 0)
	second := l.Propose("alice", "bob", nil, []string{"south-station"}, 50)

	if l.Len() != 1 {
		t.Fatalf("Expected one live negotiation per receiver, got %d", l.Len())
	}
	live, ok := l.Get("bob")
	if !ok {
		t.Fatal("Get should find the negotiation addressed to bob")
	}
	if live.ID != second.ID {
		t.Error("The newer proposal should replace the older one")
	}
	if live.ID == first.ID {
		t.Error("Every proposal must get a fresh id")
	}
}

func TestLedger_ResolveByID(t *testing.T) {
	l := NewLedger()
	proposal := l.Propose("alice", "bob", nil, nil, 100)

	got, err := l.Resolve(proposal.ID, "bob", "alice")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.ID != proposal.ID {
		t.Error("Resolve by id should return the matching negotiation")
	}

	if _, err := l.Resolve("no-such-id", "bob", "alice"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for an unknown id, got %v", err)
	}
}

func TestLedger_ResolveFallsBackToKeys(t *testing.T) {
	l := NewLedger()
	proposal := l.Propose("alice", "bob", nil, nil, 100)

	// No id: the responder key is tried first.
	got, err := l.Resolve("", "bob", "alice")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.ID != proposal.ID {
		t.Error("Resolve should find the negotiation keyed by the responder")
	}

	// A counter-offer inverts the roles: the original sender responds, and
	// the negotiation is found under the counterparty key.
	got, err = l.Resolve("", "alice", "bob")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.ID != proposal.ID {
		t.Error("Resolve should fall back to the counterparty key")
	}

	if _, err := l.Resolve("", "carol", "dave"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for strangers, got %v", err)
	}
}

func TestLedger_ClearDropsBothKeys(t *testing.T) {
	l := NewLedger()
	proposal := l.Propose("alice", "bob", nil, nil, 0)

	l.Clear(proposal)
	if l.Len() != 0 {
		t.Errorf("Expected an empty ledger after Clear, got %d", l.Len())
	}

	// Clear must not evict an unrelated newer negotiation for the same
	// receiver.
	stale := l.Propose("alice", "bob", nil, nil, 0)
	fresh := l.Propose("carol", "bob", nil, nil, 25)
	l.Clear(stale)
	if live, ok := l.Get("bob"); !ok || live.ID != fresh.ID {
		t.Error("Clearing a replaced negotiation must keep the live one")
	}
}

func TestLedger_ClearParties(t *testing.T) {
	l := NewLedger()
	l.Propose("alice", "bob", nil, nil, 0)
	l.Propose("bob", "alice", nil, nil, 0)
	l.Propose("carol", "dave", nil, nil, 0)

	l.ClearParties("alice", "bob")
	if l.Len() != 1 {
		t.Errorf("Expected only the unrelated negotiation to survive, got %d", l.Len())
	}
	if _, ok := l.Get("dave"); !ok {
		t.Error("Unrelated negotiation should survive ClearParties")
	}
}
