package game

import "testing"

func TestCalculateRent_StreetTiers(t *testing.T) {
	g := newTestGame(t, "alice", "bob")

	g.Cheat("alice", "motherlode")
	g.Buy("alice", "old-road")
	g.Buy("alice", "new-road")

	rent, err := g.CalculateRent("old-road")
	if err != nil {
		t.Fatalf("CalculateRent failed: %v", err)
	}
	if rent != 2 {
		t.Errorf("Expected base rent 2, got %d", rent)
	}

	g.BuildHouse("alice", "old-road")
	if rent, _ = g.CalculateRent("old-road"); rent != 10 {
		t.Errorf("Expected one-house rent 10, got %d", rent)
	}

	for i := 0; i < 4; i++ {
		g.BuildHouse("alice", "old-road")
	}
	if rent, _ = g.CalculateRent("old-road"); rent != 250 {
		t.Errorf("Expected hotel rent 250, got %d", rent)
	}
}

func TestCalculateRent_StationDoubles(t *testing.T) {
	g := newTestGame(t, "alice", "bob")

	g.Buy("alice", "south-station")
	if rent, _ := g.CalculateRent("south-station"); rent != 25 {
		t.Errorf("Expected single-station rent 25, got %d", rent)
	}

	g.Buy("alice", "west-station")
	if rent, _ := g.CalculateRent("south-station"); rent != 50 {
		t.Errorf("Expected two-station rent 50, got %d", rent)
	}
}

func TestCalculateRent_UtilityMultiplier(t *testing.T) {
	g := newTestGame(t, "alice", "bob")

	// No dice thrown yet: the expected dice sum 7 stands in.
	g.Buy("alice", "electric")
	if rent, _ := g.CalculateRent("electric"); rent != 4*7 {
		t.Errorf("Expected single-utility rent 28, got %d", rent)
	}

	g.Buy("alice", "water")
	if rent, _ := g.CalculateRent("electric"); rent != 10*7 {
		t.Errorf("Expected two-utility rent 70, got %d", rent)
	}
}

func TestPayRent_Refusals(t *testing.T) {
	g := newTestGame(t, "alice", "bob")

	if _, err := g.PayRent("alice", "old-road"); err != ErrNotOwned {
		t.Errorf("Expected ErrNotOwned, got %v", err)
	}

	g.Buy("alice", "old-road")
	if _, err := g.PayRent("alice", "old-road"); err != ErrOwnProperty {
		t.Errorf("Expected ErrOwnProperty, got %v", err)
	}

	g.Buy("alice", "park-lane")
	g.MortgageProperty("alice", "old-road")

	setTurn(t, g, "bob")
	if _, err := g.PayRent("bob", "old-road"); err != ErrMortgaged {
		t.Errorf("Expected ErrMortgaged, got %v", err)
	}

	g.PayTax("bob", 1480, "test") // bob down to 20, park-lane rent is 35
	if _, err := g.PayRent("bob", "park-lane"); err != ErrInsufficientFunds {
		t.Errorf("Expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPayRent_TransfersExactAmount(t *testing.T) {
	g := newTestGame(t, "alice", "bob")

	g.Buy("alice", "old-road")
	aliceBefore := money(t, g, "alice")
	bobBefore := money(t, g, "bob")

	setTurn(t, g, "bob")
	effect, err := g.PayRent("bob", "old-road")
	if err != nil {
		t.Fatalf("PayRent failed: %v", err)
	}
	if effect.Kind != EffectRentPaid || effect.Amount != 2 {
		t.Errorf("Expected rent-paid effect of 2, got %+v", effect)
	}
	if effect.OwnerID != "alice" || effect.PlayerID != "bob" {
		t.Errorf("Effect parties wrong: %+v", effect)
	}

	if got := money(t, g, "bob"); got != bobBefore-2 {
		t.Errorf("Expected bob to pay 2, balance moved by %d", bobBefore-got)
	}
	if got := money(t, g, "alice"); got != aliceBefore+2 {
		t.Errorf("Expected alice to receive 2, balance moved by %d", got-aliceBefore)
	}
}

func TestLanding_CollectsRentAutomatically(t *testing.T) {
	g := newTestGame(t, "alice", "bob")

	grant(g, "bob", "old-road")
	res, err := g.ManualRoll("alice", 1)
	if err != nil {
		t.Fatalf("ManualRoll failed: %v", err)
	}
	if len(res.Effects) == 0 || res.Effects[0].Kind != EffectRentPaid {
		t.Fatalf("Expected an automatic rent effect, got %+v", res.Effects)
	}
	if res.Effects[0].Amount != 2 {
		t.Errorf("Expected rent of 2, got %d", res.Effects[0].Amount)
	}
	if !res.TurnAdvanced {
		t.Error("Landing on an owned property should hand the turn over")
	}
	if got := money(t, g, "alice"); got != 1498 {
		t.Errorf("Expected 1498 after paying rent, got %d", got)
	}
}

func TestLanding_MortgagedCollectsNothing(t *testing.T) {
	g := newTestGame(t, "alice", "bob")

	grant(g, "bob", "old-road")
	g.MortgageProperty("bob", "old-road")

	res, err := g.ManualRoll("alice", 1)
	if err != nil {
		t.Fatalf("ManualRoll failed: %v", err)
	}
	if len(res.Effects) != 0 {
		t.Errorf("Mortgaged property must not collect rent, got %+v", res.Effects)
	}
	if got := money(t, g, "alice"); got != 1500 {
		t.Errorf("Expected 1500, got %d", got)
	}
}
