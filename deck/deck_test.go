package deck

import (
	"math/rand"
	"testing"
)

func testDecks(cards ...Card) *Decks {
	return New(map[string][]Card{"test": cards}, rand.New(rand.NewSource(1)))
}

func TestDecks_DrawDepletes(t *testing.T) {
	d := testDecks(
		Card{ID: 1, Action: ActionGetMoney, Amount: 50},
		Card{ID: 2, Action: ActionPay, Amount: 15},
	)

	if d.Remaining("test") != 2 {
		t.Fatalf("Expected 2 cards in the deck, got %d", d.Remaining("test"))
	}

	if _, ok := d.Draw("test"); !ok {
		t.Fatal("Draw from a full deck should succeed")
	}
	if d.Remaining("test") != 1 || d.Discarded("test") != 1 {
		t.Errorf("Expected 1 remaining / 1 discarded, got %d / %d",
			d.Remaining("test"), d.Discarded("test"))
	}
}

func TestDecks_ReshufflesDiscardsWhenEmpty(t *testing.T) {
	d := testDecks(
		Card{ID: 1, Action: ActionGetMoney, Amount: 50},
		Card{ID: 2, Action: ActionPay, Amount: 15},
	)

	d.Draw("test")
	d.Draw("test")
	if d.Remaining("test") != 0 || d.Discarded("test") != 2 {
		t.Fatalf("Setup failed: %d remaining / %d discarded",
			d.Remaining("test"), d.Discarded("test"))
	}

	// The third draw reshuffles both discards into a fresh deck and draws one.
	card, ok := d.Draw("test")
	if !ok {
		t.Fatal("Draw should succeed after reshuffling the discards")
	}
	if card.ID != 1 && card.ID != 2 {
		t.Errorf("Reshuffled draw returned an unknown card: %+v", card)
	}
	if d.Remaining("test") != 1 || d.Discarded("test") != 1 {
		t.Errorf("Expected 1 remaining / 1 discarded after reshuffle, got %d / %d",
			d.Remaining("test"), d.Discarded("test"))
	}
}

func TestDecks_UnknownCategory(t *testing.T) {
	d := testDecks(Card{ID: 1, Action: ActionGetMoney, Amount: 50})

	if _, ok := d.Draw("tarot"); ok {
		t.Error("Draw from an unknown category should fail")
	}
	if d.Remaining("tarot") != 0 {
		t.Error("Unknown category should report zero cards")
	}
}

func TestNewStandard_BothCategoriesStocked(t *testing.T) {
	d := NewStandard(rand.New(rand.NewSource(1)))

	if d.Remaining(CategoryChance) == 0 {
		t.Error("Standard chance deck should not be empty")
	}
	if d.Remaining(CategoryChest) == 0 {
		t.Error("Standard chest deck should not be empty")
	}

	// Drawing cycles forever thanks to the reshuffle.
	total := d.Remaining(CategoryChance)
	for i := 0; i < total*3; i++ {
		if _, ok := d.Draw(CategoryChance); !ok {
			t.Fatalf("Draw %d failed", i+1)
		}
	}
}
