package game

import "github.com/wfunc/monopoly/deck"

// EffectKind discriminates the side effects a move can trigger.
type EffectKind string

const (
	EffectRentPaid   EffectKind = "rent-paid"
	EffectTaxPaid    EffectKind = "tax-paid"
	EffectCardDrawn  EffectKind = "card-drawn"
	EffectJailed     EffectKind = "jailed"
	EffectBankruptcy EffectKind = "bankruptcy"
)

// Effect is one domain event produced while resolving a move. The
// registry translates effects into outbound frames after the lock is
// released.
type Effect struct {
	Kind       EffectKind
	PlayerID   string
	OwnerID    string
	PropertyID string
	Amount     int
	TaxType    string
	CardType   string
	Card       *deck.Card
}
