package game

import "github.com/wfunc/monopoly/board"

// Utility rent multipliers by co-owned utility count, applied to the last
// dice sum.
var utilityMultipliers = [...]int{4, 10}

// CalculateRent computes the rent due on a property right now. The figure
// is never cached: station and utility rents depend on how many siblings
// the owner holds at collection time.
func (g *Game) CalculateRent(propertyID string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prop, ok := g.catalog.Get(propertyID)
	if !ok {
		return 0, ErrUnknownProperty
	}
	h, owned := g.holdings[propertyID]
	if !owned {
		return 0, ErrNotOwned
	}
	return g.rentFor(prop, h), nil
}

// rentFor dispatches on the closed property variant set. Call with the
// lock held.
func (g *Game) rentFor(prop *board.Property, h *Holding) int {
	switch prop.Kind {
	case board.KindStreet:
		tier := h.Houses
		if tier >= len(prop.Rent) {
			tier = len(prop.Rent) - 1
		}
		return prop.Rent[tier]
	case board.KindStation:
		// Base rent doubles for every additional station the owner holds.
		count := g.countOwnedOfKind(h.OwnerID, board.KindStation)
		rent := prop.Rent[0]
		for i := 1; i < count; i++ {
			rent *= 2
		}
		return rent
	case board.KindUtility:
		count := g.countOwnedOfKind(h.OwnerID, board.KindUtility)
		if count > len(utilityMultipliers) {
			count = len(utilityMultipliers)
		}
		if count < 1 {
			count = 1
		}
		dice := g.lastDice
		if dice == 0 {
			dice = 7 // no roll yet this match; use the expected dice sum
		}
		return utilityMultipliers[count-1] * dice
	}
	return 0
}

func (g *Game) countOwnedOfKind(ownerID string, kind board.Kind) int {
	count := 0
	for _, prop := range g.catalog.OfKind(kind) {
		if h, ok := g.holdings[prop.ID]; ok && h.OwnerID == ownerID {
			count++
		}
	}
	return count
}

// PayRent collects the rent the current player owes on a property.
// Refusals (out of turn, unowned, own property, mortgaged, unaffordable
// rent) leave both balances untouched and are reported as distinct
// outcomes.
func (g *Game) PayRent(playerID, propertyID string) (*Effect, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireCurrent(playerID)
	if err != nil {
		return nil, err
	}
	prop, ok := g.catalog.Get(propertyID)
	if !ok {
		return nil, ErrUnknownProperty
	}
	h, owned := g.holdings[propertyID]
	if !owned {
		return nil, ErrNotOwned
	}
	if h.OwnerID == p.ID {
		return nil, ErrOwnProperty
	}
	if h.Mortgaged {
		return nil, ErrMortgaged
	}
	rent := g.rentFor(prop, h)
	if p.Money < rent {
		return nil, ErrInsufficientFunds
	}

	effects := g.collectRent(p, prop, h)
	return &effects[0], nil
}

// collectRent moves the exact computed amount renter -> owner. Call with
// the lock held and preconditions already checked except affordability:
// an automatic collection during landing may push the renter negative and
// trigger the bankruptcy path instead of refusing.
func (g *Game) collectRent(p *Player, prop *board.Property, h *Holding) []Effect {
	rent := g.rentFor(prop, h)
	owner := g.playerByID(h.OwnerID)
	if owner == nil {
		return nil
	}

	p.Money -= rent
	owner.Money += rent

	effects := []Effect{{
		Kind:       EffectRentPaid,
		PlayerID:   p.ID,
		OwnerID:    owner.ID,
		PropertyID: prop.ID,
		Amount:     rent,
	}}
	if bankrupt := g.checkBankruptcy(p); bankrupt != nil {
		effects = append(effects, *bankrupt)
	}
	return effects
}

// PayTax debits a declared tax amount from the current player.
func (g *Game) PayTax(playerID string, amount int, taxType string) ([]Effect, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireCurrent(playerID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return g.applyTax(p, amount, taxType), nil
}

// applyTax debits the player and runs the bankruptcy check. Call with the
// lock held.
func (g *Game) applyTax(p *Player, amount int, taxType string) []Effect {
	effects := []Effect{{
		Kind:     EffectTaxPaid,
		PlayerID: p.ID,
		Amount:   amount,
		TaxType:  taxType,
	}}
	if bankrupt := g.debit(p, amount); bankrupt != nil {
		effects = append(effects, *bankrupt)
	}
	return effects
}
