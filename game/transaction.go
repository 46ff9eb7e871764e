package game

import (
	"github.com/wfunc/monopoly/board"
)

// BuyResult reports a completed purchase and whether it released a
// deferred turn advancement.
type BuyResult struct {
	PlayerID        string
	PropertyID      string
	Price           int
	TurnAdvanced    bool
	CurrentPlayerID string
	GameOver        bool
	WinnerID        string
}

// CanBuy reports whether the purchase would succeed: the property exists,
// nobody owns it, and the player can afford it.
func (g *Game) CanBuy(playerID, propertyID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, _, err := g.validateBuy(playerID, propertyID)
	return err == nil
}

func (g *Game) validateBuy(playerID, propertyID string) (*Player, *board.Property, error) {
	p := g.playerByID(playerID)
	if p == nil {
		return nil, nil, ErrUnknownPlayer
	}
	prop, ok := g.catalog.Get(propertyID)
	if !ok {
		return nil, nil, ErrUnknownProperty
	}
	if _, owned := g.holdings[propertyID]; owned {
		return nil, nil, ErrAlreadyOwned
	}
	if p.Money < prop.Price {
		return nil, nil, ErrInsufficientFunds
	}
	return p, prop, nil
}

// Buy re-validates CanBuy under the lock (clients race each other and
// their own stale state) and then deducts the price and assigns ownership
// as one step. Only the turn holder buys; any failed precondition leaves
// the session untouched.
func (g *Game) Buy(playerID, propertyID string) (*BuyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.requireCurrent(playerID); err != nil {
		return nil, err
	}
	p, prop, err := g.validateBuy(playerID, propertyID)
	if err != nil {
		return nil, err
	}

	p.Money -= prop.Price
	g.holdings[propertyID] = &Holding{OwnerID: p.ID}

	res := &BuyResult{PlayerID: p.ID, PropertyID: propertyID, Price: prop.Price}
	if g.pendingBuy == propertyID && g.players[g.current] == p {
		g.pendingBuy = ""
		if p.HasRolled {
			g.advanceTurn()
			res.TurnAdvanced = true
		}
	}
	if g.winnerID != "" {
		res.GameOver = true
		res.WinnerID = g.winnerID
	} else if len(g.players) > 0 {
		res.CurrentPlayerID = g.players[g.current].ID
	}
	return res, nil
}

// Sell is valid only for the owning turn holder; it credits the mortgage
// value and clears ownership.
func (g *Game) Sell(playerID, propertyID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireCurrent(playerID)
	if err != nil {
		return err
	}
	prop, ok := g.catalog.Get(propertyID)
	if !ok {
		return ErrUnknownProperty
	}
	h, owned := g.holdings[propertyID]
	if !owned {
		return ErrNotOwned
	}
	if h.OwnerID != p.ID {
		return ErrNotOwner
	}

	amount := prop.Mortgage
	if h.Mortgaged {
		amount = 0
	}
	amount += h.Houses * prop.HouseCost / 2
	p.Money += amount
	delete(g.holdings, propertyID)
	return nil
}

// MortgageProperty trades rent eligibility for upfront cash.
func (g *Game) MortgageProperty(playerID, propertyID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	prop, ok := g.catalog.Get(propertyID)
	if !ok {
		return ErrUnknownProperty
	}
	h, owned := g.holdings[propertyID]
	if !owned {
		return ErrNotOwned
	}
	if h.OwnerID != p.ID {
		return ErrNotOwner
	}
	if h.Mortgaged {
		return ErrMortgaged
	}

	h.Mortgaged = true
	p.Money += prop.Mortgage
	return nil
}

// UnmortgageProperty lifts a mortgage at 110% of the mortgage value.
func (g *Game) UnmortgageProperty(playerID, propertyID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	prop, ok := g.catalog.Get(propertyID)
	if !ok {
		return ErrUnknownProperty
	}
	h, owned := g.holdings[propertyID]
	if !owned {
		return ErrNotOwned
	}
	if h.OwnerID != p.ID {
		return ErrNotOwner
	}
	if !h.Mortgaged {
		return ErrNotMortgaged
	}
	cost := prop.Mortgage + prop.Mortgage/10
	if p.Money < cost {
		return ErrInsufficientFunds
	}

	h.Mortgaged = false
	p.Money -= cost
	return nil
}

// BuildHouse adds one improvement to a street the player owns, provided
// they own the whole colour group. Five improvements make a hotel.
func (g *Game) BuildHouse(playerID, propertyID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	prop, ok := g.catalog.Get(propertyID)
	if !ok {
		return ErrUnknownProperty
	}
	if prop.Kind != board.KindStreet {
		return ErrUnknownProperty
	}
	h, owned := g.holdings[propertyID]
	if !owned {
		return ErrNotOwned
	}
	if h.OwnerID != p.ID {
		return ErrNotOwner
	}
	if h.Mortgaged {
		return ErrMortgaged
	}
	if h.Houses >= 5 {
		return ErrMaxHouses
	}
	for _, other := range g.catalog.InGroup(prop.Group) {
		oh, ok := g.holdings[other.ID]
		if !ok || oh.OwnerID != p.ID {
			return ErrNotOwner
		}
	}
	if p.Money < prop.HouseCost {
		return ErrInsufficientFunds
	}

	p.Money -= prop.HouseCost
	h.Houses++
	return nil
}

// OwnerOf returns the owning player id, or "" when unowned.
func (g *Game) OwnerOf(propertyID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if h, ok := g.holdings[propertyID]; ok {
		return h.OwnerID
	}
	return ""
}

// ApplyTrade settles an accepted negotiation as a single atomic step.
// Each offered property moves to the receiver only if the sender still
// owns it, each requested property symmetrically; money moves only when
// the sender can still afford it. Stale entries degrade to no-ops rather
// than failing the whole settlement.
func (g *Game) ApplyTrade(senderID, receiverID string, offered, requested []string, money int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	sender := g.playerByID(senderID)
	receiver := g.playerByID(receiverID)
	if sender == nil || receiver == nil {
		return ErrUnknownPlayer
	}

	for _, id := range offered {
		g.reassign(id, senderID, receiverID)
	}
	for _, id := range requested {
		g.reassign(id, receiverID, senderID)
	}
	if money > 0 && sender.Money >= money {
		sender.Money -= money
		receiver.Money += money
	}
	return nil
}

// reassign moves ownership only when the expected owner still holds the
// property (stale-state guard).
func (g *Game) reassign(propertyID, fromID, toID string) {
	h, ok := g.holdings[propertyID]
	if !ok || h.OwnerID != fromID {
		return
	}
	h.OwnerID = toID
}
