package game

import "github.com/wfunc/monopoly/deck"

// PullCard draws a card from the named category for the current player
// and applies it.
func (g *Game) PullCard(playerID, cardType string) ([]Effect, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireCurrent(playerID)
	if err != nil {
		return nil, err
	}
	if cardType != deck.CategoryChance && cardType != deck.CategoryChest {
		return nil, ErrUnknownCardType
	}
	return g.drawAndApply(p, cardType), nil
}

// drawAndApply draws the top card and mutates the drawer through the same
// position and money primitives as regular movement, so pass-go crediting
// behaves identically. Call with the lock held.
func (g *Game) drawAndApply(p *Player, category string) []Effect {
	card, ok := g.decks.Draw(category)
	if !ok {
		return nil
	}

	effects := []Effect{{
		Kind:     EffectCardDrawn,
		PlayerID: p.ID,
		CardType: category,
		Card:     &card,
	}}

	switch card.Action {
	case deck.ActionGetMoney:
		if card.FromOthers {
			for _, other := range g.players {
				if other == p || !other.Active() {
					continue
				}
				if bankrupt := g.debit(other, card.Amount); bankrupt != nil {
					effects = append(effects, *bankrupt)
				}
				g.credit(p, card.Amount)
			}
		} else {
			g.credit(p, card.Amount)
		}
	case deck.ActionPay:
		if card.ToOthers {
			for _, other := range g.players {
				if other == p || !other.Active() {
					continue
				}
				g.credit(other, card.Amount)
				if bankrupt := g.debit(p, card.Amount); bankrupt != nil {
					effects = append(effects, *bankrupt)
					break
				}
			}
		} else {
			if bankrupt := g.debit(p, card.Amount); bankrupt != nil {
				effects = append(effects, *bankrupt)
			}
		}
	case deck.ActionMove:
		if card.Spaces != 0 {
			g.advance(p, card.Spaces)
		} else {
			g.jumpTo(p, card.TargetField)
		}
	}
	return effects
}
