package game

import "github.com/wfunc/monopoly/deck"

// RollResult describes one dice roll and everything it set in motion.
type RollResult struct {
	PlayerID string
	Die1     int
	Die2     int
	Doubles  bool
	Position int
	PassedGo bool

	// Effects resolved while landing, in order.
	Effects []Effect

	// AwaitingBuy holds the property id when the player stopped on an
	// unowned property; turn advancement is deferred until the player
	// buys or ends the turn.
	AwaitingBuy string

	TurnAdvanced    bool
	CurrentPlayerID string
	GameOver        bool
	WinnerID        string
}

// Roll throws two dice for the current player. A double grants an extra
// roll without advancing the turn; otherwise, once the landing effects are
// resolved and no buy decision is pending, the turn advances to the next
// connected, non-bankrupt player.
func (g *Game) Roll(playerID string) (*RollResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireCurrent(playerID)
	if err != nil {
		return nil, err
	}
	if p.HasRolled {
		return nil, ErrAlreadyRolled
	}
	// Rolling again after a double forfeits an unanswered buy decision.
	g.pendingBuy = ""

	die1 := g.rng.Intn(6) + 1
	die2 := g.rng.Intn(6) + 1
	g.lastDice = die1 + die2

	res := &RollResult{
		PlayerID: p.ID,
		Die1:     die1,
		Die2:     die2,
		Doubles:  die1 == die2,
	}

	if p.InJail {
		g.rollInJail(p, res)
		return g.finishRoll(p, res), nil
	}

	res.PassedGo = g.advance(p, die1+die2)
	res.Position = p.Position
	if !res.Doubles {
		p.HasRolled = true
	}
	g.resolveLanding(p, res)
	return g.finishRoll(p, res), nil
}

// ManualRoll places the current player on an absolute square. Backward
// jumps pass Go and credit the bonus; forward jumps never do. It counts
// as the player's roll for the turn.
func (g *Game) ManualRoll(playerID string, position int) (*RollResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireCurrent(playerID)
	if err != nil {
		return nil, err
	}
	if p.HasRolled {
		return nil, ErrAlreadyRolled
	}
	if position < 0 || position >= BoardSize {
		return nil, ErrInvalidPosition
	}

	res := &RollResult{PlayerID: p.ID}
	res.PassedGo = g.jumpTo(p, position)
	res.Position = p.Position
	p.HasRolled = true
	g.resolveLanding(p, res)
	return g.finishRoll(p, res), nil
}

// rollInJail handles the in-jail turn: a double frees and moves the
// player, anything else burns one remaining jail turn.
func (g *Game) rollInJail(p *Player, res *RollResult) {
	if res.Doubles {
		p.InJail = false
		p.JailTurns = 0
		res.PassedGo = g.advance(p, res.Die1+res.Die2)
		res.Position = p.Position
		// Leaving jail on a double does not grant the extra roll.
		res.Doubles = false
		p.HasRolled = true
		g.resolveLanding(p, res)
		return
	}
	p.JailTurns--
	if p.JailTurns <= 0 {
		p.InJail = false
		p.JailTurns = 0
	}
	res.Position = p.Position
	p.HasRolled = true
}

// resolveLanding applies the landed square's automatic effects: rent due,
// tax due, card squares, go-to-jail, or a pending purchase decision.
func (g *Game) resolveLanding(p *Player, res *RollResult) {
	pos := p.Position

	if pos == PositionGoJail {
		p.Position = PositionJail
		p.InJail = true
		p.JailTurns = g.rules.JailTurns
		res.Position = PositionJail
		res.Effects = append(res.Effects, Effect{Kind: EffectJailed, PlayerID: p.ID})
		return
	}

	if amount, ok := taxSquares[pos]; ok {
		res.Effects = append(res.Effects, g.applyTax(p, amount, taxNames[pos])...)
		return
	}

	if chanceSquares[pos] || chestSquares[pos] {
		category := deck.CategoryChance
		if chestSquares[pos] {
			category = deck.CategoryChest
		}
		res.Effects = append(res.Effects, g.drawAndApply(p, category)...)
		return
	}

	prop, ok := g.catalog.AtPosition(pos)
	if !ok {
		return // Go, Free Parking, Just Visiting
	}
	h, owned := g.holdings[prop.ID]
	if !owned {
		g.pendingBuy = prop.ID
		res.AwaitingBuy = prop.ID
		return
	}
	if h.OwnerID == p.ID || h.Mortgaged {
		return
	}
	res.Effects = append(res.Effects, g.collectRent(p, prop, h)...)
}

// finishRoll advances the turn when the roll was final and nothing is
// pending, then stamps the result with the post-roll view.
func (g *Game) finishRoll(p *Player, res *RollResult) *RollResult {
	if effect := g.checkBankruptcy(p); effect != nil {
		res.Effects = append(res.Effects, *effect)
	}
	if p.Bankrupt || (p.HasRolled && g.pendingBuy == "") {
		g.advanceTurn()
		res.TurnAdvanced = true
	}
	return g.stampRoll(res)
}

func (g *Game) stampRoll(res *RollResult) *RollResult {
	if g.winnerID != "" {
		res.GameOver = true
		res.WinnerID = g.winnerID
		return res
	}
	if len(g.players) > 0 {
		res.CurrentPlayerID = g.players[g.current].ID
	}
	return res
}

// TurnResult reports an explicit turn handover.
type TurnResult struct {
	PlayerID        string
	CurrentPlayerID string
	GameOver        bool
	WinnerID        string
}

// EndTurn lets the current player pass the turn after rolling, declining
// any pending purchase.
func (g *Game) EndTurn(playerID string) (*TurnResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.requireCurrent(playerID)
	if err != nil {
		return nil, err
	}
	if !p.HasRolled {
		return nil, ErrMustRollFirst
	}

	g.advanceTurn()
	res := &TurnResult{PlayerID: playerID}
	if g.winnerID != "" {
		res.GameOver = true
		res.WinnerID = g.winnerID
		return res, nil
	}
	res.CurrentPlayerID = g.players[g.current].ID
	return res, nil
}
