package game

import "fmt"

// cheatTable maps debug codes to their effect. Kept as a plain lookup
// table; codes are only honoured for the invoking player.
var cheatTable = map[string]func(*Game, *Player) []Effect{
	"motherlode": func(g *Game, p *Player) []Effect {
		g.credit(p, 1000)
		return nil
	},
	"gotojail": func(g *Game, p *Player) []Effect {
		p.Position = PositionJail
		p.InJail = true
		p.JailTurns = g.rules.JailTurns
		return []Effect{{Kind: EffectJailed, PlayerID: p.ID}}
	},
	"ruin": func(g *Game, p *Player) []Effect {
		return g.applyTax(p, p.Money+1, "cheat")
	},
	"addbot": func(g *Game, p *Player) []Effect {
		g.addBot()
		return nil
	},
}

// Cheat applies a debug code to the invoking player.
func (g *Game) Cheat(playerID, code string) ([]Effect, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	effect, ok := cheatTable[code]
	if !ok {
		return nil, ErrUnknownCheat
	}
	return effect(g, p), nil
}

// addBot appends an automated player. Call with the lock held.
func (g *Game) addBot() {
	if len(g.players) >= g.rules.MaxPlayers {
		return
	}
	g.botSeq++
	id := fmt.Sprintf("bot-%d", g.botSeq)
	g.players = append(g.players, &Player{
		ID:        id,
		Name:      fmt.Sprintf("Bot %d", g.botSeq),
		Money:     g.rules.StartMoney,
		Bot:       true,
		Connected: true,
	})
}

// AddBot publicly appends an automated player while waiting.
func (g *Game) AddBot() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.players) >= g.rules.MaxPlayers {
		return ErrGameFull
	}
	g.addBot()
	return nil
}
