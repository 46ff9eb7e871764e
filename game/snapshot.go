package game

import "github.com/wfunc/monopoly/state"

// HoldingSnapshot is the broadcast view of an owned property.
type HoldingSnapshot struct {
	PropertyID string `json:"propertyId"`
	OwnerID    string `json:"ownerId"`
	Mortgaged  bool   `json:"mortgaged"`
	Houses     int    `json:"houses"`
}

// Snapshot is the full-state view broadcast after every state change.
type Snapshot struct {
	Status          state.ID          `json:"status"`
	CurrentPlayerID string            `json:"currentPlayerId,omitempty"`
	Players         []PlayerSnapshot  `json:"players"`
	Holdings        []HoldingSnapshot `json:"holdings"`
	WinnerID        string            `json:"winnerId,omitempty"`
}

// Snapshot copies the whole session state under the lock.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := &Snapshot{
		Status:   g.lifecycle.Current(),
		WinnerID: g.winnerID,
		Players:  make([]PlayerSnapshot, 0, len(g.players)),
		Holdings: make([]HoldingSnapshot, 0, len(g.holdings)),
	}
	if g.lifecycle.Is(state.Playing) && len(g.players) > 0 {
		snap.CurrentPlayerID = g.players[g.current].ID
	}
	for _, p := range g.players {
		snap.Players = append(snap.Players, p.snapshot())
	}
	for id, h := range g.holdings {
		snap.Holdings = append(snap.Holdings, HoldingSnapshot{
			PropertyID: id,
			OwnerID:    h.OwnerID,
			Mortgaged:  h.Mortgaged,
			Houses:     h.Houses,
		})
	}
	return snap
}

// PlayerSnapshots returns copies of all players in turn order.
func (g *Game) PlayerSnapshots() []PlayerSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PlayerSnapshot, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, p.snapshot())
	}
	return out
}

// Player returns a copy of one player.
func (g *Game) Player(id string) (PlayerSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.playerByID(id); p != nil {
		return p.snapshot(), true
	}
	return PlayerSnapshot{}, false
}
