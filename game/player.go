package game

// Player is owned by the Game and only ever mutated under the game lock.
type Player struct {
	ID        string
	Name      string
	Money     int
	Position  int
	InJail    bool
	JailTurns int
	HasRolled bool
	Bot       bool
	Connected bool
	Bankrupt  bool
}

// Active reports whether the player still takes part in the match.
func (p *Player) Active() bool {
	return !p.Bankrupt
}

// TakesTurns reports whether turn advancement may stop at this player.
func (p *Player) TakesTurns() bool {
	return !p.Bankrupt && p.Connected
}

// PlayerSnapshot is the broadcast view of a player.
type PlayerSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Money     int    `json:"money"`
	Position  int    `json:"position"`
	InJail    bool   `json:"inJail"`
	JailTurns int    `json:"jailTurns"`
	HasRolled bool   `json:"hasRolled"`
	Bot       bool   `json:"bot"`
	Connected bool   `json:"connected"`
	Bankrupt  bool   `json:"bankrupt"`
}

func (p *Player) snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:        p.ID,
		Name:      p.Name,
		Money:     p.Money,
		Position:  p.Position,
		InJail:    p.InJail,
		JailTurns: p.JailTurns,
		HasRolled: p.HasRolled,
		Bot:       p.Bot,
		Connected: p.Connected,
		Bankrupt:  p.Bankrupt,
	}
}
