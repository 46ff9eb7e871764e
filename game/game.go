// Package game implements the shared game session: the ordered player
// list, the turn state machine, property ownership, rent, cards and
// bankruptcy. A single coarse mutex guards every mutation; methods return
// event values and never perform I/O while holding the lock.
package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/monopoly/board"
	"github.com/wfunc/monopoly/deck"
	"github.com/wfunc/monopoly/state"
)

// Board geometry and special squares of the standard 40-square board.
const (
	BoardSize       = 40
	PositionGo      = 0
	PositionJail    = 10
	PositionGoJail  = 30
	PositionParking = 20
)

var (
	chanceSquares = map[int]bool{7: true, 22: true, 36: true}
	chestSquares  = map[int]bool{2: true, 17: true, 33: true}
	taxSquares    = map[int]int{4: 200, 38: 100}
	taxNames      = map[int]string{4: "income", 38: "luxury"}
)

// Precondition violations. Reported to the offending client as ordinary
// domain responses, never as faults.
var (
	ErrGameNotStarted    = errors.New("game not started")
	ErrGameEnded         = errors.New("game has ended")
	ErrGameInProgress    = errors.New("game already in progress")
	ErrGameFull          = errors.New("game is full")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrAlreadyRolled     = errors.New("you have already rolled the dice")
	ErrMustRollFirst     = errors.New("you must roll the dice first")
	ErrUnknownProperty   = errors.New("unknown property")
	ErrAlreadyOwned      = errors.New("property already owned")
	ErrNotOwned          = errors.New("property is not owned")
	ErrNotOwner          = errors.New("property belongs to another player")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMortgaged         = errors.New("property is mortgaged")
	ErrNotMortgaged      = errors.New("property is not mortgaged")
	ErrOwnProperty       = errors.New("no rent due on your own property")
	ErrMaxHouses         = errors.New("street is fully improved")
	ErrUnknownCheat      = errors.New("unknown cheat code")
	ErrUnknownCardType   = errors.New("unknown card type")
	ErrInvalidPosition   = errors.New("position out of range")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// Rules are the tunable match parameters.
type Rules struct {
	StartMoney  int
	PassGoBonus int
	MinPlayers  int
	MaxPlayers  int
	JailTurns   int
}

func DefaultRules() Rules {
	return Rules{
		StartMoney:  1500,
		PassGoBonus: 200,
		MinPlayers:  2,
		MaxPlayers:  4,
		JailTurns:   3,
	}
}

// Holding is the runtime, mutable side of a catalog property.
type Holding struct {
	OwnerID   string
	Mortgaged bool
	Houses    int
}

// Game is one match. All exported methods are safe for concurrent use.
type Game struct {
	mu        sync.Mutex
	rules     Rules
	catalog   *board.Catalog
	decks     *deck.Decks
	lifecycle *state.Machine
	rng       *rand.Rand

	players    []*Player // insertion order = turn order
	current    int
	holdings   map[string]*Holding
	lastDice   int    // sum of the last dice roll, used by utility rent
	pendingBuy string // property awaiting the current player's buy decision
	botSeq     int
	startedAt  time.Time
	winnerID   string
}

func New(catalog *board.Catalog, rules Rules, seed int64) *Game {
	rng := rand.New(rand.NewSource(seed))
	g := &Game{
		rules:    rules,
		catalog:  catalog,
		decks:    deck.NewStandard(rng),
		rng:      rng,
		holdings: make(map[string]*Holding),
	}
	g.lifecycle = state.NewMachine(state.Waiting)
	g.lifecycle.Allow(state.Waiting, state.Playing, func() bool {
		return g.countPlayers() >= rules.MinPlayers && g.countPlayers() <= rules.MaxPlayers
	})
	g.lifecycle.Allow(state.Playing, state.Ended, nil)
	g.lifecycle.Allow(state.Waiting, state.Ended, nil)
	return g
}

// countPlayers is used by the lifecycle guard; it must not take the game
// lock because transitions only happen while it is already held.
func (g *Game) countPlayers() int {
	return len(g.players)
}

// Status returns the lifecycle state.
func (g *Game) Status() state.ID {
	return g.lifecycle.Current()
}

// Catalog exposes the read-only property catalog backing the match.
func (g *Game) Catalog() *board.Catalog {
	return g.catalog
}

// AddPlayer registers a player at the end of the turn order. Joining a
// running match is only valid as a reconnect of a known player.
func (g *Game) AddPlayer(id, name string, bot bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p := g.playerByID(id); p != nil {
		p.Connected = true
		return nil
	}
	if !g.lifecycle.Is(state.Waiting) {
		return ErrGameInProgress
	}
	if len(g.players) >= g.rules.MaxPlayers {
		return ErrGameFull
	}

	g.players = append(g.players, &Player{
		ID:        id,
		Name:      name,
		Money:     g.rules.StartMoney,
		Bot:       bot,
		Connected: true,
	})
	return nil
}

// Start moves the match to playing. The lifecycle guard enforces the
// 2..4 player window.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.lifecycle.ChangeState(state.Playing); err != nil {
		return err
	}
	g.current = 0
	g.startedAt = time.Now()
	return nil
}

// CanStart reports whether the waiting match has enough players.
func (g *Game) CanStart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lifecycle.Is(state.Waiting) &&
		len(g.players) >= g.rules.MinPlayers && len(g.players) <= g.rules.MaxPlayers
}

// CurrentPlayerID returns the id of the player whose turn it is, or ""
// outside of a running match.
func (g *Game) CurrentPlayerID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.lifecycle.Is(state.Playing) || len(g.players) == 0 {
		return ""
	}
	return g.players[g.current].ID
}

// CurrentPlayerIsBot reports whether the turn belongs to a bot.
func (g *Game) CurrentPlayerIsBot() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.lifecycle.Is(state.Playing) || len(g.players) == 0 {
		return false
	}
	return g.players[g.current].Bot
}

// WinnerID is set once the match has ended.
func (g *Game) WinnerID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winnerID
}

// DurationMinutes reports the match length, rounded up.
func (g *Game) DurationMinutes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.startedAt.IsZero() {
		return 0
	}
	return int(time.Since(g.startedAt).Round(time.Minute) / time.Minute)
}

// SetConnected flips the connectivity flag. Disconnected players stay in
// the match but are skipped by turn advancement.
func (g *Game) SetConnected(playerID string, connected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return
	}
	p.Connected = connected
	if !connected && g.lifecycle.Is(state.Playing) && g.players[g.current] == p {
		// Free the table: a vanished turn holder forfeits whatever was
		// left of the turn, including an unanswered buy decision.
		g.advanceTurn()
	}
}

// ConnectedCount counts players with a live connection.
func (g *Game) ConnectedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, p := range g.players {
		if p.Connected && !p.Bot {
			n++
		}
	}
	return n
}

// --- internal helpers, call with g.mu held ---

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) requireCurrent(playerID string) (*Player, error) {
	if g.lifecycle.Is(state.Ended) {
		return nil, ErrGameEnded
	}
	if !g.lifecycle.Is(state.Playing) {
		return nil, ErrGameNotStarted
	}
	p := g.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if g.players[g.current] != p {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// advance moves the player forward (or backward) by spaces, wrapping at
// BoardSize. Completing a forward wrap credits the pass-go bonus once.
func (g *Game) advance(p *Player, spaces int) (passedGo bool) {
	next := p.Position + spaces
	if next >= BoardSize {
		next -= BoardSize
		passedGo = true
	} else if next < 0 {
		next += BoardSize
	}
	p.Position = next
	if passedGo {
		p.Money += g.rules.PassGoBonus
	}
	return passedGo
}

// jumpTo places the player on an absolute square. A backward jump (target
// below the current position) passes Go and credits the bonus once; a
// forward jump never does.
func (g *Game) jumpTo(p *Player, target int) (passedGo bool) {
	if target < p.Position {
		passedGo = true
		p.Money += g.rules.PassGoBonus
	}
	p.Position = target
	return passedGo
}

// advanceTurn moves the turn pointer to the next connected, non-bankrupt
// player, wrapping, and resets per-turn flags. It ends the match instead
// when at most one non-bankrupt player remains.
func (g *Game) advanceTurn() {
	g.pendingBuy = ""
	if len(g.players) == 0 {
		return
	}
	g.players[g.current].HasRolled = false

	if g.maybeEnd() {
		return
	}

	for i := 1; i <= len(g.players); i++ {
		idx := (g.current + i) % len(g.players)
		if g.players[idx].TakesTurns() {
			g.current = idx
			g.players[idx].HasRolled = false
			return
		}
	}
	// Nobody else can act; keep the pointer where it is.
}

// maybeEnd ends the match when at most one non-bankrupt player remains.
func (g *Game) maybeEnd() bool {
	var last *Player
	active := 0
	for _, p := range g.players {
		if p.Active() {
			active++
			last = p
		}
	}
	if active > 1 {
		return false
	}
	if last != nil {
		g.winnerID = last.ID
	}
	g.lifecycle.ChangeState(state.Ended)
	return true
}

// credit adds money to a player.
func (g *Game) credit(p *Player, amount int) {
	p.Money += amount
}

// debit removes money and runs the bankruptcy check. The balance may go
// transiently negative; liquidation decides whether it stays there.
func (g *Game) debit(p *Player, amount int) *Effect {
	p.Money -= amount
	return g.checkBankruptcy(p)
}

// checkBankruptcy liquidates everything a player owns at mortgage value
// once the balance is negative. A player whose balance stays negative is
// marked bankrupt exactly once and excluded from future turns.
func (g *Game) checkBankruptcy(p *Player) *Effect {
	if p.Money >= 0 || p.Bankrupt {
		return nil
	}
	for id, h := range g.holdings {
		if h.OwnerID != p.ID {
			continue
		}
		prop, ok := g.catalog.Get(id)
		if !ok {
			continue
		}
		if !h.Mortgaged {
			p.Money += prop.Mortgage
		}
		if h.Houses > 0 {
			p.Money += h.Houses * prop.HouseCost / 2
		}
		delete(g.holdings, id)
	}
	if p.Money >= 0 {
		return nil
	}
	p.Bankrupt = true
	return &Effect{Kind: EffectBankruptcy, PlayerID: p.ID}
}

// GiveUpResult reports the fallout of a resignation.
type GiveUpResult struct {
	PlayerID        string
	GameOver        bool
	WinnerID        string
	CurrentPlayerID string
}

// GiveUp removes the player from rotation immediately and releases their
// holdings. The last player standing wins.
func (g *Game) GiveUp(playerID string) (*GiveUpResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if g.lifecycle.Is(state.Ended) {
		return nil, ErrGameEnded
	}

	for id, h := range g.holdings {
		if h.OwnerID == p.ID {
			delete(g.holdings, id)
		}
	}

	idx := -1
	for i, q := range g.players {
		if q == p {
			idx = i
			break
		}
	}
	wasCurrent := idx == g.current
	g.players = append(g.players[:idx], g.players[idx+1:]...)
	if idx < g.current {
		g.current--
	} else if g.current >= len(g.players) {
		g.current = 0
	}

	res := &GiveUpResult{PlayerID: playerID}
	if g.lifecycle.Is(state.Playing) {
		if g.maybeEnd() {
			res.GameOver = true
			res.WinnerID = g.winnerID
		} else if wasCurrent {
			// The departed player held the turn; hand it to whoever is
			// next in rotation and able to act.
			g.pendingBuy = ""
			for i := 0; i < len(g.players); i++ {
				idx := (g.current + i) % len(g.players)
				if g.players[idx].TakesTurns() {
					g.current = idx
					break
				}
			}
			g.players[g.current].HasRolled = false
		}
	}
	if !res.GameOver && g.lifecycle.Is(state.Playing) && len(g.players) > 0 {
		res.CurrentPlayerID = g.players[g.current].ID
	}
	return res, nil
}

// Reset returns the session to a fresh waiting state, dropping all players.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.players = nil
	g.current = 0
	g.holdings = make(map[string]*Holding)
	g.decks = deck.NewStandard(g.rng)
	g.pendingBuy = ""
	g.lastDice = 0
	g.winnerID = ""
	g.startedAt = time.Time{}
	g.lifecycle = state.NewMachine(state.Waiting)
	g.lifecycle.Allow(state.Waiting, state.Playing, func() bool {
		return len(g.players) >= g.rules.MinPlayers && len(g.players) <= g.rules.MaxPlayers
	})
	g.lifecycle.Allow(state.Playing, state.Ended, nil)
	g.lifecycle.Allow(state.Waiting, state.Ended, nil)
}
