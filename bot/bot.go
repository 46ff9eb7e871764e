// Package bot drives automated turns. Turns are single-shot delayed tasks
// on the shared timer manager, cancellable when the match ends; a fired
// task re-checks the world before touching it, so stale schedules no-op.
package bot

import (
	"sync"
	"time"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/state"
	"github.com/wfunc/monopoly/timer"
)

// moneyReserve is what a bot keeps in hand instead of spending on property.
const moneyReserve = 100

// Notifier receives the results of automated play, outside any game lock.
type Notifier interface {
	BotRolled(g *game.Game, res *game.RollResult)
	TurnChanged(g *game.Game, currentPlayerID string)
	GameOver(g *game.Game, winnerID string)
}

// Scheduler owns the pending automated turns.
type Scheduler struct {
	timers    *timer.Manager
	notifier  Notifier
	delay     time.Duration
	stepDelay time.Duration

	mu      sync.Mutex
	pending map[*game.Game][]int64
}

func NewScheduler(timers *timer.Manager, notifier Notifier, delay, stepDelay time.Duration) *Scheduler {
	return &Scheduler{
		timers:    timers,
		notifier:  notifier,
		delay:     delay,
		stepDelay: stepDelay,
		pending:   make(map[*game.Game][]int64),
	}
}

// Schedule queues one automated turn if the current player is a bot. The
// delay lets broadcasts from the triggering action settle first.
func (s *Scheduler) Schedule(g *game.Game) {
	if !g.CurrentPlayerIsBot() {
		return
	}
	s.after(g, s.delay, func() { s.takeTurn(g) })
}

// Cancel suppresses every scheduled continuation for the game. Call on
// game end so a late timer never re-enters turn logic.
func (s *Scheduler) Cancel(g *game.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.pending[g] {
		s.timers.Cancel(id)
	}
	delete(s.pending, g)
}

// Pending reports the number of scheduled tasks for the game.
func (s *Scheduler) Pending(g *game.Game) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[g])
}

func (s *Scheduler) after(g *game.Game, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	id = s.timers.Schedule(delay, 0, func() {
		s.forget(g, id)
		defer s.recovered()
		fn()
	})
	s.pending[g] = append(s.pending[g], id)
}

func (s *Scheduler) forget(g *game.Game, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.pending[g]
	for i, v := range ids {
		if v == id {
			s.pending[g] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

// recovered keeps automation faults away from the scheduler and every
// other connection.
func (s *Scheduler) recovered() {
	if r := recover(); r != nil {
		logger.Log.Errorf("Recovered from bot turn panic: %v", r)
	}
}

// takeTurn plays one bot turn: roll, broadcast, then after a second delay
// resolve the buy decision and hand the turn over.
func (s *Scheduler) takeTurn(g *game.Game) {
	if g.Status() != state.Playing {
		return
	}
	botID := g.CurrentPlayerID()
	p, ok := g.Player(botID)
	if !ok || !p.Bot {
		return // a human took over or the table changed under us
	}

	res, err := g.Roll(botID)
	if err != nil {
		logger.Log.Warnf("Bot %s could not roll: %v", botID, err)
		return
	}
	s.notifier.BotRolled(g, res)

	s.after(g, s.stepDelay, func() { s.settleTurn(g, botID, res) })
}

func (s *Scheduler) settleTurn(g *game.Game, botID string, res *game.RollResult) {
	if g.Status() == state.Ended {
		s.notifier.GameOver(g, g.WinnerID())
		return
	}

	if res.AwaitingBuy != "" {
		s.decideBuy(g, botID, res.AwaitingBuy, res.Doubles)
	}
	if g.Status() == state.Ended {
		s.notifier.GameOver(g, g.WinnerID())
		return
	}

	if res.Doubles && g.CurrentPlayerID() == botID {
		// Extra roll earned; play it after the usual delay.
		s.after(g, s.delay, func() { s.takeTurn(g) })
		return
	}

	current := g.CurrentPlayerID()
	s.notifier.TurnChanged(g, current)
	s.Schedule(g)
}

// decideBuy applies the same purchase contract humans use.
func (s *Scheduler) decideBuy(g *game.Game, botID, propertyID string, doubles bool) {
	if s.ShouldBuy(g, botID, propertyID) {
		if _, err := g.Buy(botID, propertyID); err != nil {
			logger.Log.Warnf("Bot %s failed to buy %s: %v", botID, propertyID, err)
		}
	}
	// On a double the bot keeps the turn for its extra roll.
	if !doubles && g.CurrentPlayerID() == botID {
		if _, err := g.EndTurn(botID); err != nil {
			logger.Log.Warnf("Bot %s failed to end turn: %v", botID, err)
		}
	}
}

// ShouldBuy is the bot's buy policy: buy whenever the purchase is valid
// and leaves a cash reserve.
func (s *Scheduler) ShouldBuy(g *game.Game, botID, propertyID string) bool {
	if !g.CanBuy(botID, propertyID) {
		return false
	}
	p, ok := g.Player(botID)
	if !ok {
		return false
	}
	prop, ok := g.Catalog().Get(propertyID)
	if !ok {
		return false
	}
	return p.Money-prop.Price >= moneyReserve
}
