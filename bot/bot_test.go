package bot

import (
	"os"
	"testing"
	"time"

	"github.com/wfunc/monopoly/board"
	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/timer"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// MockNotifier records automation callbacks.
type MockNotifier struct {
	rolled      []*game.RollResult
	turnChanges []string
	gameOvers   []string
}

func (m *MockNotifier) BotRolled(g *game.Game, res *game.RollResult) { m.rolled = append(m.rolled, res) }
func (m *MockNotifier) TurnChanged(g *game.Game, currentPlayerID string) {
	m.turnChanges = append(m.turnChanges, currentPlayerID)
}
func (m *MockNotifier) GameOver(g *game.Game, winnerID string) {
	m.gameOvers = append(m.gameOvers, winnerID)
}

func testCatalog() *board.Catalog {
	return board.New([]board.Property{
		{ID: "old-road", Name: "Old Road", Kind: board.KindStreet, Group: "brown", Position: 1,
			Price: 60, Mortgage: 30, Rent: []int{2, 10, 30, 90, 160, 250}, HouseCost: 50},
		{ID: "park-lane", Name: "Park Lane", Kind: board.KindStreet, Group: "navy", Position: 39,
			Price: 1450, Mortgage: 725, Rent: []int{35, 175, 500, 1100, 1300, 1500}, HouseCost: 200},
	})
}

func newBotGame(t *testing.T) *game.Game {
	t.Helper()
	g := game.New(testCatalog(), game.DefaultRules(), 1)
	g.AddBot()
	g.AddBot()
	if err := g.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return g
}

func newTestScheduler(t *testing.T, notifier Notifier) *Scheduler {
	t.Helper()
	timers := timer.NewManager()
	t.Cleanup(timers.Stop)
	// Delays far beyond the test runtime: tasks stay pending until
	// cancelled or invoked directly.
	return NewScheduler(timers, notifier, time.Hour, time.Hour)
}

func TestScheduler_SchedulesOnlyForBots(t *testing.T) {
	s := newTestScheduler(t, &MockNotifier{})

	g := newBotGame(t)
	s.Schedule(g)
	if s.Pending(g) != 1 {
		t.Errorf("Expected 1 pending task for a bot turn, got %d", s.Pending(g))
	}

	human := game.New(testCatalog(), game.DefaultRules(), 1)
	human.AddPlayer("alice", "Alice", false)
	human.AddPlayer("bob", "Bob", false)
	human.Start()
	s.Schedule(human)
	if s.Pending(human) != 0 {
		t.Errorf("Expected no pending tasks for a human turn, got %d", s.Pending(human))
	}
}

func TestScheduler_CancelDropsPendingTasks(t *testing.T) {
	s := newTestScheduler(t, &MockNotifier{})
	g := newBotGame(t)

	s.Schedule(g)
	s.Schedule(g)
	if s.Pending(g) != 2 {
		t.Fatalf("Expected 2 pending tasks, got %d", s.Pending(g))
	}

	s.Cancel(g)
	if s.Pending(g) != 0 {
		t.Errorf("Expected no pending tasks after Cancel, got %d", s.Pending(g))
	}
}

func TestScheduler_TakeTurnRollsAndReports(t *testing.T) {
	notifier := &MockNotifier{}
	s := newTestScheduler(t, notifier)
	g := newBotGame(t)
	botID := g.CurrentPlayerID()

	s.takeTurn(g)

	if len(notifier.rolled) != 1 {
		t.Fatalf("Expected one roll report, got %d", len(notifier.rolled))
	}
	res := notifier.rolled[0]
	if res.PlayerID != botID {
		t.Errorf("Expected the bot %s to roll, got %s", botID, res.PlayerID)
	}
	if res.Die1 < 1 || res.Die1 > 6 || res.Die2 < 1 || res.Die2 > 6 {
		t.Errorf("Dice out of range: %d, %d", res.Die1, res.Die2)
	}
	// The settle step is queued for later.
	if s.Pending(g) != 1 {
		t.Errorf("Expected the settle task to be pending, got %d", s.Pending(g))
	}
}

func TestScheduler_TakeTurnIgnoresEndedGame(t *testing.T) {
	notifier := &MockNotifier{}
	s := newTestScheduler(t, notifier)
	g := newBotGame(t)
	g.Reset()

	s.takeTurn(g)
	if len(notifier.rolled) != 0 {
		t.Errorf("A non-playing game must not be rolled in, got %d reports", len(notifier.rolled))
	}
}

func TestShouldBuy_KeepsReserve(t *testing.T) {
	s := newTestScheduler(t, &MockNotifier{})
	g := newBotGame(t)
	botID := g.CurrentPlayerID()

	// 1500 - 60 leaves far more than the reserve.
	if !s.ShouldBuy(g, botID, "old-road") {
		t.Error("Bot should buy a cheap affordable property")
	}

	// 1500 - 1450 = 50 falls below the reserve.
	if s.ShouldBuy(g, botID, "park-lane") {
		t.Error("Bot must not spend into its reserve")
	}

	if s.ShouldBuy(g, botID, "boardwalk") {
		t.Error("Bot must not buy an unknown property")
	}
}
