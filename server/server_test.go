package server

import (
	"encoding/json"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/monopoly/board"
	"github.com/wfunc/monopoly/bot"
	"github.com/wfunc/monopoly/broadcast"
	"github.com/wfunc/monopoly/config"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/monitor"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/persistence"
	"github.com/wfunc/monopoly/services"
	"github.com/wfunc/monopoly/session"
	"github.com/wfunc/monopoly/timer"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// fakeDB satisfies persistence.Database without a live server.
type fakeDB struct{}

func (fakeDB) SaveGameRecord(*models.GameRecord) error { return nil }
func (fakeDB) UpsertPlayer(string, string) error       { return nil }
func (fakeDB) ApplyGameOutcome(string, bool, int, int) error {
	return nil
}
func (fakeDB) GetPlayerStats(string) (*models.PlayerStats, error) {
	return nil, persistence.ErrRecordNotFound
}
func (fakeDB) GetLeaderboard(int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}
func (fakeDB) Close() error { return nil }

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	mu   sync.Mutex
	sent []*network.Message
}

func (m *MockConnection) Send(msg *network.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}
func (m *MockConnection) Close() error                           { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                   { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)    {}
func (m *MockConnection) ReadMessage() (*network.Message, error) { return nil, nil }

func (m *MockConnection) frames(msgType string) []*network.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*network.Message
	for _, msg := range m.sent {
		if msg.Type == msgType {
			out = append(out, msg)
		}
	}
	return out
}

func (m *MockConnection) lastError(t *testing.T) string {
	t.Helper()
	errs := m.frames(network.MsgTypeError)
	if len(errs) == 0 {
		return ""
	}
	var ev network.ErrorEvent
	if err := json.Unmarshal(errs[len(errs)-1].Data, &ev); err != nil {
		t.Fatalf("Failed to decode error frame: %v", err)
	}
	return ev.Message
}

// The prometheus registry rejects duplicate collectors, so every test in
// this package shares one monitor.
var testMonitor = monitor.NewMonitor("monopoly_server_test")

func testCatalog() *board.Catalog {
	return board.New([]board.Property{
		{ID: "old-road", Name: "Old Road", Kind: board.KindStreet, Group: "brown", Position: 1,
			Price: 60, Mortgage: 30, Rent: []int{2, 10, 30, 90, 160, 250}, HouseCost: 50},
		{ID: "south-station", Name: "South Station", Kind: board.KindStation, Position: 5,
			Price: 200, Mortgage: 100, Rent: []int{25}},
	})
}

// newTestServer wires a registry around mock transport and persistence.
// The RPC listener and the websocket endpoint stay down; tests drive
// dispatch directly.
func newTestServer(t *testing.T) *GameServer {
	t.Helper()
	cfg := &config.Config{
		Game: config.GameConfig{
			StartMoney:  1500,
			PassGoBonus: 200,
			MinPlayers:  2,
			MaxPlayers:  4,
		},
	}
	s := &GameServer{
		cfg:            cfg,
		sessionManager: session.NewManager(),
		history:        services.NewHistoryService(fakeDB{}),
		monitor:        testMonitor,
		catalog:        testCatalog(),
		timers:         timer.NewManager(),
		shutdownChan:   make(chan struct{}),
	}
	s.broadcaster = broadcast.NewSessionBroadcaster(s.sessionManager)
	s.bots = bot.NewScheduler(s.timers, s, time.Hour, time.Hour)
	s.newGame()
	t.Cleanup(s.timers.Stop)
	return s
}

func mustMessage(t *testing.T, msgType string, payload interface{}) *network.Message {
	t.Helper()
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		t.Fatalf("NewMessage(%s) failed: %v", msgType, err)
	}
	return msg
}

func joinPlayer(t *testing.T, s *GameServer, userID string) (*session.Session, *MockConnection) {
	t.Helper()
	conn := &MockConnection{}
	sess := session.NewSession("sess-"+userID, conn)
	s.sessionManager.Add(sess)
	s.dispatch(sess, mustMessage(t, network.MsgTypeJoin, network.JoinRequest{UserID: userID, Name: userID}))
	if !sess.Joined() {
		t.Fatalf("Join of %s failed: %s", userID, conn.lastError(t))
	}
	return sess, conn
}

// stationToBob walks the opening turns so bob ends up owning the station
// with the turn back on alice.
func stationToBob(t *testing.T, s *GameServer, alice, bob *session.Session) {
	t.Helper()
	s.dispatch(alice, mustMessage(t, network.MsgTypeManualRoll, network.ManualRollRequest{Position: 20}))
	s.dispatch(bob, mustMessage(t, network.MsgTypeManualRoll, network.ManualRollRequest{Position: 5}))
	s.dispatch(bob, mustMessage(t, network.MsgTypeBuyProperty, network.PropertyRequest{PropertyID: "south-station"}))
	if got := s.Game().OwnerOf("south-station"); got != "bob" {
		t.Fatalf("Setup: expected bob to own south-station, owner is %q", got)
	}
	if got := s.Game().CurrentPlayerID(); got != "alice" {
		t.Fatalf("Setup: expected the turn back on alice, current is %q", got)
	}
}

func proposedTradeID(t *testing.T, conn *MockConnection) string {
	t.Helper()
	proposals := conn.frames(network.MsgTypeTradeProposed)
	if len(proposals) == 0 {
		t.Fatal("Expected a trade-proposed frame")
	}
	var ev network.TradeProposedEvent
	if err := json.Unmarshal(proposals[len(proposals)-1].Data, &ev); err != nil {
		t.Fatalf("Failed to decode trade-proposed frame: %v", err)
	}
	return ev.TradeID
}

func TestRespondTrade_ProposerCannotAccept(t *testing.T) {
	s := newTestServer(t)
	aliceSess, aliceConn := joinPlayer(t, s, "alice")
	bobSess, _ := joinPlayer(t, s, "bob")
	stationToBob(t, s, aliceSess, bobSess)

	s.dispatch(aliceSess, mustMessage(t, network.MsgTypeProposeTrade, network.TradeRequest{
		From:                 "alice",
		To:                   "bob",
		RequestedPropertyIDs: []string{"south-station"},
		OfferedMoney:         50,
	}))
	tradeID := proposedTradeID(t, aliceConn)

	// alice answers her own proposal with the echoed trade id.
	s.dispatch(aliceSess, mustMessage(t, network.MsgTypeRespondTrade, network.RespondTradeRequest{
		TradeID:      tradeID,
		ResponseType: network.TradeResponseAccept,
	}))

	if got := s.Game().OwnerOf("south-station"); got != "bob" {
		t.Errorf("A self-accepted trade must not settle, owner is %q", got)
	}
	if s.ledger().Len() != 1 {
		t.Error("The negotiation should stay live for the recipient")
	}
	if aliceConn.lastError(t) == "" {
		t.Error("The refused acceptance should earn an error frame")
	}

	// The sender-key fallback must be gated the same way.
	s.dispatch(aliceSess, mustMessage(t, network.MsgTypeRespondTrade, network.RespondTradeRequest{
		From:         "alice",
		To:           "bob",
		ResponseType: network.TradeResponseAccept,
	}))
	if got := s.Game().OwnerOf("south-station"); got != "bob" {
		t.Errorf("A self-accepted trade must not settle via key fallback, owner is %q", got)
	}
}

func TestRespondTrade_RecipientAcceptSettles(t *testing.T) {
	s := newTestServer(t)
	aliceSess, aliceConn := joinPlayer(t, s, "alice")
	bobSess, _ := joinPlayer(t, s, "bob")
	stationToBob(t, s, aliceSess, bobSess)

	aliceBefore, _ := s.Game().Player("alice")
	bobBefore, _ := s.Game().Player("bob")

	s.dispatch(aliceSess, mustMessage(t, network.MsgTypeProposeTrade, network.TradeRequest{
		From:                 "alice",
		To:                   "bob",
		RequestedPropertyIDs: []string{"south-station"},
		OfferedMoney:         50,
	}))
	tradeID := proposedTradeID(t, aliceConn)

	s.dispatch(bobSess, mustMessage(t, network.MsgTypeRespondTrade, network.RespondTradeRequest{
		TradeID:      tradeID,
		ResponseType: network.TradeResponseAccept,
	}))

	if got := s.Game().OwnerOf("south-station"); got != "alice" {
		t.Errorf("Expected the station to move to alice, owner is %q", got)
	}
	alice, _ := s.Game().Player("alice")
	bob, _ := s.Game().Player("bob")
	if alice.Money != aliceBefore.Money-50 {
		t.Errorf("Expected alice to pay 50, balance moved by %d", alice.Money-aliceBefore.Money)
	}
	if bob.Money != bobBefore.Money+50 {
		t.Errorf("Expected bob to receive 50, balance moved by %d", bob.Money-bobBefore.Money)
	}
	if s.ledger().Len() != 0 {
		t.Error("A settled negotiation should leave the ledger")
	}
}

func TestRespondTrade_ProposerDeclineWithdraws(t *testing.T) {
	s := newTestServer(t)
	aliceSess, _ := joinPlayer(t, s, "alice")
	bobSess, bobConn := joinPlayer(t, s, "bob")
	stationToBob(t, s, aliceSess, bobSess)

	s.dispatch(aliceSess, mustMessage(t, network.MsgTypeProposeTrade, network.TradeRequest{
		From:                 "alice",
		To:                   "bob",
		RequestedPropertyIDs: []string{"south-station"},
	}))

	// No trade id: the lookup falls back to the sender key.
	s.dispatch(aliceSess, mustMessage(t, network.MsgTypeRespondTrade, network.RespondTradeRequest{
		From:         "alice",
		To:           "bob",
		ResponseType: network.TradeResponseDecline,
	}))

	if s.ledger().Len() != 0 {
		t.Error("A withdrawn negotiation should leave the ledger")
	}
	if got := s.Game().OwnerOf("south-station"); got != "bob" {
		t.Errorf("A withdrawal must not move property, owner is %q", got)
	}

	settled := bobConn.frames(network.MsgTypeTradeSettled)
	if len(settled) != 1 {
		t.Fatalf("Expected one trade-settled frame for bob, got %d", len(settled))
	}
	var ev network.TradeSettledEvent
	if err := json.Unmarshal(settled[0].Data, &ev); err != nil {
		t.Fatalf("Failed to decode trade-settled frame: %v", err)
	}
	if ev.Accepted {
		t.Error("A withdrawal must settle as not accepted")
	}
}
