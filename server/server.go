package server

import (
	"net/http"
	netrpc "net/rpc"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/monopoly/board"
	"github.com/wfunc/monopoly/bot"
	"github.com/wfunc/monopoly/broadcast"
	"github.com/wfunc/monopoly/config"
	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/monitor"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/persistence"
	monopolyrpc "github.com/wfunc/monopoly/rpc"
	"github.com/wfunc/monopoly/services"
	"github.com/wfunc/monopoly/session"
	"github.com/wfunc/monopoly/state"
	"github.com/wfunc/monopoly/timer"
	"github.com/wfunc/monopoly/trade"
)

// GameServer is the connection registry: it owns the session map, parses
// inbound frames, dispatches them to the game subsystems and fans results
// back out. One goroutine per connection; the game session serializes all
// mutations behind its own lock.
type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	history        *services.HistoryService
	rpcServer      *monopolyrpc.Server
	monitor        *monitor.Monitor
	catalog        *board.Catalog
	trades         *trade.Ledger
	timers         *timer.Manager
	bots           *bot.Scheduler

	gameMu   sync.Mutex
	game     *game.Game
	gameID   string
	finished bool

	shutdownChan chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database, catalog *board.Catalog) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		sessionManager: session.NewManager(),
		history:        services.NewHistoryService(db),
		monitor:        monitor.NewMonitor("monopoly"),
		catalog:        catalog,
		trades:         trade.NewLedger(),
		timers:         timer.NewManager(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.broadcaster = broadcast.NewSessionBroadcaster(s.sessionManager)
	s.bots = bot.NewScheduler(s.timers, s, cfg.Game.BotDelay(), cfg.Game.BotStepDelay())
	s.newGame()

	rpcServer, err := monopolyrpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	if err := netrpc.Register(monopolyrpc.NewStatsService(s.history)); err != nil {
		logger.Log.Fatalf("Failed to register stats service: %v", err)
	}

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.timers.Stop()
}

// Game returns the live game session.
func (s *GameServer) Game() *game.Game {
	s.gameMu.Lock()
	defer s.gameMu.Unlock()
	return s.game
}

// ledger returns the negotiation ledger bound to the live game.
func (s *GameServer) ledger() *trade.Ledger {
	s.gameMu.Lock()
	defer s.gameMu.Unlock()
	return s.trades
}

func (s *GameServer) currentGameID() string {
	s.gameMu.Lock()
	defer s.gameMu.Unlock()
	return s.gameID
}

// newGame replaces the session with a fresh waiting one.
func (s *GameServer) newGame() {
	s.gameMu.Lock()
	defer s.gameMu.Unlock()
	rules := game.Rules{
		StartMoney:  s.cfg.Game.StartMoney,
		PassGoBonus: s.cfg.Game.PassGoBonus,
		MinPlayers:  s.cfg.Game.MinPlayers,
		MaxPlayers:  s.cfg.Game.MaxPlayers,
		JailTurns:   3,
	}
	s.game = game.New(s.catalog, rules, time.Now().UnixNano())
	s.gameID = uuid.New().String()
	s.trades = trade.NewLedger()
	s.finished = false
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
		s.handleDisconnect(sess)
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			msg, err := wsConn.ReadMessage()
			if err != nil {
				return
			}
			start := time.Now()
			s.monitor.IncMessagesReceived()
			s.dispatch(sess, msg)
			s.monitor.ObserveMessageLatency(time.Since(start))
		}
	}
}

// handleDisconnect marks the player disconnected but keeps them in the
// match; the session is only torn down when nobody is left.
func (s *GameServer) handleDisconnect(sess *session.Session) {
	playerID := sess.PlayerID()
	if playerID == "" {
		return
	}
	g := s.Game()
	g.SetConnected(playerID, false)

	if g.ConnectedCount() == 0 {
		logger.Log.Infof("All players disconnected, discarding game %s", s.currentGameID())
		s.bots.Cancel(g)
		if g.Status() == state.Playing {
			s.monitor.GameFinished()
		}
		s.newGame()
		return
	}
	s.broadcastState()
	s.announceCurrent(g.CurrentPlayerID())
	s.bots.Schedule(g)
}

// dispatch routes one inbound frame. Gameplay frames before join earn a
// fixed error; handler panics degrade to a generic server error for this
// connection only.
func (s *GameServer) dispatch(sess *session.Session, msg *network.Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("Recovered from panic handling %q: %v", msg.Type, r)
			s.sendError(sess, "server error")
		}
	}()

	if !sess.Joined() && msg.Type != network.MsgTypeJoin {
		s.sendError(sess, "you must join the game first")
		return
	}

	switch msg.Type {
	case network.MsgTypeJoin:
		s.handleJoin(sess, msg)
	case network.MsgTypeRoll:
		s.handleRoll(sess)
	case network.MsgTypeManualRoll:
		s.handleManualRoll(sess, msg)
	case network.MsgTypeBuyProperty:
		s.handleBuyProperty(sess, msg)
	case network.MsgTypeSellProperty:
		s.handleSellProperty(sess, msg)
	case network.MsgTypeMortgage:
		s.handleMortgage(sess, msg, true)
	case network.MsgTypeUnmortgage:
		s.handleMortgage(sess, msg, false)
	case network.MsgTypeBuildHouse:
		s.handleBuildHouse(sess, msg)
	case network.MsgTypeEndTurn:
		s.handleEndTurn(sess)
	case network.MsgTypeGiveUp:
		s.handleGiveUp(sess, msg)
	case network.MsgTypePayRent:
		s.handlePayRent(sess, msg)
	case network.MsgTypePayTax:
		s.handlePayTax(sess, msg)
	case network.MsgTypeCheat:
		s.handleCheat(sess, msg)
	case network.MsgTypePullCard:
		s.handlePullCard(sess, msg)
	case network.MsgTypeProposeTrade, network.MsgTypeCounterTrade:
		s.handleProposeTrade(sess, msg)
	case network.MsgTypeRespondTrade:
		s.handleRespondTrade(sess, msg)
	default:
		s.sendError(sess, "unknown message type")
	}
}

// --- outbound helpers; never called while a game lock is held ---

func (s *GameServer) send(sess *session.Session, msgType string, payload interface{}) {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		logger.Log.Errorf("Failed to encode %s: %v", msgType, err)
		return
	}
	if err := sess.Send(msg); err != nil {
		logger.Log.Warnf("Failed to send %s to session %s: %v", msgType, sess.GetID(), err)
	}
}

func (s *GameServer) sendError(sess *session.Session, text string) {
	s.send(sess, network.MsgTypeError, network.ErrorEvent{Message: text})
}

func (s *GameServer) broadcastEvent(msgType string, payload interface{}) {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		logger.Log.Errorf("Failed to encode %s: %v", msgType, err)
		return
	}
	s.broadcaster.BroadcastToAll(msg)
}

func (s *GameServer) broadcastState() {
	s.broadcastEvent(network.MsgTypeGameState, s.Game().Snapshot())
}

func (s *GameServer) announceCurrent(playerID string) {
	if playerID == "" {
		return
	}
	s.broadcastEvent(network.MsgTypeCurrentPlayer, network.CurrentPlayerEvent{PlayerID: playerID})
}
