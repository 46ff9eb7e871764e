package server

import (
	"encoding/json"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/session"
)

// parsePayload decodes the envelope's data field. A missing payload
// decodes to the zero value so flag-free requests stay valid.
func parsePayload(msg *network.Message, v interface{}) error {
	if len(msg.Data) == 0 {
		return nil
	}
	return json.Unmarshal(msg.Data, v)
}

// handleJoin binds the connection to a player identity and seats them at
// the shared table. Joining a running match only succeeds as a reconnect.
func (s *GameServer) handleJoin(sess *session.Session, msg *network.Message) {
	var req network.JoinRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed join payload")
		return
	}
	if req.UserID == "" || req.Name == "" {
		s.sendError(sess, "userId and name are required")
		return
	}
	if sess.Joined() {
		s.sendError(sess, "already joined")
		return
	}
	if other, ok := s.sessionManager.GetByPlayerID(req.UserID); ok && other.GetID() != sess.GetID() {
		s.sendError(sess, "player already connected")
		return
	}

	g := s.Game()
	if err := g.AddPlayer(req.UserID, req.Name, req.Bot); err != nil {
		s.sendError(sess, err.Error())
		return
	}
	sess.BindPlayer(req.UserID)
	g.SetConnected(req.UserID, true)
	if !req.Bot {
		s.history.EnsurePlayer(req.UserID, req.Name)
	}
	logger.Log.Infof("Player %s (%s) joined game %s", req.UserID, req.Name, s.currentGameID())

	s.send(sess, network.MsgTypeJoined, network.JoinedEvent{
		SessionID: sess.GetID(),
		PlayerID:  req.UserID,
	})
	s.broadcastState()
	s.maybeStart()
}

// maybeStart starts the waiting match as soon as the player count is in
// the allowed window.
func (s *GameServer) maybeStart() {
	g := s.Game()
	if !g.CanStart() {
		return
	}
	if err := g.Start(); err != nil {
		return
	}
	s.monitor.GameStarted()
	logger.Log.Infof("Game %s started with %d players", s.currentGameID(), len(g.PlayerSnapshots()))

	s.broadcastEvent(network.MsgTypeGameStart, nil)
	s.broadcastState()
	s.announceCurrent(g.CurrentPlayerID())
	s.bots.Schedule(g)
}

func (s *GameServer) handleRoll(sess *session.Session) {
	res, err := s.Game().Roll(sess.PlayerID())
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastRoll(res)
}

func (s *GameServer) handleManualRoll(sess *session.Session, msg *network.Message) {
	var req network.ManualRollRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed manual-roll payload")
		return
	}
	res, err := s.Game().ManualRoll(sess.PlayerID(), req.Position)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastRoll(res)
}

// emitRoll fans out the frames of one roll result: the dice, the landing
// effects and the refreshed state.
func (s *GameServer) emitRoll(res *game.RollResult) {
	s.broadcastEvent(network.MsgTypeDiceRoll, network.DiceRollEvent{
		PlayerID: res.PlayerID,
		Die1:     res.Die1,
		Die2:     res.Die2,
		Position: res.Position,
		Doubles:  res.Doubles,
		PassedGo: res.PassedGo,
	})
	s.broadcastEffects(res.Effects)
	s.broadcastState()
}

// broadcastRoll additionally acts on whatever turn handover the roll
// caused. Used for human rolls; bot rolls are settled by the scheduler.
func (s *GameServer) broadcastRoll(res *game.RollResult) {
	s.emitRoll(res)

	if res.GameOver {
		s.finishGame(res.WinnerID)
		return
	}
	if res.TurnAdvanced {
		s.announceCurrent(res.CurrentPlayerID)
		s.bots.Schedule(s.Game())
	}
}

// broadcastEffects translates domain effects into outbound frames. Jail
// moves carry no dedicated frame; clients read them off the state.
func (s *GameServer) broadcastEffects(effects []game.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case game.EffectRentPaid:
			s.broadcastEvent(network.MsgTypeRentPaid, network.RentPaidEvent{
				PlayerID:   e.PlayerID,
				OwnerID:    e.OwnerID,
				PropertyID: e.PropertyID,
				Amount:     e.Amount,
			})
		case game.EffectTaxPaid:
			s.broadcastEvent(network.MsgTypeTaxPaid, network.TaxPaidEvent{
				PlayerID: e.PlayerID,
				Amount:   e.Amount,
				TaxType:  e.TaxType,
			})
		case game.EffectCardDrawn:
			s.broadcastEvent(network.MsgTypeCardDrawn, network.CardDrawnEvent{
				PlayerID: e.PlayerID,
				CardType: e.CardType,
				Card:     e.Card,
			})
		case game.EffectBankruptcy:
			s.broadcastEvent(network.MsgTypeBankruptcy, network.BankruptcyEvent{
				PlayerID: e.PlayerID,
			})
		}
	}
}

func (s *GameServer) handleBuyProperty(sess *session.Session, msg *network.Message) {
	var req network.PropertyRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed buy-property payload")
		return
	}
	res, err := s.Game().Buy(sess.PlayerID(), req.PropertyID)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastState()
	if res.GameOver {
		s.finishGame(res.WinnerID)
		return
	}
	if res.TurnAdvanced {
		s.announceCurrent(res.CurrentPlayerID)
		s.bots.Schedule(s.Game())
	}
}

func (s *GameServer) handleSellProperty(sess *session.Session, msg *network.Message) {
	var req network.PropertyRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed sell-property payload")
		return
	}
	if err := s.Game().Sell(sess.PlayerID(), req.PropertyID); err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastState()
}

func (s *GameServer) handleMortgage(sess *session.Session, msg *network.Message, mortgage bool) {
	var req network.PropertyRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed mortgage payload")
		return
	}
	var err error
	if mortgage {
		err = s.Game().MortgageProperty(sess.PlayerID(), req.PropertyID)
	} else {
		err = s.Game().UnmortgageProperty(sess.PlayerID(), req.PropertyID)
	}
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastState()
}

func (s *GameServer) handleBuildHouse(sess *session.Session, msg *network.Message) {
	var req network.PropertyRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed build-house payload")
		return
	}
	if err := s.Game().BuildHouse(sess.PlayerID(), req.PropertyID); err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastState()
}

func (s *GameServer) handleEndTurn(sess *session.Session) {
	res, err := s.Game().EndTurn(sess.PlayerID())
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastState()
	if res.GameOver {
		s.finishGame(res.WinnerID)
		return
	}
	s.announceCurrent(res.CurrentPlayerID)
	s.bots.Schedule(s.Game())
}

func (s *GameServer) handleGiveUp(sess *session.Session, msg *network.Message) {
	var req network.GiveUpRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed give-up payload")
		return
	}
	playerID := sess.PlayerID()
	if req.UserID != "" && req.UserID != playerID {
		s.sendError(sess, "cannot resign another player")
		return
	}

	res, err := s.Game().GiveUp(playerID)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.ledger().ClearParties(playerID, playerID)
	logger.Log.Infof("Player %s gave up in game %s", playerID, s.currentGameID())

	s.broadcastEvent(network.MsgTypePlayerGaveUp, network.GiveUpEvent{PlayerID: playerID})
	s.broadcastState()
	if res.GameOver {
		s.finishGame(res.WinnerID)
		return
	}
	if res.CurrentPlayerID != "" {
		s.announceCurrent(res.CurrentPlayerID)
		s.bots.Schedule(s.Game())
	}
}

func (s *GameServer) handlePayRent(sess *session.Session, msg *network.Message) {
	var req network.PayRentRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed pay-rent payload")
		return
	}
	playerID := sess.PlayerID()
	if req.PlayerID != "" && req.PlayerID != playerID {
		s.sendError(sess, "cannot pay rent for another player")
		return
	}

	effect, err := s.Game().PayRent(playerID, req.PropertyID)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastEffects([]game.Effect{*effect})
	s.broadcastState()
}

func (s *GameServer) handlePayTax(sess *session.Session, msg *network.Message) {
	var req network.PayTaxRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed pay-tax payload")
		return
	}
	playerID := sess.PlayerID()
	if req.PlayerID != "" && req.PlayerID != playerID {
		s.sendError(sess, "cannot pay tax for another player")
		return
	}

	effects, err := s.Game().PayTax(playerID, req.Amount, req.TaxType)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastEffects(effects)
	s.broadcastState()
}

func (s *GameServer) handleCheat(sess *session.Session, msg *network.Message) {
	var req network.CheatRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed cheat payload")
		return
	}
	effects, err := s.Game().Cheat(sess.PlayerID(), req.Code)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastEffects(effects)
	s.broadcastState()
	// addbot can make a waiting table startable.
	s.maybeStart()
}

func (s *GameServer) handlePullCard(sess *session.Session, msg *network.Message) {
	var req network.PullCardRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed pull-card payload")
		return
	}
	playerID := sess.PlayerID()
	if req.PlayerID != "" && req.PlayerID != playerID {
		s.sendError(sess, "cannot pull a card for another player")
		return
	}

	effects, err := s.Game().PullCard(playerID, req.CardType)
	if err != nil {
		s.sendError(sess, err.Error())
		return
	}
	s.broadcastEffects(effects)
	s.broadcastState()
}

// handleProposeTrade covers both the initial proposal and a counter-offer;
// a counter is simply a fresh negotiation with the roles swapped.
func (s *GameServer) handleProposeTrade(sess *session.Session, msg *network.Message) {
	var req network.TradeRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed trade payload")
		return
	}
	playerID := sess.PlayerID()
	if req.From != "" && req.From != playerID {
		s.sendError(sess, "cannot trade on behalf of another player")
		return
	}
	if _, ok := s.Game().Player(req.To); !ok {
		s.sendError(sess, "unknown trade partner")
		return
	}
	if req.To == playerID {
		s.sendError(sess, "cannot trade with yourself")
		return
	}

	t := s.ledger().Propose(playerID, req.To, req.OfferedPropertyIDs, req.RequestedPropertyIDs, req.OfferedMoney)
	event := network.TradeProposedEvent{
		TradeID:              t.ID,
		From:                 t.From,
		To:                   t.To,
		OfferedPropertyIDs:   t.OfferedPropertyIDs,
		RequestedPropertyIDs: t.RequestedPropertyIDs,
		OfferedMoney:         t.OfferedMoney,
	}
	s.sendToPlayer(t.To, network.MsgTypeTradeProposed, event)
	s.send(sess, network.MsgTypeTradeProposed, event)
}

func (s *GameServer) handleRespondTrade(sess *session.Session, msg *network.Message) {
	var req network.RespondTradeRequest
	if err := parsePayload(msg, &req); err != nil {
		s.sendError(sess, "malformed trade response payload")
		return
	}
	playerID := sess.PlayerID()

	ledger := s.ledger()
	t, err := ledger.Resolve(req.TradeID, playerID, req.To)
	if err != nil {
		s.sendError(sess, "trade not found")
		return
	}
	if t.To != playerID && t.From != playerID {
		s.sendError(sess, "trade does not involve you")
		return
	}

	accepted := req.ResponseType == network.TradeResponseAccept
	if accepted && playerID != t.To {
		// Acceptance needs the receiving side's consent; the proposer can
		// only withdraw or decline.
		s.sendError(sess, "only the trade recipient can accept")
		return
	}
	if accepted {
		if err := s.Game().ApplyTrade(t.From, t.To, t.OfferedPropertyIDs, t.RequestedPropertyIDs, t.OfferedMoney); err != nil {
			ledger.Clear(t)
			s.sendError(sess, err.Error())
			return
		}
	}
	ledger.Clear(t)

	settled := network.TradeSettledEvent{TradeID: t.ID, Accepted: accepted}
	s.sendToPlayer(t.From, network.MsgTypeTradeSettled, settled)
	s.sendToPlayer(t.To, network.MsgTypeTradeSettled, settled)
	if accepted {
		s.broadcastState()
	}
}

func (s *GameServer) sendToPlayer(playerID, msgType string, payload interface{}) {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		logger.Log.Errorf("Failed to encode %s: %v", msgType, err)
		return
	}
	if err := s.broadcaster.SendToPlayer(playerID, msg); err != nil {
		logger.Log.Warnf("Failed to deliver %s to player %s: %v", msgType, playerID, err)
	}
}

// finishGame runs the once-per-match teardown: history, metrics, the
// game-over frame, then a fresh waiting session. Players re-join for the
// next match.
func (s *GameServer) finishGame(winnerID string) {
	s.gameMu.Lock()
	if s.finished {
		s.gameMu.Unlock()
		return
	}
	s.finished = true
	g := s.game
	gameID := s.gameID
	s.gameMu.Unlock()

	s.bots.Cancel(g)
	s.monitor.GameFinished()
	logger.Log.Infof("Game %s over, winner: %s", gameID, winnerID)

	players := g.PlayerSnapshots()
	infos := make([]models.PlayerInfo, 0, len(players))
	defeated := 0
	for _, p := range players {
		outcome := "lose"
		if p.ID == winnerID {
			outcome = "win"
		} else {
			defeated++
		}
		infos = append(infos, models.PlayerInfo{
			UserID:  p.ID,
			Name:    p.Name,
			Outcome: outcome,
			Money:   p.Money,
			Bot:     p.Bot,
		})
	}
	s.history.RecordGameEnd(gameID, infos, g.DurationMinutes(), winnerID, defeated)

	s.broadcastEvent(network.MsgTypeGameOver, network.GameOverEvent{WinnerID: winnerID})
	s.broadcastState()
	s.newGame()
}

// --- bot.Notifier ---

// BotRolled only emits frames; the scheduler settles the handover itself
// after the step delay.
func (s *GameServer) BotRolled(g *game.Game, res *game.RollResult) {
	s.emitRoll(res)
}

func (s *GameServer) TurnChanged(g *game.Game, currentPlayerID string) {
	s.broadcastState()
	s.announceCurrent(currentPlayerID)
}

func (s *GameServer) GameOver(g *game.Game, winnerID string) {
	s.finishGame(winnerID)
}
