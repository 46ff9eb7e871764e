package network

// 客户端 -> 服务端
const (
	MsgTypeJoin         = "join"
	MsgTypeRoll         = "roll"
	MsgTypeManualRoll   = "manual-roll"
	MsgTypeBuyProperty  = "buy-property"
	MsgTypeSellProperty = "sell-property"
	MsgTypeMortgage     = "mortgage"
	MsgTypeUnmortgage   = "unmortgage"
	MsgTypeBuildHouse   = "build-house"
	MsgTypeEndTurn      = "end-turn"
	MsgTypeGiveUp       = "give-up"
	MsgTypePayRent      = "pay-rent"
	MsgTypePayTax       = "pay-tax"
	MsgTypeCheat        = "cheat"
	MsgTypePullCard     = "pull-card"
	MsgTypeProposeTrade = "propose-trade"
	MsgTypeCounterTrade = "counter-trade"
	MsgTypeRespondTrade = "respond-trade"
)

// 服务端 -> 客户端
const (
	MsgTypeJoined        = "joined"
	MsgTypeGameState     = "game-state"
	MsgTypeGameStart     = "game-start"
	MsgTypeGameOver      = "game-over"
	MsgTypeCurrentPlayer = "current-player"
	MsgTypeDiceRoll      = "dice-roll"
	MsgTypeCardDrawn     = "card-drawn"
	MsgTypeRentPaid      = "rent-paid"
	MsgTypeTaxPaid       = "tax-paid"
	MsgTypeBankruptcy    = "bankruptcy"
	MsgTypePlayerGaveUp  = "player-gave-up"
	MsgTypeTradeProposed = "trade-proposed"
	MsgTypeTradeSettled  = "trade-settled"
	MsgTypeError         = "error"
)

// Trade response kinds carried by RespondTradeRequest.ResponseType.
const (
	TradeResponseAccept  = "ACCEPT"
	TradeResponseDecline = "DECLINE"
)

// --- inbound payloads ---

type JoinRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Bot    bool   `json:"bot,omitempty"`
}

type ManualRollRequest struct {
	Position int `json:"position"`
}

type PropertyRequest struct {
	PropertyID string `json:"propertyId"`
}

type GiveUpRequest struct {
	UserID string `json:"userId"`
}

type PayRentRequest struct {
	PlayerID   string `json:"playerId"`
	PropertyID string `json:"propertyId"`
}

type PayTaxRequest struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	TaxType  string `json:"taxType"`
}

type CheatRequest struct {
	Code string `json:"code"`
}

type PullCardRequest struct {
	PlayerID string `json:"playerId"`
	CardType string `json:"cardType"`
}

type TradeRequest struct {
	From                 string   `json:"from"`
	To                   string   `json:"to"`
	OfferedPropertyIDs   []string `json:"offeredPropertyIds"`
	RequestedPropertyIDs []string `json:"requestedPropertyIds"`
	OfferedMoney         int      `json:"offeredMoney"`
}

type RespondTradeRequest struct {
	TradeID            string   `json:"tradeId,omitempty"`
	From               string   `json:"from"`
	To                 string   `json:"to"`
	ResponseType       string   `json:"responseType"`
	CounterPropertyIDs []string `json:"counterPropertyIds,omitempty"`
	CounterMoney       int      `json:"counterMoney,omitempty"`
}

// --- outbound payloads ---

type JoinedEvent struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
}

type CurrentPlayerEvent struct {
	PlayerID string `json:"playerId"`
}

type DiceRollEvent struct {
	PlayerID string `json:"playerId"`
	Die1     int    `json:"die1"`
	Die2     int    `json:"die2"`
	Position int    `json:"position"`
	Doubles  bool   `json:"doubles"`
	PassedGo bool   `json:"passedGo"`
}

type CardDrawnEvent struct {
	PlayerID string      `json:"playerId"`
	CardType string      `json:"cardType"`
	Card     interface{} `json:"card"`
}

type RentPaidEvent struct {
	PlayerID   string `json:"playerId"`
	OwnerID    string `json:"ownerId"`
	PropertyID string `json:"propertyId"`
	Amount     int    `json:"amount"`
}

type TaxPaidEvent struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	TaxType  string `json:"taxType"`
}

type BankruptcyEvent struct {
	PlayerID string `json:"playerId"`
}

type GiveUpEvent struct {
	PlayerID string `json:"playerId"`
}

type TradeProposedEvent struct {
	TradeID              string   `json:"tradeId"`
	From                 string   `json:"from"`
	To                   string   `json:"to"`
	OfferedPropertyIDs   []string `json:"offeredPropertyIds"`
	RequestedPropertyIDs []string `json:"requestedPropertyIds"`
	OfferedMoney         int      `json:"offeredMoney"`
}

type TradeSettledEvent struct {
	TradeID  string `json:"tradeId"`
	Accepted bool   `json:"accepted"`
}

type GameOverEvent struct {
	WinnerID string `json:"winnerId"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}
