// Package trade keeps the pending-negotiation ledger. Settlement itself
// runs inside the game session so that property and money move atomically.
package trade

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("trade not found")

// Trade is one live negotiation. Every proposal gets its own id; a
// counter-offer is a fresh Trade with sender and receiver swapped.
type Trade struct {
	ID                   string
	From                 string
	To                   string
	OfferedPropertyIDs   []string
	RequestedPropertyIDs []string
	OfferedMoney         int
}

// Ledger stores at most one live negotiation per receiving player. A new
// proposal for the same receiver overwrites the previous one; nothing is
// queued.
type Ledger struct {
	mu         sync.RWMutex
	byReceiver map[string]*Trade
}

func NewLedger() *Ledger {
	return &Ledger{byReceiver: make(map[string]*Trade)}
}

// Propose records a negotiation keyed by the receiving player and returns
// it with its assigned id.
func (l *Ledger) Propose(from, to string, offered, requested []string, money int) *Trade {
	if money < 0 {
		money = 0
	}
	t := &Trade{
		ID:                   uuid.New().String(),
		From:                 from,
		To:                   to,
		OfferedPropertyIDs:   offered,
		RequestedPropertyIDs: requested,
		OfferedMoney:         money,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.byReceiver[to] = t
	return t
}

// Get returns the live negotiation addressed to the receiver.
func (l *Ledger) Get(receiver string) (*Trade, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.byReceiver[receiver]
	return t, ok
}

// Resolve locates the negotiation a response refers to. The trade id wins
// when the client sent one; otherwise the declared receiver key is tried
// first and the declared sender key second, because a counter-offer
// inverts the roles without re-correlating.
func (l *Ledger) Resolve(tradeID, responder, counterparty string) (*Trade, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if tradeID != "" {
		for _, t := range l.byReceiver {
			if t.ID == tradeID {
				return t, nil
			}
		}
		return nil, ErrNotFound
	}
	if t, ok := l.byReceiver[responder]; ok {
		return t, nil
	}
	if t, ok := l.byReceiver[counterparty]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

// Clear drops both parties' keyed entries after settlement, whatever the
// outcome was.
func (l *Ledger) Clear(t *Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.byReceiver[t.To]; ok && cur.ID == t.ID {
		delete(l.byReceiver, t.To)
	}
	if cur, ok := l.byReceiver[t.From]; ok && cur.ID == t.ID {
		delete(l.byReceiver, t.From)
	}
}

// ClearParties removes any live entries keyed by either player, used when
// one side leaves the match.
func (l *Ledger) ClearParties(a, b string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byReceiver, a)
	delete(l.byReceiver, b)
}

// Len reports the number of live negotiations.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byReceiver)
}
