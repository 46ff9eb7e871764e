// Package deck implements the per-category card piles: a shuffled deck and
// a discard pile that is reshuffled into a fresh deck when the deck runs dry.
package deck

import (
	"math/rand"
	"sync"
)

// Card categories. Every category owns an independent deck/discard pair.
const (
	CategoryChance = "chance"
	CategoryChest  = "chest"
)

// Action is what a drawn card does to the drawer.
type Action string

const (
	ActionGetMoney Action = "get-money"
	ActionPay      Action = "pay"
	ActionMove     Action = "move"
)

// Card carries the action variant payload. For ActionMove exactly one of
// TargetField (absolute, -1 when unused) and Spaces (relative) is set.
// FromOthers/ToOthers turn a money card into an all-other-players transfer.
type Card struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Action      Action `json:"action"`
	Amount      int    `json:"amount,omitempty"`
	TargetField int    `json:"targetField,omitempty"`
	Spaces      int    `json:"spaces,omitempty"`
	FromOthers  bool   `json:"fromOthers,omitempty"`
	ToOthers    bool   `json:"toOthers,omitempty"`
}

type pile struct {
	deck     []Card
	discards []Card
}

// Decks holds one shuffled deck plus discard pile per category.
type Decks struct {
	mu    sync.Mutex
	rng   *rand.Rand
	piles map[string]*pile
}

// New shuffles the full card list of every category into its deck.
// Discard piles start empty.
func New(cards map[string][]Card, rng *rand.Rand) *Decks {
	d := &Decks{
		rng:   rng,
		piles: make(map[string]*pile, len(cards)),
	}
	for category, list := range cards {
		deck := make([]Card, len(list))
		copy(deck, list)
		d.shuffle(deck)
		d.piles[category] = &pile{deck: deck}
	}
	return d
}

// NewStandard builds the default chance/chest decks.
func NewStandard(rng *rand.Rand) *Decks {
	return New(map[string][]Card{
		CategoryChance: standardChance(),
		CategoryChest:  standardChest(),
	}, rng)
}

// Draw pops the top card of the category's deck, reshuffling the discard
// pile into a fresh deck first when the deck is empty. The drawn card is
// appended to the category's discard pile.
func (d *Decks) Draw(category string) (Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.piles[category]
	if !ok {
		return Card{}, false
	}
	if len(p.deck) == 0 {
		if len(p.discards) == 0 {
			return Card{}, false
		}
		p.deck = p.discards
		p.discards = nil
		d.shuffle(p.deck)
	}

	card := p.deck[len(p.deck)-1]
	p.deck = p.deck[:len(p.deck)-1]
	p.discards = append(p.discards, card)
	return card, true
}

// Remaining reports how many cards are left in the category's deck.
func (d *Decks) Remaining(category string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.piles[category]; ok {
		return len(p.deck)
	}
	return 0
}

// Discarded reports the size of the category's discard pile.
func (d *Decks) Discarded(category string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.piles[category]; ok {
		return len(p.discards)
	}
	return 0
}

func (d *Decks) shuffle(cards []Card) {
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
