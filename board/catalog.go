// Package board holds the read-only property catalog. Runtime ownership
// state lives in the game session, not here.
package board

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind is the closed set of property variants.
type Kind string

const (
	KindStreet  Kind = "street"
	KindStation Kind = "station"
	KindUtility Kind = "utility"
)

// Property is one catalog entry. Rent parameters are variant specific:
// streets use the Rent tier table indexed by house count (0..5, 5 = hotel),
// stations use Rent[0] doubled per co-owned station, utilities ignore Rent
// entirely and use a multiplier picked by co-owned utility count.
type Property struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Group     string `json:"group,omitempty"`
	Position  int    `json:"position"`
	Price     int    `json:"price"`
	Mortgage  int    `json:"mortgage"`
	Rent      []int  `json:"rent,omitempty"`
	HouseCost int    `json:"houseCost,omitempty"`
}

// Catalog indexes immutable properties by id, board position and kind.
type Catalog struct {
	byID   map[string]*Property
	byPos  map[int]*Property
	byKind map[Kind][]*Property
	byGrp  map[string][]*Property
}

func New(props []Property) *Catalog {
	c := &Catalog{
		byID:   make(map[string]*Property, len(props)),
		byPos:  make(map[int]*Property, len(props)),
		byKind: make(map[Kind][]*Property),
		byGrp:  make(map[string][]*Property),
	}
	for i := range props {
		p := &props[i]
		c.byID[p.ID] = p
		c.byPos[p.Position] = p
		c.byKind[p.Kind] = append(c.byKind[p.Kind], p)
		if p.Group != "" {
			c.byGrp[p.Group] = append(c.byGrp[p.Group], p)
		}
	}
	return c
}

// Load reads the catalog from a JSON data file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board file: %w", err)
	}
	var props []Property
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parse board file %s: %w", path, err)
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("board file %s holds no properties", path)
	}
	return New(props), nil
}

func (c *Catalog) Get(id string) (*Property, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) AtPosition(pos int) (*Property, bool) {
	p, ok := c.byPos[pos]
	return p, ok
}

func (c *Catalog) OfKind(kind Kind) []*Property {
	return c.byKind[kind]
}

func (c *Catalog) InGroup(group string) []*Property {
	return c.byGrp[group]
}

func (c *Catalog) Len() int {
	return len(c.byID)
}
