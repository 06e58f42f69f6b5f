// Package cards defines the canonical Riftbound card model and converts
// content API payloads into it.
package cards

import "strings"

// Rarity is the rarity tier of a card.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every rarity tier from lowest to highest.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityLegendary}

// Rank orders rarities for sorting; unknown values rank lowest.
func (r Rarity) Rank() int {
	for i, v := range Rarities {
		if v == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is one of the known rarity tiers.
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// Type is the card type.
type Type string

const (
	TypeChampion Type = "champion"
	TypeUnit     Type = "unit"
	TypeSpell    Type = "spell"
	TypeRelic    Type = "relic"
)

// Types lists every card type.
var Types = []Type{TypeChampion, TypeUnit, TypeSpell, TypeRelic}

// Valid reports whether t is one of the known card types.
func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Domain is a faction tag such as "Demacia" or "Piltover & Zaun".
type Domain string

// NeutralDomain is used when the content API reports no faction.
const NeutralDomain Domain = "Neutral"

// Known domains, in the order the card browser lists them.
var Domains = []Domain{
	"Demacia", "Noxus", "Ionia", "Piltover & Zaun", "Shadow Isles",
	"Bilgewater", "Shurima", "Targon", "Freljord", "Bandle City",
}

// Legality holds format legality flags.
type Legality struct {
	Standard bool `json:"standard"`
	Limited  bool `json:"limited"`
}

// Card is a normalized catalog entry. Cards are values: copy them freely,
// but treat the slices as read-only.
type Card struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Set           string   `json:"set"`
	Rarity        Rarity   `json:"rarity"`
	Type          Type     `json:"type"`
	Domain        []Domain `json:"domain"`
	Energy        int      `json:"energy"`
	Power         *int     `json:"power,omitempty"`
	Health        *int     `json:"health,omitempty"`
	Abilities     []string `json:"abilities"`
	Text          string   `json:"text"`
	FlavorText    *string  `json:"flavorText,omitempty"`
	ImageURL      string   `json:"imageUrl"`
	ImageURLHiRes *string  `json:"imageUrlHiRes,omitempty"`
	Artist        string   `json:"artist"`
	CardNumber    string   `json:"cardNumber"`
	Legality      Legality `json:"legality"`
}

// HasDomain reports whether the card belongs to domain d (case-insensitive).
func (c Card) HasDomain(d Domain) bool {
	for _, v := range c.Domain {
		if strings.EqualFold(string(v), string(d)) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	out.Domain = append([]Domain(nil), c.Domain...)
	out.Abilities = append([]string(nil), c.Abilities...)
	if c.Power != nil {
		v := *c.Power
		out.Power = &v
	}
	if c.Health != nil {
		v := *c.Health
		out.Health = &v
	}
	if c.FlavorText != nil {
		v := *c.FlavorText
		out.FlavorText = &v
	}
	if c.ImageURLHiRes != nil {
		v := *c.ImageURLHiRes
		out.ImageURLHiRes = &v
	}
	return out
}
