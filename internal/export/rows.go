package export

import (
	"sort"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// CardLookup resolves a card id against the catalog.
type CardLookup func(id string) (cards.Card, bool)

// PriceLookup resolves the current price of a card.
type PriceLookup func(id string) (store.CardPrice, bool)

// CollectionRow is one owned card.
type CollectionRow struct {
	CardID    string          `csv:"card_id" json:"cardId"`
	Name      string          `csv:"name" json:"name"`
	Set       string          `csv:"set" json:"set"`
	Rarity    cards.Rarity    `csv:"rarity" json:"rarity"`
	Type      cards.Type      `csv:"type" json:"type"`
	Quantity  int             `csv:"quantity" json:"quantity"`
	Foil      bool            `csv:"foil" json:"foil"`
	Variants  []store.Variant `csv:"variants" json:"variants"`
	Price     float64         `csv:"price" json:"price"`
	DateAdded time.Time       `csv:"date_added" json:"dateAdded"`
}

// CollectionRows joins collection entries with the catalog and prices.
// Cards missing from the catalog keep their id only. prices may be nil.
func CollectionRows(entries []store.CollectionEntry, lookup CardLookup, prices PriceLookup) []CollectionRow {
	rows := make([]CollectionRow, 0, len(entries))
	for _, e := range entries {
		row := CollectionRow{
			CardID:    e.CardID,
			Quantity:  e.Quantity,
			Foil:      e.Foil,
			Variants:  e.Variants,
			DateAdded: e.DateAdded,
		}
		if c, ok := lookup(e.CardID); ok {
			row.Name = c.Name
			row.Set = c.Set
			row.Rarity = c.Rarity
			row.Type = c.Type
		}
		if prices != nil {
			if p, ok := prices(e.CardID); ok {
				row.Price = p.NormalPrice
				if e.Foil {
					row.Price = p.FoilPrice
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// DeckRow is one card line of a deck.
type DeckRow struct {
	Deck     string       `csv:"deck" json:"deck"`
	Format   store.Format `csv:"format" json:"format"`
	CardID   string       `csv:"card_id" json:"cardId"`
	Name     string       `csv:"name" json:"name"`
	Rarity   cards.Rarity `csv:"rarity" json:"rarity"`
	Energy   int          `csv:"energy" json:"energy"`
	Quantity int          `csv:"quantity" json:"quantity"`
}

// DeckRows flattens decks into card lines, ordered by deck name then card
// id.
func DeckRows(decks []store.Deck, lookup CardLookup) []DeckRow {
	sorted := make([]store.Deck, len(decks))
	copy(sorted, decks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	rows := []DeckRow{}
	for _, d := range sorted {
		lines := make([]DeckRow, 0, len(d.Cards))
		for _, dc := range d.Cards {
			row := DeckRow{Deck: d.Name, Format: d.Format, CardID: dc.CardID, Quantity: dc.Quantity}
			if c, ok := lookup(dc.CardID); ok {
				row.Name = c.Name
				row.Rarity = c.Rarity
				row.Energy = c.Energy
			}
			lines = append(lines, row)
		}
		sort.Slice(lines, func(i, j int) bool { return lines[i].CardID < lines[j].CardID })
		rows = append(rows, lines...)
	}
	return rows
}

// PackRow is one opened pack.
type PackRow struct {
	ID         string         `csv:"id" json:"id"`
	PackType   store.PackType `csv:"pack_type" json:"packType"`
	Cards      []string       `csv:"cards" json:"cards"`
	Common     int            `csv:"common" json:"common"`
	Uncommon   int            `csv:"uncommon" json:"uncommon"`
	Rare       int            `csv:"rare" json:"rare"`
	Legendary  int            `csv:"legendary" json:"legendary"`
	OpenedDate time.Time      `csv:"opened_date" json:"openedDate"`
}

// PackRows lists the pack history, newest first as stored.
func PackRows(history []store.BoosterPack) []PackRow {
	rows := make([]PackRow, 0, len(history))
	for _, p := range history {
		ids := make([]string, len(p.Cards))
		for i, c := range p.Cards {
			ids[i] = c.ID
		}
		rows = append(rows, PackRow{
			ID:         p.ID,
			PackType:   p.PackType,
			Cards:      ids,
			Common:     p.RarityDistribution.Common,
			Uncommon:   p.RarityDistribution.Uncommon,
			Rare:       p.RarityDistribution.Rare,
			Legendary:  p.RarityDistribution.Legendary,
			OpenedDate: p.OpenedDate,
		})
	}
	return rows
}
