package cards

import (
	"net/url"
	"strconv"
	"strings"
)

const placeholderImageBase = "https://via.placeholder.com/250x350?text="

// Tags that restrict format legality.
const (
	tagBanned     = "banned"
	tagNotLimited = "not-limited"
)

// NormalizeRarity case-folds s and falls back to common for unknown values.
func NormalizeRarity(s string) Rarity {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	if r.Valid() {
		return r
	}
	return RarityCommon
}

// NormalizeType case-folds s and falls back to unit for unknown values.
func NormalizeType(s string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return TypeUnit
}

// PlaceholderImageURL returns a generated image URL labelled with name.
func PlaceholderImageURL(name string) string {
	return placeholderImageBase + url.QueryEscape(name)
}

// Normalize converts a content API card into a Card. It never fails:
// unrecognized enum values fall back to defaults and missing optional
// fields stay absent.
func Normalize(dto CardDTO, setName string) Card {
	card := Card{
		ID:         dto.ID,
		Name:       dto.Name,
		Set:        setName,
		Rarity:     NormalizeRarity(dto.Rarity),
		Type:       NormalizeType(dto.Type),
		Domain:     []Domain{NeutralDomain},
		Energy:     max(dto.Stats.Energy, 0),
		Power:      nonZero(dto.Stats.Power),
		Health:     nonZero(dto.Stats.Might),
		Abilities:  append([]string{}, dto.Keywords...),
		Text:       dto.Description,
		ImageURL:   dto.Art.ThumbnailURL,
		Artist:     dto.Art.Artist,
		CardNumber: "",
		Legality:   legalityFromTags(dto.Tags),
	}

	if f := strings.TrimSpace(dto.Faction); f != "" {
		card.Domain = []Domain{Domain(f)}
	}

	if dto.FlavorText != "" {
		flavor := dto.FlavorText
		card.FlavorText = &flavor
	}

	if card.ImageURL == "" {
		card.ImageURL = PlaceholderImageURL(dto.Name)
	}
	if dto.Art.FullURL != "" {
		hiRes := dto.Art.FullURL
		card.ImageURLHiRes = &hiRes
	}

	if dto.CollectorNumber > 0 {
		card.CardNumber = strconv.Itoa(dto.CollectorNumber)
	}

	return card
}

// NormalizeContent flattens every set in the envelope into Cards.
func NormalizeContent(content ContentDTO) []Card {
	out := make([]Card, 0, content.CardCount())
	for _, set := range content.Sets {
		for _, dto := range set.Cards {
			out = append(out, Normalize(dto, set.Name))
		}
	}
	return out
}

func nonZero(v *int) *int {
	if v == nil || *v == 0 {
		return nil
	}
	out := *v
	return &out
}

func legalityFromTags(tags []string) Legality {
	legality := Legality{Standard: true, Limited: true}
	for _, tag := range tags {
		switch strings.ToLower(tag) {
		case tagBanned:
			legality.Standard = false
			legality.Limited = false
		case tagNotLimited:
			legality.Limited = false
		}
	}
	return legality
}
