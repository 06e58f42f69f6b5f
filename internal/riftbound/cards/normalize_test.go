package cards

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func sampleDTO() CardDTO {
	return CardDTO{
		ID:              "OGN-001",
		CollectorNumber: 1,
		Set:             "OGN",
		Name:            "Jinx, Loose Cannon",
		Description:     "Deal 2 to a unit.",
		Type:            "Champion",
		Rarity:          "Legendary",
		Faction:         "Piltover & Zaun",
		Stats:           CardStatsDTO{Energy: 5, Might: intPtr(4), Power: intPtr(3)},
		Keywords:        []string{"Assault", "Deflect"},
		Art: CardArtDTO{
			ThumbnailURL: "https://cdn.example/jinx-thumb.png",
			FullURL:      "https://cdn.example/jinx-full.png",
			Artist:       "Someone",
		},
		FlavorText: "Rules are made to be broken.",
	}
}

func TestNormalize_FullCard(t *testing.T) {
	card := Normalize(sampleDTO(), "Origins")

	if card.ID != "OGN-001" {
		t.Errorf("Expected ID 'OGN-001', got %q", card.ID)
	}
	if card.Set != "Origins" {
		t.Errorf("Expected set name from containing set, got %q", card.Set)
	}
	if card.Rarity != RarityLegendary {
		t.Errorf("Expected legendary, got %q", card.Rarity)
	}
	if card.Type != TypeChampion {
		t.Errorf("Expected champion, got %q", card.Type)
	}
	if len(card.Domain) != 1 || card.Domain[0] != "Piltover & Zaun" {
		t.Errorf("Expected domain [Piltover & Zaun], got %v", card.Domain)
	}
	if card.Energy != 5 {
		t.Errorf("Expected energy 5, got %d", card.Energy)
	}
	if card.Power == nil || *card.Power != 3 {
		t.Errorf("Expected power 3, got %v", card.Power)
	}
	if card.Health == nil || *card.Health != 4 {
		t.Errorf("Expected health 4, got %v", card.Health)
	}
	if card.FlavorText == nil || *card.FlavorText != "Rules are made to be broken." {
		t.Errorf("Unexpected flavor text: %v", card.FlavorText)
	}
	if card.ImageURLHiRes == nil || *card.ImageURLHiRes != "https://cdn.example/jinx-full.png" {
		t.Errorf("Unexpected hi-res image: %v", card.ImageURLHiRes)
	}
	if card.CardNumber != "1" {
		t.Errorf("Expected card number '1', got %q", card.CardNumber)
	}
	if !card.Legality.Standard || !card.Legality.Limited {
		t.Errorf("Expected card legal in both formats, got %+v", card.Legality)
	}
}

func TestNormalize_UnknownRarityFallsBackToCommon(t *testing.T) {
	dto := sampleDTO()
	dto.Rarity = "MYTHIC"

	card := Normalize(dto, "Origins")
	if card.Rarity != RarityCommon {
		t.Errorf("Expected rarity 'common', got %q", card.Rarity)
	}
}

func TestNormalize_UnknownTypeFallsBackToUnit(t *testing.T) {
	for _, raw := range []string{"", "Battlefield", "gear"} {
		dto := sampleDTO()
		dto.Type = raw
		if got := Normalize(dto, "Origins").Type; got != TypeUnit {
			t.Errorf("type %q: expected unit, got %q", raw, got)
		}
	}
}

func TestNormalize_MissingOptionalFields(t *testing.T) {
	dto := CardDTO{ID: "x", Name: "Poro Snax"}

	card := Normalize(dto, "Origins")

	if card.Power != nil {
		t.Errorf("Expected absent power, got %d", *card.Power)
	}
	if card.Health != nil {
		t.Errorf("Expected absent health, got %d", *card.Health)
	}
	if card.FlavorText != nil {
		t.Error("Expected absent flavor text")
	}
	if card.ImageURLHiRes != nil {
		t.Error("Expected absent hi-res image")
	}
	if !strings.HasSuffix(card.ImageURL, "Poro+Snax") {
		t.Errorf("Expected URL-encoded placeholder image, got %q", card.ImageURL)
	}
	if len(card.Domain) != 1 || card.Domain[0] != NeutralDomain {
		t.Errorf("Expected neutral domain, got %v", card.Domain)
	}
	if card.Abilities == nil || len(card.Abilities) != 0 {
		t.Errorf("Expected empty abilities list, got %v", card.Abilities)
	}
	if card.CardNumber != "" {
		t.Errorf("Expected empty card number, got %q", card.CardNumber)
	}
}

func TestNormalize_NegativeEnergyClamped(t *testing.T) {
	dto := sampleDTO()
	dto.Stats.Energy = -2
	if got := Normalize(dto, "Origins").Energy; got != 0 {
		t.Errorf("Expected energy clamped to 0, got %d", got)
	}
}

func TestNormalize_LegalityTags(t *testing.T) {
	dto := sampleDTO()
	dto.Tags = []string{"Not-Limited"}
	legality := Normalize(dto, "Origins").Legality
	if !legality.Standard || legality.Limited {
		t.Errorf("Expected standard-only legality, got %+v", legality)
	}

	dto.Tags = []string{"banned"}
	legality = Normalize(dto, "Origins").Legality
	if legality.Standard || legality.Limited {
		t.Errorf("Expected banned card to be illegal, got %+v", legality)
	}
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	dto := sampleDTO()
	card := Normalize(dto, "Origins")
	dto.Keywords[0] = "Changed"
	if card.Abilities[0] != "Assault" {
		t.Errorf("Card abilities alias the DTO slice: %v", card.Abilities)
	}
}

func TestNormalizeContent(t *testing.T) {
	content := ContentDTO{
		Game: "riftbound",
		Sets: []SetDTO{
			{ID: "OGN", Name: "Origins", Cards: []CardDTO{{ID: "a"}, {ID: "b"}}},
			{ID: "SFD", Name: "Spiritforged", Cards: []CardDTO{{ID: "c"}}},
		},
	}

	got := NormalizeContent(content)
	if len(got) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(got))
	}
	if got[2].Set != "Spiritforged" {
		t.Errorf("Expected third card in Spiritforged, got %q", got[2].Set)
	}
}

func TestRarityRank(t *testing.T) {
	if RarityCommon.Rank() >= RarityLegendary.Rank() {
		t.Error("Expected common to rank below legendary")
	}
	if Rarity("mythic").Valid() {
		t.Error("Expected mythic to be invalid")
	}
}
