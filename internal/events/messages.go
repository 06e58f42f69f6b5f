package events

// Event types, one per store.
const (
	CollectionUpdated  = "collection:updated"
	DeckUpdated        = "deck:updated"
	SettingsUpdated    = "settings:updated"
	PackUpdated        = "pack:updated"
	StatsUpdated       = "stats:updated"
	PointsUpdated      = "points:updated"
	PricingUpdated     = "pricing:updated"
	FeaturedUpdated    = "featured:updated"
	FirstLaunchUpdated = "firstlaunch:updated"
	CommunityUpdated   = "community:updated"
	CatalogUpdated     = "catalog:updated"
)

// CollectionUpdatedEvent is the payload for collection:updated events.
type CollectionUpdatedEvent struct {
	CardID      string `json:"cardId,omitempty"` // empty for bulk changes
	Quantity    int    `json:"quantity"`
	UniqueCards int    `json:"uniqueCards"`
	TotalCards  int    `json:"totalCards"`
}

// DeckUpdatedEvent is the payload for deck:updated events.
type DeckUpdatedEvent struct {
	DeckID string `json:"deckId"`
	Action string `json:"action"` // created, updated, deleted, duplicated
	Count  int    `json:"count"`
}

// SettingsUpdatedEvent is the payload for settings:updated events.
type SettingsUpdatedEvent struct {
	Reset bool `json:"reset"`
}

// PackUpdatedEvent is the payload for pack:updated events.
type PackUpdatedEvent struct {
	Currency     int    `json:"currency"`
	HistoryCount int    `json:"historyCount"`
	PackType     string `json:"packType,omitempty"`
}

// StatsUpdatedEvent is the payload for stats:updated events.
type StatsUpdatedEvent struct {
	TotalPacksOpened int `json:"totalPacksOpened"`
	TotalCards       int `json:"totalCards"`
}

// PointsUpdatedEvent is the payload for points:updated events.
type PointsUpdatedEvent struct {
	TotalPoints int `json:"totalPoints"`
	DailyStreak int `json:"dailyStreak"`
}

// PricingUpdatedEvent is the payload for pricing:updated events.
type PricingUpdatedEvent struct {
	CardID string `json:"cardId,omitempty"`
	Count  int    `json:"count"`
}

// FeaturedUpdatedEvent is the payload for featured:updated events.
type FeaturedUpdatedEvent struct {
	CurrentCardID string `json:"currentCardId,omitempty"`
}

// FirstLaunchUpdatedEvent is the payload for firstlaunch:updated events.
type FirstLaunchUpdatedEvent struct {
	IsFirstLaunch bool `json:"isFirstLaunch"`
}

// CommunityUpdatedEvent is the payload for community:updated events.
type CommunityUpdatedEvent struct {
	LeaderboardSize int `json:"leaderboardSize"`
}

// CatalogUpdatedEvent is the payload for catalog:updated events.
type CatalogUpdatedEvent struct {
	Cards int `json:"cards"`
}
