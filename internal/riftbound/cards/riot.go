package cards

// ContentDTO is the riftbound-content-v1 response envelope.
type ContentDTO struct {
	Game        string   `json:"game"`
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated"`
	Sets        []SetDTO `json:"sets"`
}

// SetDTO is one card set inside the content envelope.
type SetDTO struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Cards []CardDTO `json:"cards"`
}

// CardDTO is a card as returned by the content API.
type CardDTO struct {
	ID              string       `json:"id"`
	CollectorNumber int          `json:"collectorNumber"`
	Set             string       `json:"set"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Type            string       `json:"type"`
	Rarity          string       `json:"rarity"`
	Faction         string       `json:"faction"`
	Stats           CardStatsDTO `json:"stats"`
	Keywords        []string     `json:"keywords"`
	Art             CardArtDTO   `json:"art"`
	FlavorText      string       `json:"flavorText"`
	Tags            []string     `json:"tags"`
}

// CardStatsDTO holds the numeric stats of a card. Might and Power are
// pointers so an absent stat can be told apart from zero.
type CardStatsDTO struct {
	Energy int  `json:"energy"`
	Might  *int `json:"might,omitempty"`
	Cost   int  `json:"cost"`
	Power  *int `json:"power,omitempty"`
}

// CardArtDTO holds image URLs and artist credit.
type CardArtDTO struct {
	ThumbnailURL string `json:"thumbnailURL"`
	FullURL      string `json:"fullURL"`
	Artist       string `json:"artist"`
}

// CardCount returns the number of cards across all sets.
func (c *ContentDTO) CardCount() int {
	n := 0
	for _, s := range c.Sets {
		n += len(s.Cards)
	}
	return n
}
