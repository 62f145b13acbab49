package model

import "time"

// UrlRoute maps a URL substring pattern to a project. Many patterns may
// route to one project; resolution picks the lexicographically greatest
// matching pattern.
type UrlRoute struct {
	ID      int64  `json:"id,omitempty"`
	Project string `json:"project"`
	URL     string `json:"url"`
}

// ProjectDisplay holds presentation-only overrides for a project.
// Never consulted by aggregation math.
type ProjectDisplay struct {
	ID         int64  `json:"id,omitempty"`
	Project    string `json:"project"`
	CustomName string `json:"customName,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

// IgnoredProject marks a project as hidden from default summary views.
// Its sessions stay in the store and resurface when hidden projects are shown.
type IgnoredProject struct {
	ID        int64     `json:"id,omitempty"`
	Project   string    `json:"project"`
	IgnoredAt time.Time `json:"ignoredAt"`
}
