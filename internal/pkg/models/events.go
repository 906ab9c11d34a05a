package models

import "time"

const (
	EventAnimeAdded   = "anime_added"
	EventAnimeUpdated = "anime_updated"
	EventAnimeDeleted = "anime_deleted"
	EventLinksAdded   = "links_added"
	EventLinkDown     = "link_down"
	EventLinkUp       = "link_up"
)

// Event is pushed to /watch subscribers and POSTed to configured webhooks.
type Event struct {
	Type    string    `json:"type"`
	AnimeID string    `json:"anime_id,omitempty"`
	Title   string    `json:"title,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	Time    time.Time `json:"time"`
}

// LinkStatus is one probe result from the link checker.
type LinkStatus struct {
	AnimeID    string    `json:"anime_id"`
	Label      string    `json:"label"`
	URL        string    `json:"url"`
	OK         bool      `json:"ok"`
	StatusCode int       `json:"status_code"`
	PageTitle  string    `json:"page_title,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

type Stats struct {
	Movies int64 `json:"movies"`
	Series int64 `json:"series"`
	Total  int64 `json:"total"`
}
