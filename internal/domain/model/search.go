package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SearchType selects which kind of results a search targets.
type SearchType string

const (
	SearchVideos   SearchType = "videos"
	SearchChannels SearchType = "channels"
)

var ErrInvalidSearchType = errors.New("search type must be videos or channels")

func (t SearchType) IsValid() bool {
	return t == SearchVideos || t == SearchChannels
}

func (t SearchType) String() string {
	return string(t)
}

// VideoResult is one video entry scraped from a results or channel page.
type VideoResult struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail"`
	Channel      string `json:"channel"`
	ChannelID    string `json:"channel_id"`
	Views        string `json:"views"`
	Duration     string `json:"duration"`
	PublishTime  string `json:"publish_time"`
	Description  string `json:"description"`
}

// ChannelResult is one channel entry scraped from a results page.
type ChannelResult struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ThumbnailURL    string `json:"thumbnail"`
	SubscriberCount string `json:"subscriber_count"`
	Description     string `json:"description"`
	Handle          string `json:"handle,omitempty"`
}

// SearchResult is the cacheable outcome of one search request.
type SearchResult struct {
	SearchType   SearchType      `json:"search_type"`
	Videos       []VideoResult   `json:"results,omitempty"`
	Channels     []ChannelResult `json:"channels,omitempty"`
	TotalResults int             `json:"total_results"`
}

// Count returns the number of entries of the active result kind.
func (r *SearchResult) Count() int {
	if r.SearchType == SearchChannels {
		return len(r.Channels)
	}
	return len(r.Videos)
}

// ChannelPage holds a channel listing with its extracted videos.
type ChannelPage struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	SubscriberCount string        `json:"subscriber_count"`
	Videos          []VideoResult `json:"videos"`
	VideoCount      int           `json:"video_count"`
}

// SearchHistory records one executed search, optionally tied to a user.
type SearchHistory struct {
	ID           uuid.UUID
	Query        string
	SearchType   SearchType
	ResultsCount int
	UserID       *uuid.UUID
	Timestamp    time.Time
}

// NewSearchHistory creates a history entry for a completed search.
func NewSearchHistory(query string, searchType SearchType, resultsCount int, userID *uuid.UUID) *SearchHistory {
	return &SearchHistory{
		ID:           uuid.New(),
		Query:        query,
		SearchType:   searchType,
		ResultsCount: resultsCount,
		UserID:       userID,
		Timestamp:    time.Now(),
	}
}
