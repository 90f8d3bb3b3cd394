package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

// Upstream search filter tokens. These select the result kind server-side.
const (
	videosFilter   = "CAISAhAB"
	channelsFilter = "EgIQAg=="
)

const (
	maxSearchVideos   = 20
	maxSearchChannels = 15
	maxChannelVideos  = 50
)

// Search scrapes the results page for the given query and result kind.
func (c *Client) Search(ctx context.Context, query string, searchType model.SearchType) (*model.SearchResult, error) {
	filter := videosFilter
	if searchType == model.SearchChannels {
		filter = channelsFilter
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("sp", filter)
	params.Set("app", "desktop")

	html, err := c.fetch(ctx, c.baseURL+"/results", params)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	if searchType == model.SearchChannels {
		channels := extractChannels(html)
		total := len(channels)
		if len(channels) > maxSearchChannels {
			channels = channels[:maxSearchChannels]
		}
		return &model.SearchResult{
			SearchType:   model.SearchChannels,
			Channels:     channels,
			TotalResults: total,
		}, nil
	}

	videos := extractVideos(html, c.thumbBaseURL)
	total := len(videos)
	if len(videos) > maxSearchVideos {
		videos = videos[:maxSearchVideos]
	}
	return &model.SearchResult{
		SearchType:   model.SearchVideos,
		Videos:       videos,
		TotalResults: total,
	}, nil
}

// ChannelVideos fetches a channel's listing page and extracts its videos.
// The upstream exposes several URL shapes for the same channel, so each
// candidate is tried until one returns a page.
func (c *Client) ChannelVideos(ctx context.Context, channelID string) (*model.ChannelPage, error) {
	if channelID == "" {
		return nil, fmt.Errorf("%w: empty channel ID", ErrChannelNotFound)
	}

	var html string
	for _, candidate := range c.channelURLCandidates(channelID) {
		page, err := c.fetch(ctx, candidate, nil)
		if err != nil {
			continue
		}
		html = page
		break
	}
	if html == "" {
		return nil, fmt.Errorf("%w: no channel URL variant resolved for %q", ErrChannelNotFound, channelID)
	}

	titleMatch := channelTitlePattern.FindStringSubmatch(html)
	if titleMatch == nil {
		return nil, fmt.Errorf("%w: page for %q has no channel title", ErrChannelNotFound, channelID)
	}

	videos := extractVideos(html, c.thumbBaseURL)
	for i := range videos {
		videos[i].Views = normalizeViews(videos[i].Views)
	}

	total := len(videos)
	if len(videos) > maxChannelVideos {
		videos = videos[:maxChannelVideos]
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: no videos found for %q", ErrChannelNotFound, channelID)
	}

	return &model.ChannelPage{
		ID:              channelID,
		Title:           titleMatch[1],
		SubscriberCount: extractSubscriberCount(html),
		Videos:          videos,
		VideoCount:      total,
	}, nil
}

// channelURLCandidates returns listing URLs to try for a channel
// identifier, which may be an @handle, a canonical UC id, or a legacy name.
func (c *Client) channelURLCandidates(channelID string) []string {
	switch {
	case strings.HasPrefix(channelID, "@"):
		return []string{fmt.Sprintf("%s/%s/videos", c.baseURL, channelID)}
	case strings.HasPrefix(channelID, "UC"):
		return []string{fmt.Sprintf("%s/channel/%s/videos", c.baseURL, channelID)}
	default:
		return []string{
			fmt.Sprintf("%s/c/%s/videos", c.baseURL, channelID),
			fmt.Sprintf("%s/channel/%s/videos", c.baseURL, channelID),
			fmt.Sprintf("%s/@%s/videos", c.baseURL, channelID),
			fmt.Sprintf("%s/user/%s/videos", c.baseURL, channelID),
		}
	}
}
