package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

// The upstream embeds its result data as inline JSON inside the HTML. The
// fragment shapes are not a stable contract; each pattern here can stop
// matching at any time, and callers must treat every field as optional.
var (
	videoIDPattern     = regexp.MustCompile(`"videoId":"([^"]{11})"`)
	resultTitlePattern = regexp.MustCompile(`"title":\{"runs":\[\{"text":"([^"]+?)"\}\]`)
	ownerPattern       = regexp.MustCompile(`"ownerText":\{"runs":\[\{"text":"([^"]+?)"`)
	channelIDPattern   = regexp.MustCompile(`"channelId":"([^"]+?)"`)
	viewsPattern       = regexp.MustCompile(`"viewCountText":\{"simpleText":"([^"]+?)"`)
	durationPattern    = regexp.MustCompile(`"lengthText":\{"simpleText":"([^"]+?)"`)
	publishPattern     = regexp.MustCompile(`"publishedTimeText":\{"simpleText":"([^"]+?)"`)
	descriptionPattern = regexp.MustCompile(`"descriptionSnippet":\{"runs":\[\{"text":"([^"]+?)"`)

	channelNamePattern  = regexp.MustCompile(`"title":\{"simpleText":"([^"]+?)"\}`)
	channelThumbPattern = regexp.MustCompile(`"thumbnail":\{"thumbnails":\[\{"url":"([^"]+?)"`)
	channelTitlePattern = regexp.MustCompile(`"title":"([^"]+?)"`)

	subscriberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"subscriberCountText":\{"simpleText":"([^"]+?)"`),
		regexp.MustCompile(`"subscriberCountText":\{"runs":\[\{"text":"([^"]+?)"`),
		regexp.MustCompile(`subscribers":\{"simpleText":"([^"]+?)"`),
		regexp.MustCompile(`"subCount":"([^"]+?)"`),
	}

	watchTitlePattern    = regexp.MustCompile(`<title>(.*?) - YouTube</title>`)
	watchAuthorPattern   = regexp.MustCompile(`"author":"([^"]+)"`)
	lengthSecondsPattern = regexp.MustCompile(`"lengthSeconds":"(\d+)"`)
)

const (
	maxExtractedVideos   = 60
	maxExtractedChannels = 30
)

// PartialMetadata is best-effort data pulled from a watch page. A field
// keeps its zero value when its pattern does not match; that is missing
// data, not an error.
type PartialMetadata struct {
	Title           string
	Author          string
	DurationSeconds int
}

// extractWatchMetadata pulls title, author and duration from a watch page.
func extractWatchMetadata(html string) PartialMetadata {
	var meta PartialMetadata
	if m := watchTitlePattern.FindStringSubmatch(html); m != nil {
		meta.Title = m[1]
	}
	if m := watchAuthorPattern.FindStringSubmatch(html); m != nil {
		meta.Author = m[1]
	}
	if m := lengthSecondsPattern.FindStringSubmatch(html); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil {
			meta.DurationSeconds = secs
		}
	}
	return meta
}

// extractVideos pulls video entries from a results or channel page. Field
// lists are matched independently and aligned positionally; when a field
// list is shorter than the ID list, the remaining entries get placeholder
// values. Duplicate IDs are dropped.
func extractVideos(html, thumbnailBase string) []model.VideoResult {
	ids := videoIDPattern.FindAllStringSubmatch(html, maxExtractedVideos)
	titles := resultTitlePattern.FindAllStringSubmatch(html, -1)
	owners := ownerPattern.FindAllStringSubmatch(html, -1)
	channelIDs := channelIDPattern.FindAllStringSubmatch(html, -1)
	views := viewsPattern.FindAllStringSubmatch(html, -1)
	durations := durationPattern.FindAllStringSubmatch(html, -1)
	published := publishPattern.FindAllStringSubmatch(html, -1)
	descriptions := descriptionPattern.FindAllStringSubmatch(html, -1)

	videos := make([]model.VideoResult, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for i, m := range ids {
		id := m[1]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		videos = append(videos, model.VideoResult{
			ID:           id,
			Title:        matchAt(titles, i, "Untitled"),
			ThumbnailURL: fmt.Sprintf("%s/vi/%s/hqdefault.jpg", thumbnailBase, id),
			Channel:      matchAt(owners, i, "Unknown Channel"),
			ChannelID:    matchAt(channelIDs, i, ""),
			Views:        matchAt(views, i, "No view count"),
			Duration:     matchAt(durations, i, "Unknown duration"),
			PublishTime:  matchAt(published, i, ""),
			Description:  matchAt(descriptions, i, ""),
		})
	}
	return videos
}

// extractChannels pulls channel entries from a channels results page.
func extractChannels(html string) []model.ChannelResult {
	ids := channelIDPattern.FindAllStringSubmatch(html, maxExtractedChannels)
	names := channelNamePattern.FindAllStringSubmatch(html, -1)
	thumbs := channelThumbPattern.FindAllStringSubmatch(html, -1)
	subs := subscriberPatterns[0].FindAllStringSubmatch(html, -1)
	descriptions := descriptionPattern.FindAllStringSubmatch(html, -1)

	channels := make([]model.ChannelResult, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for i, m := range ids {
		id := m[1]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		channels = append(channels, model.ChannelResult{
			ID:              id,
			Name:            matchAt(names, i, "Unknown Channel"),
			ThumbnailURL:    matchAt(thumbs, i, ""),
			SubscriberCount: matchAt(subs, i, "Unknown subscribers"),
			Description:     matchAt(descriptions, i, ""),
		})
	}
	return channels
}

// extractSubscriberCount tries the known subscriber count shapes in order.
func extractSubscriberCount(html string) string {
	for _, p := range subscriberPatterns {
		if m := p.FindStringSubmatch(html); m != nil {
			return m[1]
		}
	}
	return "Unknown subscribers"
}

// matchAt returns the capture at index i, or fallback when the pattern
// matched fewer times than the video ID pattern did.
func matchAt(matches [][]string, i int, fallback string) string {
	if i < len(matches) {
		return matches[i][1]
	}
	return fallback
}

// normalizeViews ensures a view count string carries a "views" suffix so
// channel listings render consistently.
func normalizeViews(views string) string {
	if views == "" {
		return views
	}
	lower := strings.ToLower(views)
	if strings.Contains(lower, "view") {
		return views
	}
	return views + " views"
}
