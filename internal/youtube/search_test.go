package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

func TestSearch_Videos(t *testing.T) {
	var gotQuery, gotFilter string

	mux := http.NewServeMux()
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotFilter = r.URL.Query().Get("sp")
		_, _ = w.Write([]byte(videoFragment("aaaaaaaaaaa", "Lofi Mix", "Beats Inc")))
	})

	client, _ := newTestClient(t, mux)

	result, err := client.Search(context.Background(), "lofi", model.SearchVideos)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotQuery != "lofi" {
		t.Errorf("search_query = %q, want %q", gotQuery, "lofi")
	}
	if gotFilter != videosFilter {
		t.Errorf("sp = %q, want %q", gotFilter, videosFilter)
	}
	if result.SearchType != model.SearchVideos {
		t.Errorf("SearchType = %q, want videos", result.SearchType)
	}
	if len(result.Videos) != 1 || result.Videos[0].Title != "Lofi Mix" {
		t.Errorf("Videos = %+v, want one entry titled Lofi Mix", result.Videos)
	}
	if result.TotalResults != 1 {
		t.Errorf("TotalResults = %d, want 1", result.TotalResults)
	}
}

func TestSearch_VideosCappedAtTwenty(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString(videoFragment(fmt.Sprintf("vid%08d", i), "T", "C"))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sb.String()))
	})

	client, _ := newTestClient(t, mux)

	result, err := client.Search(context.Background(), "many", model.SearchVideos)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(result.Videos) != maxSearchVideos {
		t.Errorf("len(Videos) = %d, want %d", len(result.Videos), maxSearchVideos)
	}
	if result.TotalResults != 30 {
		t.Errorf("TotalResults = %d, want 30", result.TotalResults)
	}
}

func TestSearch_Channels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sp"); got != channelsFilter {
			t.Errorf("sp = %q, want %q", got, channelsFilter)
		}
		_, _ = w.Write([]byte(
			`{"channelId":"UClofichannel1"}{"title":{"simpleText":"Lofi Girl"}}`,
		))
	})

	client, _ := newTestClient(t, mux)

	result, err := client.Search(context.Background(), "lofi", model.SearchChannels)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.SearchType != model.SearchChannels {
		t.Errorf("SearchType = %q, want channels", result.SearchType)
	}
	if len(result.Channels) != 1 || result.Channels[0].Name != "Lofi Girl" {
		t.Errorf("Channels = %+v, want one entry named Lofi Girl", result.Channels)
	}
}

func TestSearch_UpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.Search(context.Background(), "anything", model.SearchVideos)
	if err == nil {
		t.Fatal("expected error for upstream 503")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", statusErr.StatusCode)
	}
}

func TestChannelVideos_TriesURLVariants(t *testing.T) {
	var paths []string

	page := `{"title":"Legacy Channel"}` +
		`{"subscriberCountText":{"simpleText":"5K subscribers"}}` +
		videoFragment("aaaaaaaaaaa", "Upload One", "Legacy Channel")

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		// Only the legacy /user/ shape resolves for this channel.
		if strings.HasPrefix(r.URL.Path, "/user/") {
			_, _ = w.Write([]byte(page))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)

	got, err := client.ChannelVideos(context.Background(), "legacyname")
	if err != nil {
		t.Fatalf("ChannelVideos failed: %v", err)
	}

	if got.Title != "Legacy Channel" {
		t.Errorf("Title = %q, want %q", got.Title, "Legacy Channel")
	}
	if got.SubscriberCount != "5K subscribers" {
		t.Errorf("SubscriberCount = %q", got.SubscriberCount)
	}
	if len(got.Videos) != 1 {
		t.Fatalf("len(Videos) = %d, want 1", len(got.Videos))
	}
	if len(paths) != 4 {
		t.Errorf("tried %d URL variants, want 4: %v", len(paths), paths)
	}
}

func TestChannelVideos_HandleGoesStraightToHandleURL(t *testing.T) {
	page := `{"title":"Handle Channel"}` + videoFragment("bbbbbbbbbbb", "V", "C")

	mux := http.NewServeMux()
	mux.HandleFunc("/@somehandle/videos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.ChannelVideos(context.Background(), "@somehandle")
	if err != nil {
		t.Fatalf("ChannelVideos failed: %v", err)
	}
	if got.Title != "Handle Channel" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestChannelVideos_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.ChannelVideos(context.Background(), "doesnotexist")
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("error = %v, want ErrChannelNotFound", err)
	}
}

func TestChannelVideos_ViewsNormalized(t *testing.T) {
	// Fragment with a bare numeric view count.
	page := `{"title":"Chan"}` +
		`{"videoId":"ccccccccccc"}` +
		`{"viewCountText":{"simpleText":"987"}}`

	mux := http.NewServeMux()
	mux.HandleFunc("/channel/UCsomechannel/videos", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.ChannelVideos(context.Background(), "UCsomechannel")
	if err != nil {
		t.Fatalf("ChannelVideos failed: %v", err)
	}
	if got.Videos[0].Views != "987 views" {
		t.Errorf("Views = %q, want %q", got.Videos[0].Views, "987 views")
	}
}
