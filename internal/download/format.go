package download

import "errors"

// ErrFormatUnavailable is returned when a requested format tag is not in
// the supported catalog.
var ErrFormatUnavailable = errors.New("selected format is not available")

// Format describes one supported encoding+quality combination. Selector is
// the expression handed to the downloader binary; it lists the exact tag
// first and progressively looser acceptance criteria after it.
type Format struct {
	Itag     int
	Ext      string
	Suffix   string
	MimeType string
	Selector string
}

var formats = map[int]Format{
	22: {
		Itag:     22,
		Ext:      "mp4",
		Suffix:   "720p",
		MimeType: "video/mp4",
		Selector: "22/best[height<=720][ext=mp4]/best",
	},
	18: {
		Itag:     18,
		Ext:      "mp4",
		Suffix:   "360p",
		MimeType: "video/mp4",
		Selector: "18/best[height<=360][ext=mp4]/best",
	},
	140: {
		Itag:     140,
		Ext:      "m4a",
		Suffix:   "128kbps",
		MimeType: "audio/mp4",
		Selector: "140/bestaudio[ext=m4a]/bestaudio/best",
	},
	249: {
		Itag:     249,
		Ext:      "webm",
		Suffix:   "48kbps",
		MimeType: "audio/webm",
		Selector: "249/bestaudio[ext=webm]/bestaudio/best",
	},
}

// FormatForItag looks up a supported format by its tag.
func FormatForItag(itag int) (Format, bool) {
	f, ok := formats[itag]
	return f, ok
}
