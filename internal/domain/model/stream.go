package model

// VideoStream describes one downloadable video encoding.
type VideoStream struct {
	Itag        int    `json:"itag"`
	Resolution  string `json:"resolution"`
	MimeType    string `json:"mime_type"`
	FPS         int    `json:"fps"`
	Progressive bool   `json:"progressive"`
	FormatName  string `json:"format_name"`
}

// AudioStream describes one downloadable audio encoding.
type AudioStream struct {
	Itag       int    `json:"itag"`
	Bitrate    string `json:"abr"`
	MimeType   string `json:"mime_type"`
	FormatName string `json:"format_name"`
}

// StreamOptions is the best-effort playback metadata resolved for a single
// content identifier. The stream lists are a fixed representative catalog,
// not an authoritative enumeration; whether an option is actually
// downloadable is only proven by attempting the download.
type StreamOptions struct {
	VideoID         string        `json:"video_id"`
	Title           string        `json:"title"`
	Author          string        `json:"author"`
	ThumbnailURL    string        `json:"thumbnail"`
	DurationSeconds int           `json:"length"`
	VideoStreams    []VideoStream `json:"video_streams"`
	AudioStreams    []AudioStream `json:"audio_streams"`
}
