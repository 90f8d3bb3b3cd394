package model

// ArtifactKind tags what a download actually produced. The orchestrator
// degrades through kinds rather than failing, so callers check the kind
// instead of sniffing file names.
type ArtifactKind string

const (
	// ArtifactMedia is the requested video or audio file.
	ArtifactMedia ArtifactKind = "media"
	// ArtifactThumbnail is a thumbnail image delivered in place of media.
	ArtifactThumbnail ArtifactKind = "thumbnail"
	// ArtifactInfoFile is a plain-text info file, the last-resort artifact.
	ArtifactInfoFile ArtifactKind = "info"
)

// DownloadResult is the uniform outcome of a download attempt. It exists
// only when some artifact was produced; a download that produced nothing
// at all is reported as an error instead.
type DownloadResult struct {
	VideoID    string       `json:"video_id"`
	Title      string       `json:"title"`
	FilePath   string       `json:"file_path"`
	FileSizeMB float64      `json:"file_size"`
	MimeType   string       `json:"mime_type"`
	Kind       ArtifactKind `json:"kind"`
	Note       string       `json:"note,omitempty"`
}

// Degraded reports whether the artifact is a fallback rather than the
// requested media.
func (r *DownloadResult) Degraded() bool {
	return r.Kind != ArtifactMedia
}
