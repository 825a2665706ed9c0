package model

// Media size ceilings in bytes.
const (
	MaxImageSize = 10 << 20 // 10MB
	MaxVideoSize = 40 << 20 // 40MB
)

// MediaAsset is the transient state of one media item moving through the
// upload pipeline. It is owned by a single publish operation and never
// persisted.
type MediaAsset struct {
	SourceURL string
	TempPath  string
	MimeType  string
	Size      int64
	// RemoteID is the platform media id once uploaded (Mastodon) or the
	// source URL itself for platforms that ingest by URL (Threads).
	RemoteID string
	// RemoteURL is populated once platform-side processing finished.
	RemoteURL string
}

// IsVideo reports whether the detected MIME type is a video type.
func (m *MediaAsset) IsVideo() bool {
	return len(m.MimeType) >= 6 && m.MimeType[:6] == "video/"
}

// MaxSize returns the ceiling that applies to this asset's kind.
func (m *MediaAsset) MaxSize() int64 {
	if m.IsVideo() {
		return MaxVideoSize
	}
	return MaxImageSize
}

// UploadedMedia is a platform media record returned by upload or status
// endpoints.
type UploadedMedia struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url,omitempty"`
	// Error is set by the status endpoint when processing failed remotely.
	Error string `json:"error,omitempty"`
}
