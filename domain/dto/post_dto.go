package dto

// CreatePostRequest is the inbound body of POST /api/{platform}/post.
type CreatePostRequest struct {
	UserID            string   `json:"user_id" binding:"required"`
	Content           string   `json:"content" binding:"required"`
	MediaURLs         []string `json:"media_urls"`
	MediaDescriptions []string `json:"media_descriptions"`
	Visibility        string   `json:"visibility"`
	Sensitive         bool     `json:"sensitive"`
	SpoilerText       string   `json:"spoiler_text"`
	Language          string   `json:"language"`
}

// UploadMediaRequest is the inbound body of POST /api/mastodon/media.
type UploadMediaRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	MediaURL    string `json:"media_url" binding:"required"`
	Description string `json:"description"`
	Focus       string `json:"focus"`
}

// RegisterAppRequest is the inbound body of POST /api/mastodon/register.
type RegisterAppRequest struct {
	Domain       string `json:"domain" binding:"required"`
	ClientName   string `json:"client_name" binding:"required"`
	RedirectURIs string `json:"redirect_uris" binding:"required"`
	Website      string `json:"website"`
}

// AppCredentials is returned by Mastodon's app registration endpoint.
type AppCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// StatusRequest is the outbound payload for Mastodon status creation.
type StatusRequest struct {
	Status      string   `json:"status"`
	MediaIDs    []string `json:"media_ids,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Sensitive   bool     `json:"sensitive,omitempty"`
	SpoilerText string   `json:"spoiler_text,omitempty"`
	Language    string   `json:"language,omitempty"`
}

// PlatformPost is the slice of a platform's post-creation response that the
// service cares about. Raw carries the full upstream body for API clients.
type PlatformPost struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
	Raw []byte `json:"-"`
}

// ThreadsContainer describes one media container to stage on Threads.
// Encoded as Graph API query parameters.
type ThreadsContainer struct {
	MediaType      string   `url:"media_type"`
	Text           string   `url:"text,omitempty"`
	ImageURL       string   `url:"image_url,omitempty"`
	VideoURL       string   `url:"video_url,omitempty"`
	IsCarouselItem bool     `url:"is_carousel_item,omitempty"`
	Children       []string `url:"children,omitempty,comma"`
}
