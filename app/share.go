package app

import "context"

// ShareRequest describes a video to hand to a share target.
type ShareRequest struct {
	VideoID string
	Title   string
	URL     string
}

// Sharer hands a link to the host platform.
type Sharer interface {
	// Available reports whether this share target can be used right now.
	Available() bool

	// Channel names the target for analytics ("native", "link").
	Channel() string

	Share(ctx context.Context, req ShareRequest) error
}
