// Package media holds the playback side of the feed: a handle abstraction over
// anything that can play a video, a terminal frame player implementing it,
// the pool that keeps at most one handle playing, and the local blob store.
package media

import (
	"errors"
	"time"
)

var (
	// ErrNotReady is returned by Play before any frames are available. Hosts
	// treat it like an autoplay rejection: stay paused and offer manual play.
	ErrNotReady = errors.New("media not ready")

	// ErrPlayback is returned by Play after the media failed to load or decode.
	ErrPlayback = errors.New("media playback failed")

	// ErrDetached is returned by Play after the source has been released.
	ErrDetached = errors.New("media source detached")
)

// Handle is the capability the feed controller needs from a media element.
type Handle interface {
	Play() error
	Pause()
	SeekTo(t time.Duration)
	SetMuted(muted bool)
	CurrentTime() time.Duration
	Paused() bool
	Muted() bool
	// Detach pauses and drops the source so decoder and network resources are freed.
	Detach()
}

// Preload controls how much a mounted element fetches before playback.
type Preload int

const (
	PreloadNone Preload = iota
	PreloadMetadata
	PreloadAuto
)

func (p Preload) String() string {
	switch p {
	case PreloadMetadata:
		return "metadata"
	case PreloadAuto:
		return "auto"
	default:
		return "none"
	}
}
