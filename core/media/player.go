package media

import (
	"fmt"
	"time"
)

// DefaultFrameInterval matches the 4 fps the frame extractor samples at.
const DefaultFrameInterval = 250 * time.Millisecond

// Player plays pre-rendered ANSI frames. It starts paused.
type Player struct {
	src           string
	preload       Preload
	poster        string
	frames        []string
	pos           int
	paused        bool
	muted         bool
	err           error
	detached      bool
	frameInterval time.Duration
}

// NewPlayer mounts a player for src with the given preload policy.
func NewPlayer(src string, preload Preload) *Player {
	return &Player{
		src:           src,
		preload:       preload,
		paused:        true,
		frameInterval: DefaultFrameInterval,
	}
}

// Src returns the media source, empty once detached.
func (p *Player) Src() string { return p.src }

// Preload returns the current preload policy.
func (p *Player) Preload() Preload { return p.preload }

// SetPreload upgrades or downgrades what the host should fetch next.
func (p *Player) SetPreload(pl Preload) { p.preload = pl }

// SetPoster sets the frame shown before playback starts.
func (p *Player) SetPoster(poster string) {
	if p.detached {
		return
	}
	p.poster = poster
}

// Poster returns the poster frame.
func (p *Player) Poster() string { return p.poster }

// Load installs decoded frames, or records the decode failure.
func (p *Player) Load(frames []string, err error) {
	if p.detached {
		return
	}
	if err != nil {
		p.err = err
		p.paused = true
		return
	}
	p.err = nil
	p.frames = frames
	if p.pos >= len(frames) {
		p.pos = 0
	}
}

// Loaded reports whether frames are available.
func (p *Player) Loaded() bool { return len(p.frames) > 0 }

// Err returns the load error, if any.
func (p *Player) Err() error { return p.err }

// Play starts playback.
func (p *Player) Play() error {
	switch {
	case p.detached:
		return ErrDetached
	case p.err != nil:
		return fmt.Errorf("%w: %v", ErrPlayback, p.err)
	case len(p.frames) == 0:
		return ErrNotReady
	}
	p.paused = false
	return nil
}

// Pause stops playback at the current frame.
func (p *Player) Pause() { p.paused = true }

// Paused reports whether playback is stopped.
func (p *Player) Paused() bool { return p.paused }

// SetMuted records the mute state. Terminal playback has no audio track, but
// the state is kept so it follows the user across videos.
func (p *Player) SetMuted(muted bool) { p.muted = muted }

// Muted reports the mute state.
func (p *Player) Muted() bool { return p.muted }

// SeekTo moves to the frame covering t.
func (p *Player) SeekTo(t time.Duration) {
	if len(p.frames) == 0 || t <= 0 {
		p.pos = 0
		return
	}
	p.pos = min(int(t/p.frameInterval), len(p.frames)-1)
}

// CurrentTime returns the playback position.
func (p *Player) CurrentTime() time.Duration {
	return time.Duration(p.pos) * p.frameInterval
}

// Advance moves one frame forward while playing, looping at the end.
func (p *Player) Advance() {
	if p.paused || len(p.frames) == 0 {
		return
	}
	p.pos = (p.pos + 1) % len(p.frames)
}

// Frame returns what should be drawn right now.
func (p *Player) Frame() string {
	if len(p.frames) > 0 && (!p.paused || p.pos > 0) {
		return p.frames[p.pos]
	}
	if p.poster != "" {
		return p.poster
	}
	if len(p.frames) > 0 {
		return p.frames[0]
	}
	return ""
}

// Detach pauses and releases the source and every decoded frame.
func (p *Player) Detach() {
	p.paused = true
	p.detached = true
	p.src = ""
	p.frames = nil
	p.poster = ""
	p.pos = 0
}

// Detached reports whether Detach has been called.
func (p *Player) Detached() bool { return p.detached }
