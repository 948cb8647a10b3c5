package media

import "sort"

// Pool holds the mounted handles of one feed, keyed by video id, and is the
// only place playback is started. At most one handle plays at a time.
type Pool struct {
	handles   map[string]Handle
	sources   map[string]string
	active    string
	onRelease func(id, src string)
}

// NewPool creates an empty pool. onRelease, if set, runs after a handle is
// unmounted so the owner can drop references such as blob URLs.
func NewPool(onRelease func(id, src string)) *Pool {
	return &Pool{
		handles:   make(map[string]Handle),
		sources:   make(map[string]string),
		onRelease: onRelease,
	}
}

// Mount registers h for id. An existing handle for id is unmounted first.
func (p *Pool) Mount(id, src string, h Handle) {
	if _, ok := p.handles[id]; ok {
		p.Unmount(id)
	}
	p.handles[id] = h
	p.sources[id] = src
}

// Get returns the handle mounted for id.
func (p *Pool) Get(id string) (Handle, bool) {
	h, ok := p.handles[id]
	return h, ok
}

// Mounted reports whether id has a handle.
func (p *Pool) Mounted(id string) bool {
	_, ok := p.handles[id]
	return ok
}

// IDs returns the mounted ids in sorted order.
func (p *Pool) IDs() []string {
	ids := make([]string, 0, len(p.handles))
	for id := range p.handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Active returns the id of the handle last activated.
func (p *Pool) Active() string { return p.active }

// Activate pauses every other handle and then plays id. The returned error is
// the handle's Play error; the other handles stay paused either way.
func (p *Pool) Activate(id string) error {
	p.PauseAllExcept(id)
	p.active = id
	h, ok := p.handles[id]
	if !ok {
		return ErrNotReady
	}
	return h.Play()
}

// PauseAllExcept pauses every mounted handle other than id.
func (p *Pool) PauseAllExcept(id string) {
	for hid, h := range p.handles {
		if hid != id && !h.Paused() {
			h.Pause()
		}
	}
}

// PauseAll pauses every mounted handle.
func (p *Pool) PauseAll() {
	p.PauseAllExcept("")
}

// Playing returns the ids whose handle is not paused.
func (p *Pool) Playing() []string {
	var ids []string
	for id, h := range p.handles {
		if !h.Paused() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Unmount pauses and detaches id, then releases it.
func (p *Pool) Unmount(id string) {
	h, ok := p.handles[id]
	if !ok {
		return
	}
	h.Pause()
	h.Detach()
	src := p.sources[id]
	delete(p.handles, id)
	delete(p.sources, id)
	if p.active == id {
		p.active = ""
	}
	if p.onRelease != nil {
		p.onRelease(id, src)
	}
}

// Retain unmounts every handle whose id is not in keep.
func (p *Pool) Retain(keep ...string) {
	wanted := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		wanted[id] = struct{}{}
	}
	for _, id := range p.IDs() {
		if _, ok := wanted[id]; !ok {
			p.Unmount(id)
		}
	}
}

// ReleaseAll unmounts everything. Used when the feed closes.
func (p *Pool) ReleaseAll() {
	for _, id := range p.IDs() {
		p.Unmount(id)
	}
}
