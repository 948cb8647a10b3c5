// Package uploads tracks videos the user uploaded from this client, from the
// optimistic local record through server processing to completion.
//
// The Tracker is the one piece of core state touched from background
// goroutines (uploads and the poll loop), so every mutation goes through its
// mutex and listeners receive immutable snapshots.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/debounce"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/logging"
)

const (
	// DefaultPollInterval is how often pending records are polled.
	DefaultPollInterval = 5 * time.Second
	// DefaultSaveDelay coalesces bursts of progress ticks into one write.
	DefaultSaveDelay = 500 * time.Millisecond
	// DefaultProgressInterval caps how often upload progress reaches listeners.
	DefaultProgressInterval = 200 * time.Millisecond
	// TempIDPrefix marks ids the server has not assigned yet.
	TempIDPrefix = "tmp-"

	pollConcurrency = 4
)

var (
	// ErrNotRetryable is returned when retrying a record that has not failed.
	ErrNotRetryable = errors.New("only failed uploads can be retried")
	// ErrUploadInFlight is returned when a record is already being uploaded.
	ErrUploadInFlight = errors.New("upload already in progress")
)

// Persister loads and saves the tracked records.
type Persister interface {
	Load(ctx context.Context) ([]domain.VideoRecord, error)
	Save(ctx context.Context, videos []domain.VideoRecord) error
}

// Options configures a Tracker. Service is required for polling, Uploader and
// Blobs for submitting.
type Options struct {
	Service      app.VideoService
	Uploader     app.UploadService
	Blobs        *media.BlobStore
	Persister    Persister
	Logger       logging.Logger
	PollInterval time.Duration
	SaveDelay    time.Duration
	// ProgressInterval throttles progress updates during an upload.
	ProgressInterval time.Duration
	NewID            func() string
	NewKey           func() string
	Now              func() time.Time
}

// Tracker owns the sequence of locally tracked records, newest first.
type Tracker struct {
	opts Options
	log  logging.Logger

	mu     sync.Mutex
	videos []domain.VideoRecord
	subs   map[int]chan []domain.VideoRecord
	nextID int
	// inflight holds ids with an upload or retry request running. Polls
	// skip them: the server's view of an old id is stale until it returns.
	inflight map[string]struct{}

	save       func(struct{})
	cancelSave func()
}

// NewTracker creates an empty tracker. Call Load to rehydrate it.
func NewTracker(opts Options) *Tracker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.NewID == nil {
		opts.NewID = NewTempID
	}
	if opts.NewKey == nil {
		opts.NewKey = NewIdempotencyKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	t := &Tracker{
		opts:     opts,
		log:      opts.Logger.With("component", "uploads"),
		subs:     make(map[int]chan []domain.VideoRecord),
		inflight: make(map[string]struct{}),
	}
	t.save, t.cancelSave = debounce.Debounce(opts.SaveDelay, func(struct{}) {
		t.persist(context.Background())
	})
	return t
}

// NewTempID returns a fresh client-side id.
func NewTempID() string {
	return TempIDPrefix + strings.ToLower(ulid.Make().String())
}

// IsTempID reports whether id was generated on this client.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Load replaces the tracked records with the persisted ones. Missing or
// malformed state starts the tracker empty.
func (t *Tracker) Load(ctx context.Context) {
	if t.opts.Persister == nil {
		return
	}
	videos, err := t.opts.Persister.Load(ctx)
	if err != nil {
		t.log.Warn(ctx, "discarding persisted uploads", "err", err)
		videos = nil
	}
	t.mu.Lock()
	t.videos = videos
	t.mu.Unlock()
	t.changed(false)
}

// Recover runs after Load on startup. It reattaches staged media still on disk
// and fails uploads cut off by the previous exit so they can be retried. It
// returns how many uploads were failed.
func (t *Tracker) Recover() int {
	t.mu.Lock()
	n := 0
	for i, v := range t.videos {
		if t.opts.Blobs != nil && v.IsBlobBacked() {
			t.opts.Blobs.Reattach(v.MediaURL)
		}
		if IsTempID(v.ID) && v.Status == domain.StatusUploading {
			t.videos[i] = FailedPatch("Upload interrupted").Apply(v)
			n++
		}
	}
	t.mu.Unlock()
	if n > 0 {
		t.changed(true)
	}
	return n
}

// Flush writes pending changes now.
func (t *Tracker) Flush(ctx context.Context) {
	t.cancelSave()
	t.persist(ctx)
}

func (t *Tracker) persist(ctx context.Context) {
	if t.opts.Persister == nil {
		return
	}
	if err := t.opts.Persister.Save(ctx, t.Snapshot()); err != nil {
		t.log.Error(ctx, "persist uploads failed", "err", err)
	}
}

// Snapshot returns a copy of the tracked records.
func (t *Tracker) Snapshot() []domain.VideoRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() []domain.VideoRecord {
	out := make([]domain.VideoRecord, len(t.videos))
	for i, v := range t.videos {
		v.Hashtags = slices.Clone(v.Hashtags)
		out[i] = v
	}
	return out
}

// Get returns the record with id.
func (t *Tracker) Get(id string) (domain.VideoRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexLocked(id); i >= 0 {
		return t.videos[i], true
	}
	return domain.VideoRecord{}, false
}

func (t *Tracker) indexLocked(id string) int {
	return slices.IndexFunc(t.videos, func(v domain.VideoRecord) bool { return v.ID == id })
}

// Subscribe returns a channel receiving a snapshot after every change. Slow
// readers only see the latest snapshot. The returned func unsubscribes.
func (t *Tracker) Subscribe() (<-chan []domain.VideoRecord, func()) {
	ch := make(chan []domain.VideoRecord, 1)
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = ch
	ch <- t.snapshotLocked()
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			close(ch)
		})
	}
}

// changed notifies subscribers and schedules a save.
func (t *Tracker) changed(persist bool) {
	t.mu.Lock()
	snap := t.snapshotLocked()
	for _, ch := range t.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
	t.mu.Unlock()
	if persist {
		t.save(struct{}{})
	}
}

// AddLocalVideo stages the draft's media in the blob store and tracks an
// optimistic record for it.
func (t *Tracker) AddLocalVideo(draft domain.UploadDraft) (domain.VideoRecord, error) {
	if err := draft.Validate(); err != nil {
		return domain.VideoRecord{}, err
	}
	if t.opts.Blobs == nil {
		return domain.VideoRecord{}, errors.New("no blob store configured")
	}
	url, err := t.opts.Blobs.Create(draft.FilePath)
	if err != nil {
		return domain.VideoRecord{}, err
	}
	v := domain.VideoRecord{
		ID:              t.opts.NewID(),
		MediaURL:        url,
		Title:           strings.TrimSpace(draft.Title),
		Hashtags:        draft.Hashtags,
		DurationSeconds: draft.DurationSeconds,
		Owner:           draft.Owner,
		Status:          domain.StatusUploading,
		IsLocal:         true,
		Progress:        0,
		SubmittedAt:     t.opts.Now(),
	}
	t.mu.Lock()
	t.videos = append([]domain.VideoRecord{v}, t.videos...)
	t.mu.Unlock()
	t.changed(true)
	return v, nil
}

// UpdateVideoStatus merges p into the record with id.
func (t *Tracker) UpdateVideoStatus(id string, p Patch) error {
	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrUnknownVideo, id)
	}
	before := t.videos[i]
	t.videos[i] = p.Apply(before)
	after := t.videos[i]
	t.mu.Unlock()

	t.releaseReplacedBlob(before, after)
	t.changed(true)
	return nil
}

// UpdateVideoServerID swaps tempID for serverID and merges p in one step.
// Readers see either the old record or the new one, never both or neither.
func (t *Tracker) UpdateVideoServerID(tempID, serverID string, p Patch) error {
	if serverID == "" {
		return errors.New("empty server id")
	}
	t.mu.Lock()
	i := t.indexLocked(tempID)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrUnknownVideo, tempID)
	}
	before := t.videos[i]
	v := p.Apply(before)
	v.ID = serverID
	t.videos[i] = v
	if tempID != serverID {
		// A poll may already have surfaced the server record; keep one copy.
		if dup := slices.IndexFunc(t.videos, func(o domain.VideoRecord) bool { return o.ID == serverID }); dup >= 0 && dup != i {
			t.videos = slices.Delete(t.videos, dup, dup+1)
		}
	}
	t.mu.Unlock()

	t.releaseReplacedBlob(before, v)
	t.changed(true)
	return nil
}

// RemoveVideo stops tracking id and revokes its blob.
func (t *Tracker) RemoveVideo(id string) error {
	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrUnknownVideo, id)
	}
	v := t.videos[i]
	t.videos = slices.Delete(t.videos, i, i+1)
	t.mu.Unlock()

	t.revoke(v.MediaURL)
	t.changed(true)
	return nil
}

func (t *Tracker) releaseReplacedBlob(before, after domain.VideoRecord) {
	if before.MediaURL != after.MediaURL {
		t.revoke(before.MediaURL)
	}
}

func (t *Tracker) revoke(url string) {
	if t.opts.Blobs == nil || !strings.HasPrefix(url, domain.BlobScheme) {
		return
	}
	t.opts.Blobs.Revoke(url)
}

// Pending returns the records the poll loop should query: server-assigned
// ids that are still uploading or processing.
func (t *Tracker) Pending() []domain.VideoRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.VideoRecord
	for _, v := range t.videos {
		if _, busy := t.inflight[v.ID]; busy {
			continue
		}
		if v.ID != "" && !IsTempID(v.ID) && v.Status.Pending() {
			out = append(out, v)
		}
	}
	return out
}

// begin marks id as uploading. It reports false if an upload is running.
func (t *Tracker) begin(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.inflight[id]; busy {
		return false
	}
	t.inflight[id] = struct{}{}
	return true
}

func (t *Tracker) end(id string) {
	t.mu.Lock()
	delete(t.inflight, id)
	t.mu.Unlock()
}
