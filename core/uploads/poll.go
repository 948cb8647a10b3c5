package uploads

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/domain"
)

// NotFoundMessage is shown when the server no longer knows a record.
const NotFoundMessage = "The server lost track of this upload. Retry to upload it again."

type pollResult struct {
	id     string
	report app.StatusReport
	err    error
}

// Run polls pending records every PollInterval until ctx ends.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.PollOnce(ctx)
		}
	}
}

// PollOnce queries every pending record concurrently and merges all results
// in one step. It returns how many records changed.
func (t *Tracker) PollOnce(ctx context.Context) int {
	if t.opts.Service == nil {
		return 0
	}
	pending := t.Pending()
	if len(pending) == 0 {
		return 0
	}

	results := make([]pollResult, len(pending))
	var g errgroup.Group
	g.SetLimit(pollConcurrency)
	for i, v := range pending {
		g.Go(func() error {
			report, err := t.opts.Service.FetchVideoStatus(ctx, v.ID)
			results[i] = pollResult{id: v.ID, report: report, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return 0
	}
	return t.merge(ctx, results)
}

func (t *Tracker) merge(ctx context.Context, results []pollResult) int {
	type replaced struct{ before, after domain.VideoRecord }
	var changes []replaced

	t.mu.Lock()
	for _, r := range results {
		i := t.indexLocked(r.id)
		if i < 0 {
			continue // removed while in flight
		}
		if _, busy := t.inflight[r.id]; busy {
			continue
		}
		cur := t.videos[i]
		if cur.Status == domain.StatusCompleted {
			continue
		}
		p, ok := t.patchFor(ctx, cur, r)
		if !ok {
			continue
		}
		next := p.Apply(cur)
		t.videos[i] = next
		changes = append(changes, replaced{cur, next})
	}
	t.mu.Unlock()

	if len(changes) == 0 {
		return 0
	}
	for _, c := range changes {
		t.releaseReplacedBlob(c.before, c.after)
	}
	t.changed(true)
	return len(changes)
}

func (t *Tracker) patchFor(ctx context.Context, cur domain.VideoRecord, r pollResult) (Patch, bool) {
	if r.err != nil {
		if errors.Is(r.err, domain.ErrNotFound) {
			t.log.Warn(ctx, "video missing on server", "video_id", r.id)
			return FailedPatch(NotFoundMessage), true
		}
		t.log.Warn(ctx, "status poll failed", "video_id", r.id, "err", r.err)
		return Patch{}, false
	}
	status, ok := domain.ParseStatus(string(r.report.Status))
	if !ok {
		t.log.Warn(ctx, "unknown video status", "video_id", r.id, "status", r.report.Status)
		return Patch{}, false
	}
	switch status {
	case domain.StatusCompleted:
		return CompletedPatch(r.report.Video, r.report.VideoURL), true
	case domain.StatusFailed:
		msg := r.report.Message
		if msg == "" {
			msg = "Processing failed"
		}
		return FailedPatch(msg), true
	default:
		if status == cur.Status {
			return Patch{}, false
		}
		return StatusPatch(status), true
	}
}
