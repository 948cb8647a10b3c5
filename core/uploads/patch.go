package uploads

import "github.com/CrestNiraj12/reelhire/domain"

// Patch is a partial update to a tracked record. Nil fields are left alone.
type Patch struct {
	Status       *domain.VideoStatus
	Progress     *int
	IsLocal      *bool
	ErrorMessage *string
	MediaURL     *string
	PosterURL    *string
	// Server carries final metadata reported by the API. Its non-empty
	// fields replace the local ones; the id is never taken from it.
	Server *domain.VideoRecord
}

// StatusPatch sets the status.
func StatusPatch(s domain.VideoStatus) Patch { return Patch{Status: &s} }

// ProgressPatch sets upload progress, clamped to [0,100].
func ProgressPatch(p int) Patch {
	p = min(max(p, 0), 100)
	return Patch{Progress: &p}
}

// FailedPatch marks the record failed with a message. It stays local so the
// user can retry it.
func FailedPatch(msg string) Patch {
	s := domain.StatusFailed
	local := true
	return Patch{Status: &s, ErrorMessage: &msg, IsLocal: &local}
}

// CompletedPatch marks the record completed with the server's final metadata.
func CompletedPatch(server *domain.VideoRecord, mediaURL string) Patch {
	s := domain.StatusCompleted
	local := false
	empty := ""
	p := Patch{Status: &s, IsLocal: &local, ErrorMessage: &empty, Server: server}
	if mediaURL != "" {
		p.MediaURL = &mediaURL
	}
	return p
}

// Apply returns v with p merged in. A completed record ignores status and
// progress changes so late responses cannot pull it back.
func (p Patch) Apply(v domain.VideoRecord) domain.VideoRecord {
	completed := v.Status == domain.StatusCompleted
	if p.Server != nil {
		v = mergeServer(v, *p.Server)
	}
	if p.Status != nil && !completed {
		v.Status = *p.Status
	}
	if p.Progress != nil && !completed {
		v.Progress = *p.Progress
	}
	if p.IsLocal != nil && !completed {
		v.IsLocal = *p.IsLocal
	}
	if p.ErrorMessage != nil {
		v.ErrorMessage = *p.ErrorMessage
	}
	if p.MediaURL != nil {
		v.MediaURL = *p.MediaURL
	}
	if p.PosterURL != nil {
		v.PosterURL = *p.PosterURL
	}
	return v
}

func mergeServer(v, s domain.VideoRecord) domain.VideoRecord {
	if s.MediaURL != "" {
		v.MediaURL = s.MediaURL
	}
	if s.PosterURL != "" {
		v.PosterURL = s.PosterURL
	}
	if s.Title != "" {
		v.Title = s.Title
	}
	if len(s.Hashtags) > 0 {
		v.Hashtags = s.Hashtags
	}
	if s.DurationSeconds > 0 {
		v.DurationSeconds = s.DurationSeconds
	}
	if s.Owner.ID != "" {
		v.Owner = s.Owner
	}
	if s.ShareURL != "" {
		v.ShareURL = s.ShareURL
	}
	if !s.SubmittedAt.IsZero() {
		v.SubmittedAt = s.SubmittedAt
	}
	v.LikesCount = max(v.LikesCount, s.LikesCount)
	v.ViewsCount = max(v.ViewsCount, s.ViewsCount)
	return v
}
