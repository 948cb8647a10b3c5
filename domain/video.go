package domain

import (
	"strings"
	"time"
)

// VideoStatus is the lifecycle state of a video record.
type VideoStatus string

const (
	StatusUploading  VideoStatus = "uploading"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

// ParseStatus maps a wire value onto a VideoStatus. Unknown values report false.
func ParseStatus(s string) (VideoStatus, bool) {
	switch VideoStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusUploading:
		return StatusUploading, true
	case StatusProcessing:
		return StatusProcessing, true
	case StatusCompleted, "ready", "done":
		return StatusCompleted, true
	case StatusFailed, "error":
		return StatusFailed, true
	}
	return "", false
}

// Pending reports whether the record is still moving through the pipeline.
func (s VideoStatus) Pending() bool {
	return s == StatusUploading || s == StatusProcessing
}

// Terminal reports whether no further server transitions are expected.
func (s VideoStatus) Terminal() bool {
	return s == StatusCompleted
}

// Owner is the person a video resume belongs to.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Role        string `json:"role,omitempty"` // candidate, recruiter, ...
}

// VideoRecord is the unit the feed, grid and upload tracker operate on.
type VideoRecord struct {
	ID              string      `json:"id"`
	MediaURL        string      `json:"mediaUrl"`
	PosterURL       string      `json:"posterUrl,omitempty"`
	Title           string      `json:"title"`
	Hashtags        []string    `json:"hashtags,omitempty"`
	DurationSeconds float64     `json:"durationSeconds,omitempty"`
	Owner           Owner       `json:"owner"`
	Status          VideoStatus `json:"status"`
	IsLocal         bool        `json:"isLocal"`
	Progress        int         `json:"progress"`
	LikesCount      int         `json:"likesCount"`
	ViewsCount      int         `json:"viewsCount"`
	SubmittedAt     time.Time   `json:"submittedAt"`
	ErrorMessage    string      `json:"errorMessage,omitempty"`
	ShareURL        string      `json:"shareUrl,omitempty"`
}

// IsBlobBacked reports whether the media lives in the client-side blob store.
func (v VideoRecord) IsBlobBacked() bool {
	return strings.HasPrefix(v.MediaURL, BlobScheme)
}

// VisibleProgress returns the upload progress and whether it may be shown.
// Progress is meaningless once the record leaves the uploading state.
func (v VideoRecord) VisibleProgress() (int, bool) {
	if v.Status != StatusUploading {
		return 0, false
	}
	return min(max(v.Progress, 0), 100), true
}

// BlobScheme prefixes media URLs that point into the local blob store.
const BlobScheme = "blob:"

// UploadDraft is what the user supplies when starting an upload.
type UploadDraft struct {
	FilePath        string
	Title           string
	Hashtags        []string
	DurationSeconds float64
	Owner           Owner
}

// Validate checks the draft has the fields an upload needs.
func (d UploadDraft) Validate() error {
	if strings.TrimSpace(d.FilePath) == "" {
		return ErrNoMedia
	}
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ParseHashtags splits free text into normalized hashtags without the '#'.
func ParseHashtags(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tag := strings.ToLower(strings.TrimSpace(strings.TrimLeft(f, "#")))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
