package domain

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want VideoStatus
		ok   bool
	}{
		{in: "uploading", want: StatusUploading, ok: true},
		{in: " Processing ", want: StatusProcessing, ok: true},
		{in: "completed", want: StatusCompleted, ok: true},
		{in: "ready", want: StatusCompleted, ok: true},
		{in: "failed", want: StatusFailed, ok: true},
		{in: "bogus", ok: false},
	}
	for _, tc := range tests {
		got, ok := ParseStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStatus(%q) = (%q,%v), want (%q,%v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestVisibleProgress_OnlyWhileUploading(t *testing.T) {
	v := VideoRecord{Status: StatusUploading, Progress: 140}
	if p, ok := v.VisibleProgress(); !ok || p != 100 {
		t.Fatalf("expected clamped progress while uploading, got %d %v", p, ok)
	}
	v.Status = StatusProcessing
	if _, ok := v.VisibleProgress(); ok {
		t.Fatalf("progress must not be visible once processing")
	}
}

func TestParseHashtags(t *testing.T) {
	got := ParseHashtags("#Go, backend  #go remote")
	if len(got) != 3 || got[0] != "go" || got[1] != "backend" || got[2] != "remote" {
		t.Fatalf("unexpected hashtags: %#v", got)
	}
}

func TestUploadDraftValidate(t *testing.T) {
	if err := (UploadDraft{Title: "x"}).Validate(); err != ErrNoMedia {
		t.Fatalf("expected ErrNoMedia, got %v", err)
	}
	if err := (UploadDraft{FilePath: "a.mp4"}).Validate(); err != ErrEmptyTitle {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if err := (UploadDraft{FilePath: "a.mp4", Title: "Intro"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
