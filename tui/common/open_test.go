package common

import "testing"

func TestIsSafeExternalURL(t *testing.T) {
	ok := []string{"https://example.com/v/1", "http://localhost:8080/x"}
	bad := []string{"", "file:///etc/passwd", "blob:tmp-1", "javascript:alert(1)", "https://"}
	for _, u := range ok {
		if !IsSafeExternalURL(u) {
			t.Fatalf("expected %q to be safe", u)
		}
	}
	for _, u := range bad {
		if IsSafeExternalURL(u) {
			t.Fatalf("expected %q to be rejected", u)
		}
	}
}

func TestOpenURL_SkipsUnsafe(t *testing.T) {
	var calls [][]string
	prev := startCommand
	startCommand = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	defer func() { startCommand = prev }()

	if msg := OpenURL("file:///tmp/x")(); msg != nil {
		t.Fatalf("expected nil msg")
	}
	if len(calls) != 0 {
		t.Fatalf("unsafe url must not be opened: %v", calls)
	}
	OpenURL("https://example.com/v/1")()
	if len(calls) != 1 || calls[0][len(calls[0])-1] != "https://example.com/v/1" {
		t.Fatalf("expected one opener call, got %v", calls)
	}
}
