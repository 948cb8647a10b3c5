package common

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap_HasCriticalBindings(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ToggleHints.Keys()) == 0 || km.ToggleHints.Keys()[0] != "?" {
		t.Fatalf("expected ? key binding for hints")
	}
	if len(km.ForceQuit.Keys()) == 0 || km.ForceQuit.Keys()[0] != "ctrl+c" {
		t.Fatalf("expected ctrl+c force quit binding")
	}
	if km.Close.Keys()[0] != "esc" {
		t.Fatalf("expected esc to close")
	}
}

func TestFeedKeyMap_LikeWinsOverRight(t *testing.T) {
	km := FeedKeyMap()
	l := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}
	if key.Matches(l, km.Right) {
		t.Fatalf("right must be disabled in the feed")
	}
	if !key.Matches(l, km.Like) {
		t.Fatalf("l must like in the feed")
	}
	for _, r := range []rune{'m', 'M'} {
		if !key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, km.Mute) {
			t.Fatalf("%c must toggle mute", r)
		}
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, km.PlayPause) {
		t.Fatalf("space must toggle playback")
	}
}
