package common

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/CrestNiraj12/reelhire/domain"
)

// Count renders 1234 as "1.2k".
func Count(n int) string {
	if n < 1000 {
		return humanize.Comma(int64(n))
	}
	v, unit := humanize.ComputeSI(float64(n))
	s := humanize.FtoaWithDigits(v, 1)
	return s + strings.ToLower(unit)
}

// Ago renders a time relative to now, or "" for the zero time.
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Bytes renders a byte count for humans.
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Duration renders seconds as m:ss.
func Duration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return humanize.Comma(int64(m)) + ":" + twoDigits(s)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return humanize.Comma(int64(n))
}

// Truncate cuts s to width display cells, ANSI-aware, adding an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Hashtags renders tags with their '#'.
func Hashtags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, "#"+t)
	}
	return strings.Join(out, " ")
}

// StatusLabel is the badge text for a record's lifecycle state.
func StatusLabel(v domain.VideoRecord) string {
	switch v.Status {
	case domain.StatusUploading:
		if p, ok := v.VisibleProgress(); ok {
			return "Uploading " + humanize.Comma(int64(p)) + "%"
		}
		return "Uploading"
	case domain.StatusProcessing:
		return "Processing"
	case domain.StatusFailed:
		return "Failed"
	}
	return ""
}
