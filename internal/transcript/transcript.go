// Package transcript defines the transcript provider contract and the
// YouTube-backed implementation the server ships with. The dispatcher only
// depends on the Provider interface; everything YouTube-specific stays
// behind it.
package transcript

import (
	"context"
	"fmt"
	"strings"
)

// Entry is one captioned segment. Start and Duration are in seconds; the
// tool handler only consumes Text, but callers that want timing get it.
type Entry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Provider fetches the ordered caption entries for a video. languages is a
// preference-ordered list of language codes; first match wins. An empty
// list means the provider's default preference applies.
type Provider interface {
	Fetch(ctx context.Context, videoID string, languages []string) ([]Entry, error)
}

// JoinText concatenates entry texts with newline separators, the transcript
// shape returned to tool callers.
func JoinText(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Text)
	}
	return strings.Join(parts, "\n")
}

// NotFoundError reports that the video does not exist, is unavailable, or
// has no caption tracks at all.
type NotFoundError struct {
	VideoID string
	Reason  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no transcript for video %s: %s", e.VideoID, e.Reason)
}

// LanguageError reports that none of the requested languages matched an
// available caption track.
type LanguageError struct {
	VideoID   string
	Requested []string
	Available []string
}

func (e *LanguageError) Error() string {
	return fmt.Sprintf("no transcript for video %s in languages %v (available: %v)",
		e.VideoID, e.Requested, e.Available)
}

// FetchError wraps transport-level failures (network, decode) with the
// video they occurred for.
type FetchError struct {
	VideoID string
	Op      string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s for video %s: %v", e.Op, e.VideoID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
