package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://www.youtube.com"

	// The ANDROID player client returns caption tracks without requiring
	// cookies or a signature timestamp.
	androidClientName    = "ANDROID"
	androidClientVersion = "20.10.38"
	androidSDKVersion    = 30
)

// YouTube fetches transcripts through the Innertube player API: one call to
// resolve the caption track list, one call to download the selected track
// as json3 events.
type YouTube struct {
	client    *http.Client
	baseURL   string
	defaults  []string
	log       *slog.Logger
	userAgent string
}

// YouTubeOption customizes a YouTube provider.
type YouTubeOption func(*YouTube)

// WithHTTPClient overrides the HTTP client (and with it, the timeout).
func WithHTTPClient(c *http.Client) YouTubeOption {
	return func(y *YouTube) {
		if c != nil {
			y.client = c
		}
	}
}

// WithBaseURL points the provider at an alternate endpoint. Used in tests.
func WithBaseURL(u string) YouTubeOption {
	return func(y *YouTube) {
		if u != "" {
			y.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

// WithDefaultLanguages sets the preference list applied when the caller
// sends none.
func WithDefaultLanguages(langs []string) YouTubeOption {
	return func(y *YouTube) {
		if len(langs) > 0 {
			y.defaults = langs
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) YouTubeOption {
	return func(y *YouTube) {
		if l != nil {
			y.log = l
		}
	}
}

// NewYouTube constructs a YouTube provider with a 30s client timeout unless
// overridden.
func NewYouTube(opts ...YouTubeOption) *YouTube {
	y := &YouTube{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   defaultBaseURL,
		defaults:  []string{"en"},
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		userAgent: "com.google.android.youtube/" + androidClientVersion + " (Linux; U; Android 11) gzip",
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Fetch implements Provider.
func (y *YouTube) Fetch(ctx context.Context, videoID string, languages []string) ([]Entry, error) {
	if len(languages) == 0 {
		languages = y.defaults
	}

	tracks, err := y.listCaptionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track, err := selectTrack(videoID, tracks, languages)
	if err != nil {
		return nil, err
	}
	y.log.DebugContext(ctx, "selected caption track",
		slog.String("video_id", videoID),
		slog.String("language", track.LanguageCode),
		slog.String("kind", track.Kind))

	return y.fetchTrack(ctx, videoID, track)
}

type playerRequest struct {
	Context playerContext `json:"context"`
	VideoID string        `json:"videoId"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSDKVersion int    `json:"androidSdkVersion"`
	HL                string `json:"hl"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for auto-generated tracks, empty for manual ones.
	Kind string `json:"kind"`
}

func (y *YouTube) listCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := json.Marshal(playerRequest{
		Context: playerContext{Client: playerClient{
			ClientName:        androidClientName,
			ClientVersion:     androidClientVersion,
			AndroidSDKVersion: androidSDKVersion,
			HL:                "en",
		}},
		VideoID: videoID,
	})
	if err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "encoding player request", Err: err}
	}

	url := y.baseURL + "/youtubei/v1/player?prettyPrint=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "building player request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", y.userAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "calling player API", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{VideoID: videoID, Op: "calling player API",
			Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var pr playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "decoding player response", Err: err}
	}

	if status := pr.PlayabilityStatus.Status; status != "" && status != "OK" {
		reason := pr.PlayabilityStatus.Reason
		if reason == "" {
			reason = "video is unplayable (" + status + ")"
		}
		return nil, &NotFoundError{VideoID: videoID, Reason: reason}
	}

	tracks := pr.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, &NotFoundError{VideoID: videoID, Reason: "no caption tracks available"}
	}
	return tracks, nil
}

// selectTrack walks the preference list in order; within one language a
// manually created track beats an auto-generated one.
func selectTrack(videoID string, tracks []captionTrack, languages []string) (*captionTrack, error) {
	for _, lang := range languages {
		var asr *captionTrack
		for i := range tracks {
			t := &tracks[i]
			if !strings.EqualFold(t.LanguageCode, lang) {
				continue
			}
			if t.Kind == "asr" {
				if asr == nil {
					asr = t
				}
				continue
			}
			return t, nil
		}
		if asr != nil {
			return asr, nil
		}
	}

	available := make([]string, 0, len(tracks))
	for _, t := range tracks {
		available = append(available, t.LanguageCode)
	}
	return nil, &LanguageError{VideoID: videoID, Requested: languages, Available: available}
}

type json3Payload struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func (y *YouTube) fetchTrack(ctx context.Context, videoID string, track *captionTrack) ([]Entry, error) {
	url := track.BaseURL
	if strings.Contains(url, "?") {
		url += "&fmt=json3"
	} else {
		url += "?fmt=json3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "building caption request", Err: err}
	}
	req.Header.Set("User-Agent", y.userAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "fetching captions", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{VideoID: videoID, Op: "fetching captions",
			Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "reading captions", Err: err}
	}

	var payload json3Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &FetchError{VideoID: videoID, Op: "decoding captions", Err: err}
	}

	entries := make([]Entry, 0, len(payload.Events))
	for _, ev := range payload.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		entries = append(entries, Entry{
			Text:     text,
			Start:    float64(ev.StartMs) / 1000,
			Duration: float64(ev.DurationMs) / 1000,
		})
	}
	if len(entries) == 0 {
		return nil, &NotFoundError{VideoID: videoID, Reason: "caption track is empty"}
	}
	return entries, nil
}
