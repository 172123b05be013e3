package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fixture is a fake Innertube endpoint serving a canned player response and
// caption payloads keyed by language.
type fixture struct {
	t        *testing.T
	srv      *httptest.Server
	player   map[string]any
	captions map[string]string // path suffix -> json3 body
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, captions: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/youtubei/v1/player", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			VideoID string `json:"videoId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.VideoID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(f.player)
	})
	mux.HandleFunc("/captions/", func(w http.ResponseWriter, r *http.Request) {
		lang := strings.TrimPrefix(r.URL.Path, "/captions/")
		body, ok := f.captions[lang]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) provider() *YouTube {
	return NewYouTube(WithBaseURL(f.srv.URL), WithHTTPClient(f.srv.Client()))
}

func (f *fixture) track(lang, kind string) map[string]any {
	return map[string]any{
		"baseUrl":      f.srv.URL + "/captions/" + lang + kind,
		"languageCode": lang,
		"kind":         kind,
	}
}

func (f *fixture) setTracks(tracks ...map[string]any) {
	f.player = map[string]any{
		"playabilityStatus": map[string]any{"status": "OK"},
		"captions": map[string]any{
			"playerCaptionsTracklistRenderer": map[string]any{
				"captionTracks": tracks,
			},
		},
	}
}

const json3TwoEvents = `{"events":[
	{"tStartMs":0,"dDurationMs":1500,"segs":[{"utf8":"a"}]},
	{"tStartMs":1500,"dDurationMs":2000,"segs":[{"utf8":"b"}]}
]}`

func TestFetchJoinsSegments(t *testing.T) {
	f := newFixture(t)
	f.setTracks(f.track("en", ""))
	f.captions["en"] = `{"events":[
		{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"never gonna "},{"utf8":"give you up"}]},
		{"tStartMs":1000,"segs":[{"utf8":"\n"}]},
		{"tStartMs":2000,"dDurationMs":1000,"segs":[{"utf8":"never gonna let you down"}]}
	]}`

	entries, err := f.provider().Fetch(context.Background(), "dQw4w9WgXcQ", nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (blank event skipped): %+v", len(entries), entries)
	}
	if entries[0].Text != "never gonna give you up" {
		t.Errorf("entries[0].Text = %q", entries[0].Text)
	}
	if entries[0].Duration != 1.0 || entries[1].Start != 2.0 {
		t.Errorf("timing not carried: %+v", entries)
	}
	if got := JoinText(entries); got != "never gonna give you up\nnever gonna let you down" {
		t.Errorf("JoinText = %q", got)
	}
}

func TestFetchLanguagePreferenceOrder(t *testing.T) {
	f := newFixture(t)
	f.setTracks(f.track("de", ""), f.track("fr", ""))
	f.captions["fr"] = json3TwoEvents
	f.captions["de"] = `{"events":[{"tStartMs":0,"segs":[{"utf8":"nein"}]}]}`

	entries, err := f.provider().Fetch(context.Background(), "vid1", []string{"fr", "de"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if entries[0].Text != "a" {
		t.Errorf("expected the fr track (first preference), got %+v", entries)
	}
}

func TestFetchPrefersManualOverASR(t *testing.T) {
	f := newFixture(t)
	f.setTracks(f.track("en", "asr"), f.track("en", ""))
	f.captions["en"] = json3TwoEvents
	f.captions["enasr"] = `{"events":[{"tStartMs":0,"segs":[{"utf8":"auto"}]}]}`

	entries, err := f.provider().Fetch(context.Background(), "vid1", []string{"en"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if entries[0].Text != "a" {
		t.Errorf("expected manual track, got %+v", entries)
	}
}

func TestFetchFallsBackToASR(t *testing.T) {
	f := newFixture(t)
	f.setTracks(f.track("en", "asr"))
	f.captions["enasr"] = json3TwoEvents

	entries, err := f.provider().Fetch(context.Background(), "vid1", []string{"en"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if entries[0].Text != "a" {
		t.Errorf("expected asr track content, got %+v", entries)
	}
}

func TestFetchDefaultLanguages(t *testing.T) {
	f := newFixture(t)
	f.setTracks(f.track("fr", ""), f.track("en", ""))
	f.captions["en"] = json3TwoEvents

	// nil languages falls back to the provider default ("en").
	entries, err := f.provider().Fetch(context.Background(), "vid1", nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if entries[0].Text != "a" {
		t.Errorf("expected en track via default preference, got %+v", entries)
	}
}

func TestFetchLanguageNotAvailable(t *testing.T) {
	f := newFixture(t)
	f.setTracks(f.track("en", ""))

	_, err := f.provider().Fetch(context.Background(), "vid1", []string{"ja", "ko"})
	var le *LanguageError
	if !errors.As(err, &le) {
		t.Fatalf("expected LanguageError, got %v", err)
	}
	if len(le.Requested) != 2 || le.Requested[0] != "ja" {
		t.Errorf("requested = %v", le.Requested)
	}
	if len(le.Available) != 1 || le.Available[0] != "en" {
		t.Errorf("available = %v", le.Available)
	}
}

func TestFetchNoCaptionTracks(t *testing.T) {
	f := newFixture(t)
	f.player = map[string]any{
		"playabilityStatus": map[string]any{"status": "OK"},
	}

	_, err := f.provider().Fetch(context.Background(), "vid1", nil)
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestFetchUnplayableVideo(t *testing.T) {
	f := newFixture(t)
	f.player = map[string]any{
		"playabilityStatus": map[string]any{
			"status": "ERROR",
			"reason": "Video unavailable",
		},
	}

	_, err := f.provider().Fetch(context.Background(), "nope", nil)
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !strings.Contains(nfe.Error(), "Video unavailable") {
		t.Errorf("reason not surfaced: %v", nfe)
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	f := newFixture(t)
	f.setTracks(f.track("en", ""))
	f.srv.Close()

	_, err := f.provider().Fetch(context.Background(), "vid1", nil)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}
