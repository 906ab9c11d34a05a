package jobs

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/config"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/notify"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/store"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/watch"
)

func TestPageTitle(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"simple", "<html><head><title>Episode 1 - HD</title></head><body></body></html>", "Episode 1 - HD"},
		{"whitespace", "<html><title>\n  Akira  \n</title></html>", "Akira"},
		{"empty title", "<html><title></title><body>x</body></html>", ""},
		{"no title", "<html><body>nothing here</body></html>", ""},
		{"not html", `{"error":"not found"}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pageTitle([]byte(tc.body)); got != tc.want {
				t.Errorf("pageTitle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLooksLikeHTML(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"doctype", "<!DOCTYPE html><html></html>", true},
		{"upper tag", "<HTML><body></body></HTML>", true},
		{"leading junk", "   \n<html lang=\"en\">", true},
		{"json", `{"ok":true}`, false},
		{"binary", "\x89PNG\r\n\x1a\n", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := looksLikeHTML([]byte(tc.body)); got != tc.want {
				t.Errorf("looksLikeHTML = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCollectTargets(t *testing.T) {
	poster := "https://img.example.com/poster.jpg"
	a := models.Anime{
		ID:        primitive.NewObjectID(),
		Title:     "Monster",
		Type:      models.TypeSeries,
		PosterURL: &poster,
		MovieStreamLinks: []models.StreamLink{
			{Label: "1080p", URL: "https://cdn.example.com/movie"},
		},
		Seasons: []models.Season{
			{Season: 1, Episodes: []models.Episode{
				{Number: 2, StreamLinks: []models.StreamLink{{Label: "720p", URL: "https://cdn.example.com/s1e2"}}},
			}},
		},
	}

	ts := collectTargets(a)
	if len(ts) != 3 {
		t.Fatalf("got %d targets, want 3", len(ts))
	}
	wantLabels := []string{"poster", "1080p", "s1e2 720p"}
	for i, want := range wantLabels {
		if ts[i].label != want {
			t.Errorf("target %d label = %q, want %q", i, ts[i].label, want)
		}
		if ts[i].animeID != a.ID.Hex() {
			t.Errorf("target %d animeID = %q", i, ts[i].animeID)
		}
		if ts[i].title != "Monster" {
			t.Errorf("target %d title = %q", i, ts[i].title)
		}
	}
}

func newTestChecker() *LinkChecker {
	return New(config.Config{LinkCheckInterval: time.Minute, LinkCheckLimit: 100},
		store.NewMemory(), watch.NewHub(), notify.New())
}

func TestRecordTracksTransitions(t *testing.T) {
	lc := newTestChecker()
	tg := target{animeID: "a1", title: "Akira", label: "1080p", url: "https://cdn.example.com/akira"}

	lc.record(tg, models.LinkStatus{AnimeID: "a1", Label: "1080p", URL: tg.url, OK: true, StatusCode: 200})
	snap := lc.Snapshot()
	if len(snap) != 1 || !snap[0].OK {
		t.Fatalf("after healthy probe: %+v", snap)
	}

	lc.record(tg, models.LinkStatus{AnimeID: "a1", Label: "1080p", URL: tg.url, OK: false, StatusCode: 503})
	snap = lc.Snapshot()
	if len(snap) != 1 || snap[0].OK || snap[0].StatusCode != 503 {
		t.Fatalf("after failed probe: %+v", snap)
	}

	// Repeating the same state must not grow the snapshot.
	lc.record(tg, models.LinkStatus{AnimeID: "a1", Label: "1080p", URL: tg.url, OK: false, StatusCode: 503})
	if snap = lc.Snapshot(); len(snap) != 1 {
		t.Fatalf("snapshot grew to %d entries", len(snap))
	}
}

func TestSnapshotIsSorted(t *testing.T) {
	lc := newTestChecker()
	lc.record(target{animeID: "b", label: "x", url: "u1"}, models.LinkStatus{AnimeID: "b", Label: "x", URL: "u1", OK: true})
	lc.record(target{animeID: "a", label: "z", url: "u2"}, models.LinkStatus{AnimeID: "a", Label: "z", URL: "u2", OK: true})
	lc.record(target{animeID: "a", label: "y", url: "u3"}, models.LinkStatus{AnimeID: "a", Label: "y", URL: "u3", OK: true})

	snap := lc.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("got %d entries", len(snap))
	}
	if snap[0].AnimeID != "a" || snap[0].Label != "y" || snap[2].AnimeID != "b" {
		t.Fatalf("unsorted snapshot: %+v", snap)
	}
}

func TestCheckProbesServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("<html><head><title>Watch Akira</title></head></html>"))
		default:
			http.Error(w, "gone", http.StatusGone)
		}
	}))
	defer srv.Close()

	lc := newTestChecker()
	lc.check(target{animeID: "a1", title: "Akira", label: "1080p", url: srv.URL + "/ok"}, lc.pool[0])
	lc.check(target{animeID: "a1", title: "Akira", label: "720p", url: srv.URL + "/dead"}, lc.pool[1])

	snap := lc.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("got %d entries, want 2", len(snap))
	}
	for _, ls := range snap {
		switch ls.Label {
		case "1080p":
			if !ls.OK || ls.StatusCode != 200 || ls.PageTitle != "Watch Akira" {
				t.Errorf("healthy link recorded as %+v", ls)
			}
		case "720p":
			if ls.OK || ls.StatusCode != http.StatusGone {
				t.Errorf("dead link recorded as %+v", ls)
			}
		default:
			t.Errorf("unexpected label %q", ls.Label)
		}
	}
}
