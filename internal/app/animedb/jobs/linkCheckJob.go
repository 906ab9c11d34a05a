package jobs

import (
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/config"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/notify"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/requests"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/store"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/watch"
)

const clientCount = 8

// target is one URL worth probing, with enough context to report on it.
type target struct {
	animeID string
	title   string
	label   string
	url     string
}

// LinkChecker sweeps the catalog's stream links and poster URLs on an
// interval and remembers the last observed status of each.
type LinkChecker struct {
	cfg      config.Config
	store    store.Store
	hub      *watch.Hub
	notifier *notify.Notifier

	pool []*fasthttp.Client

	mu       sync.Mutex
	statuses map[string]models.LinkStatus
}

func New(cfg config.Config, st store.Store, hub *watch.Hub, notifier *notify.Notifier) *LinkChecker {
	lc := &LinkChecker{
		cfg:      cfg,
		store:    st,
		hub:      hub,
		notifier: notifier,
		statuses: make(map[string]models.LinkStatus),
	}
	for i := 0; i < clientCount; i++ {
		lc.pool = append(lc.pool, &fasthttp.Client{
			TLSConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		})
	}
	return lc
}

// Run sweeps once at startup, then on every tick until ctx is cancelled.
func (lc *LinkChecker) Run(ctx context.Context) {
	lc.sweep(ctx)
	ticker := time.NewTicker(lc.cfg.LinkCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			lc.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (lc *LinkChecker) sweep(ctx context.Context) {
	docs, err := lc.store.List(ctx, "", store.Page{Limit: lc.cfg.LinkCheckLimit})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, a := range docs {
		for _, t := range collectTargets(a) {
			select {
			case <-ctx.Done():
				return
			default:
			}
			go lc.check(t, lc.pool[rand.Intn(clientCount)])
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// collectTargets flattens every probeable URL out of one document.
func collectTargets(a models.Anime) []target {
	id := a.ID.Hex()
	var ts []target
	if a.PosterURL != nil && *a.PosterURL != "" {
		ts = append(ts, target{animeID: id, title: a.Title, label: "poster", url: *a.PosterURL})
	}
	for _, l := range a.MovieStreamLinks {
		ts = append(ts, target{animeID: id, title: a.Title, label: l.Label, url: l.URL})
	}
	for _, s := range a.Seasons {
		for _, e := range s.Episodes {
			for _, l := range e.StreamLinks {
				label := fmt.Sprintf("s%de%d %s", s.Season, e.Number, l.Label)
				ts = append(ts, target{animeID: id, title: a.Title, label: label, url: l.URL})
			}
		}
	}
	return ts
}

func (lc *LinkChecker) check(t target, cli *fasthttp.Client) {
	statusCode, body, err := requests.Get(cli, t.url)
	ls := models.LinkStatus{
		AnimeID:    t.animeID,
		Label:      t.label,
		URL:        t.url,
		OK:         err == nil && statusCode >= 200 && statusCode < 400,
		StatusCode: statusCode,
		CheckedAt:  time.Now().UTC(),
	}
	if ls.OK && looksLikeHTML(body) {
		ls.PageTitle = pageTitle(body)
	}
	lc.record(t, ls)
}

// record stores the probe result and reports up/down transitions. A link
// seen healthy on its first probe is not news; a link seen dead is.
func (lc *LinkChecker) record(t target, ls models.LinkStatus) {
	key := t.animeID + "|" + t.label + "|" + t.url

	lc.mu.Lock()
	prev, seen := lc.statuses[key]
	lc.statuses[key] = ls
	lc.mu.Unlock()

	if seen && prev.OK == ls.OK {
		return
	}
	if !seen && ls.OK {
		return
	}

	evType := models.EventLinkUp
	if !ls.OK {
		evType = models.EventLinkDown
	}
	fmt.Printf("%s: %s %s status %d\n", evType, t.title, t.label, ls.StatusCode)
	ev := models.Event{
		Type:    evType,
		AnimeID: ls.AnimeID,
		Title:   t.title,
		Detail:  fmt.Sprintf("%s (%d)", t.label, ls.StatusCode),
		Time:    ls.CheckedAt,
	}
	lc.hub.Broadcast(ev)
	lc.notifier.Send(ev)
}

// Snapshot returns the last known status of every probed link.
func (lc *LinkChecker) Snapshot() []models.LinkStatus {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	out := make([]models.LinkStatus, 0, len(lc.statuses))
	for _, ls := range lc.statuses {
		out = append(out, ls)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AnimeID != out[j].AnimeID {
			return out[i].AnimeID < out[j].AnimeID
		}
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].URL < out[j].URL
	})
	return out
}
