package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
)

// Memory keeps the catalog in a mutex-guarded map with the same observable
// semantics as the Mongo store. It backs tests and local runs without a
// database; Search does substring matching instead of stemmed text search.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string]models.Anime
	order []string
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]models.Anime)}
}

func (m *Memory) EnsureIndexes(ctx context.Context) error { return nil }

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Insert(ctx context.Context, in models.AnimeCreate) (models.Anime, error) {
	a := in.Anime()
	a.ID = primitive.NewObjectID()
	a.AddedAt = time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	id := a.ID.Hex()
	m.docs[id] = cloneAnime(a)
	m.order = append(m.order, id)
	return cloneAnime(a), nil
}

func (m *Memory) ByID(ctx context.Context, id string) (models.Anime, error) {
	if _, err := oid(id); err != nil {
		return models.Anime{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.docs[id]
	if !ok {
		return models.Anime{}, ErrNotFound
	}
	return cloneAnime(a), nil
}

func (m *Memory) List(ctx context.Context, kind string, p Page) ([]models.Anime, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listWhere(p, func(a models.Anime) bool {
		return kind == "" || a.Type == kind
	}), nil
}

func (m *Memory) Search(ctx context.Context, query string, p Page) ([]models.Anime, error) {
	q := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listWhere(p, func(a models.Anime) bool {
		if strings.Contains(strings.ToLower(a.Title), q) {
			return true
		}
		for _, t := range a.AltTitles {
			if strings.Contains(strings.ToLower(t), q) {
				return true
			}
		}
		return false
	}), nil
}

// listWhere walks insertion order backwards, which is added_at descending.
// Callers hold the lock.
func (m *Memory) listWhere(p Page, match func(models.Anime) bool) []models.Anime {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	out := []models.Anime{}
	skipped := 0
	for i := len(m.order) - 1; i >= 0; i-- {
		a := m.docs[m.order[i]]
		if !match(a) {
			continue
		}
		if skipped < p.Skip {
			skipped++
			continue
		}
		out = append(out, cloneAnime(a))
		if len(out) == p.Limit {
			break
		}
	}
	return out
}

func (m *Memory) Genres(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]bool{}
	for _, a := range m.docs {
		for _, g := range a.Genres {
			seen[g] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Update(ctx context.Context, id string, in models.AnimeUpdate) (models.Anime, error) {
	if _, err := oid(id); err != nil {
		return models.Anime{}, err
	}
	if in.IsEmpty() {
		return models.Anime{}, ErrNoFields
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.docs[id]
	if !ok {
		return models.Anime{}, ErrNotFound
	}
	updated := cloneAnime(a)
	in.Apply(&updated)
	m.docs[id] = cloneAnime(updated)
	return cloneAnime(updated), nil
}

func (m *Memory) AppendMovieLinks(ctx context.Context, id string, links []models.StreamLink) (models.Anime, error) {
	if _, err := oid(id); err != nil {
		return models.Anime{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.docs[id]
	if !ok {
		return models.Anime{}, ErrNotFound
	}
	updated := cloneAnime(a)
	updated.MovieStreamLinks = append(updated.MovieStreamLinks, links...)
	m.docs[id] = updated
	return cloneAnime(updated), nil
}

func (m *Memory) AppendEpisodeLinks(ctx context.Context, id string, season, episode int, links []models.StreamLink) (models.Anime, error) {
	if _, err := oid(id); err != nil {
		return models.Anime{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.docs[id]
	if !ok {
		return models.Anime{}, ErrNotFound
	}
	updated := cloneAnime(a)
	found := false
	for i := range updated.Seasons {
		if updated.Seasons[i].Season != season {
			continue
		}
		for j := range updated.Seasons[i].Episodes {
			if updated.Seasons[i].Episodes[j].Number != episode {
				continue
			}
			ep := &updated.Seasons[i].Episodes[j]
			ep.StreamLinks = append(ep.StreamLinks, links...)
			found = true
		}
	}
	if !found {
		return models.Anime{}, ErrNoEpisode
	}
	m.docs[id] = updated
	return cloneAnime(updated), nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if _, err := oid(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Stats(ctx context.Context) (models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := models.Stats{}
	for _, a := range m.docs {
		switch a.Type {
		case models.TypeMovie:
			st.Movies++
		case models.TypeSeries:
			st.Series++
		}
		st.Total++
	}
	return st, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneLinks(ls []models.StreamLink) []models.StreamLink {
	if ls == nil {
		return nil
	}
	out := make([]models.StreamLink, len(ls))
	copy(out, ls)
	return out
}

func cloneSeasons(ss []models.Season) []models.Season {
	if ss == nil {
		return nil
	}
	out := make([]models.Season, len(ss))
	for i, s := range ss {
		cs := s
		if s.Episodes != nil {
			cs.Episodes = make([]models.Episode, len(s.Episodes))
			for j, ep := range s.Episodes {
				cep := ep
				cep.StreamLinks = cloneLinks(ep.StreamLinks)
				cs.Episodes[j] = cep
			}
		}
		out[i] = cs
	}
	return out
}

func cloneAnime(a models.Anime) models.Anime {
	out := a
	out.AltTitles = cloneStrings(a.AltTitles)
	out.Genres = cloneStrings(a.Genres)
	out.MovieStreamLinks = cloneLinks(a.MovieStreamLinks)
	out.Seasons = cloneSeasons(a.Seasons)
	return out
}
