package store

import (
	"context"
	"errors"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
)

var (
	ErrBadID     = errors.New("invalid id")
	ErrNotFound  = errors.New("anime not found")
	ErrNoEpisode = errors.New("season/episode not found")
	ErrNoFields  = errors.New("no fields to update")
)

const (
	DefaultLimit = 24
	MaxLimit     = 100
)

// Page is a skip/limit window over a listing, newest first.
type Page struct {
	Limit int
	Skip  int
}

func DefaultPage() Page {
	return Page{Limit: DefaultLimit}
}

// Store is the catalog persistence contract. Kind arguments take
// models.TypeMovie, models.TypeSeries, or "" for all titles.
type Store interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, in models.AnimeCreate) (models.Anime, error)
	ByID(ctx context.Context, id string) (models.Anime, error)
	List(ctx context.Context, kind string, p Page) ([]models.Anime, error)
	Search(ctx context.Context, query string, p Page) ([]models.Anime, error)
	Genres(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id string, in models.AnimeUpdate) (models.Anime, error)
	AppendMovieLinks(ctx context.Context, id string, links []models.StreamLink) (models.Anime, error)
	AppendEpisodeLinks(ctx context.Context, id string, season, episode int, links []models.StreamLink) (models.Anime, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (models.Stats, error)
	Ping(ctx context.Context) error
}
