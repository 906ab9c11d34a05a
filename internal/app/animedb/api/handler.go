package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/notify"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/store"
	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/watch"
)

// LinkReporter hands out the last known status of every probed stream link.
type LinkReporter interface {
	Snapshot() []models.LinkStatus
}

// Handler owns the HTTP surface of the catalog.
type Handler struct {
	store    store.Store
	hub      *watch.Hub
	notifier *notify.Notifier
	links    LinkReporter
}

func New(st store.Store, hub *watch.Hub, notifier *notify.Notifier, links LinkReporter) *Handler {
	return &Handler{store: st, hub: hub, notifier: notifier, links: links}
}

// Register mounts every route on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/movies", h.Movies)
	e.GET("/series", h.Series)
	e.GET("/latest", h.Latest)
	e.GET("/search", h.Search)
	e.GET("/genres", h.Genres)
	e.GET("/stats", h.Stats)
	e.GET("/getdetails", h.Details)
	e.GET("/stream", h.Stream)
	e.GET("/linkhealth", h.LinkHealth)
	e.GET("/watch", h.Watch)
	e.POST("/addanime", h.AddAnime)
	e.PATCH("/editanime/:id", h.EditAnime)
	e.PATCH("/addlink/:id", h.AddLink)
	e.DELETE("/deleteanime/:id", h.DeleteAnime)
}

// HTTPErrorHandler renders every error as {"detail": ...} so clients see a
// single failure shape no matter where the error came from.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	detail := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		} else {
			detail = http.StatusText(code)
		}
	}
	if err := c.JSON(code, echo.Map{"detail": detail}); err != nil {
		c.Logger().Error(err)
	}
}

// httpErr translates store failures into the API's error vocabulary.
func httpErr(err error) error {
	switch {
	case errors.Is(err, store.ErrBadID):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Anime not found")
	case errors.Is(err, store.ErrNoEpisode):
		return echo.NewHTTPError(http.StatusNotFound, "Season/Episode not found")
	case errors.Is(err, store.ErrNoFields):
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}
	return err
}

func pageFrom(c echo.Context) (store.Page, error) {
	p := store.DefaultPage()
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > store.MaxLimit {
			return p, echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer between 1 and 100")
		}
		p.Limit = n
	}
	if raw := c.QueryParam("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return p, echo.NewHTTPError(http.StatusBadRequest, "skip must be a non-negative integer")
		}
		p.Skip = n
	}
	return p, nil
}

// optInt reads the first of names present in the query string. "bolum"
// survives as a legacy alias for "episode".
func optInt(c echo.Context, names ...string) (*int, error) {
	for _, name := range names {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
		}
		return &n, nil
	}
	return nil, nil
}

// publish stamps an event and fans it out to the websocket feed and the
// configured webhooks.
func (h *Handler) publish(ev models.Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
	if h.notifier != nil {
		h.notifier.Send(ev)
	}
}
