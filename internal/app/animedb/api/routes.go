package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
)

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.store.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"ok": false, "time": now})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "time": now})
}

func (h *Handler) Movies(c echo.Context) error {
	return h.list(c, models.TypeMovie)
}

func (h *Handler) Series(c echo.Context) error {
	return h.list(c, models.TypeSeries)
}

func (h *Handler) Latest(c echo.Context) error {
	return h.list(c, "")
}

func (h *Handler) list(c echo.Context, kind string) error {
	p, err := pageFrom(c)
	if err != nil {
		return err
	}
	docs, err := h.store.List(c.Request().Context(), kind, p)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	p, err := pageFrom(c)
	if err != nil {
		return err
	}
	docs, err := h.store.Search(c.Request().Context(), q, p)
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) Genres(c echo.Context) error {
	genres, err := h.store.Genres(c.Request().Context())
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, genres)
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.store.Stats(c.Request().Context())
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Details(c echo.Context) error {
	a, err := h.store.ByID(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return httpErr(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Stream(c echo.Context) error {
	a, err := h.store.ByID(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return httpErr(err)
	}

	if a.Type == models.TypeMovie {
		links := a.MovieStreamLinks
		if links == nil {
			links = []models.StreamLink{}
		}
		return c.JSON(http.StatusOK, echo.Map{"type": models.TypeMovie, "links": links})
	}

	season, err := optInt(c, "season")
	if err != nil {
		return err
	}
	episode, err := optInt(c, "episode", "bolum")
	if err != nil {
		return err
	}
	if season == nil || episode == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "For series, season & episode required")
	}

	for _, s := range a.Seasons {
		if s.Season != *season {
			continue
		}
		for _, ep := range s.Episodes {
			if ep.Number != *episode {
				continue
			}
			links := ep.StreamLinks
			if links == nil {
				links = []models.StreamLink{}
			}
			return c.JSON(http.StatusOK, echo.Map{
				"type":    models.TypeSeries,
				"season":  *season,
				"episode": *episode,
				"links":   links,
			})
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Season/Episode not found")
}

func (h *Handler) LinkHealth(c echo.Context) error {
	snap := []models.LinkStatus{}
	if h.links != nil {
		snap = h.links.Snapshot()
	}
	down := 0
	for _, ls := range snap {
		if !ls.OK {
			down++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"links": snap, "total": len(snap), "down": down})
}

func (h *Handler) Watch(c echo.Context) error {
	if h.hub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event feed disabled")
	}
	return h.hub.ServeWS(c.Response(), c.Request())
}

func (h *Handler) AddAnime(c echo.Context) error {
	var payload models.AnimeCreate
	if err := c.Bind(&payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.store.Insert(c.Request().Context(), payload)
	if err != nil {
		return httpErr(err)
	}
	h.publish(models.Event{Type: models.EventAnimeAdded, AnimeID: a.ID.Hex(), Title: a.Title})
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) EditAnime(c echo.Context) error {
	id := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	var payload models.AnimeUpdate
	if err := c.Bind(&payload); err != nil {
		return err
	}
	// A body of only null title/type is invalid, not empty.
	if err := payload.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if payload.IsEmpty() {
		return echo.NewHTTPError(http.StatusBadRequest, "No fields to update")
	}
	a, err := h.store.Update(c.Request().Context(), id, payload)
	if err != nil {
		return httpErr(err)
	}
	h.publish(models.Event{Type: models.EventAnimeUpdated, AnimeID: a.ID.Hex(), Title: a.Title})
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) AddLink(c echo.Context) error {
	id := c.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	var payload models.AddLinkPayload
	if err := c.Bind(&payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	a, err := h.store.ByID(ctx, id)
	if err != nil {
		return httpErr(err)
	}
	if a.Type == models.TypeMovie {
		a, err = h.store.AppendMovieLinks(ctx, id, payload.Links)
	} else {
		if payload.Season == nil || payload.Episode == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Season & episode required for series")
		}
		a, err = h.store.AppendEpisodeLinks(ctx, id, *payload.Season, *payload.Episode, payload.Links)
	}
	if err != nil {
		return httpErr(err)
	}
	h.publish(models.Event{
		Type:    models.EventLinksAdded,
		AnimeID: a.ID.Hex(),
		Title:   a.Title,
		Detail:  fmt.Sprintf("%d link(s)", len(payload.Links)),
	})
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAnime(c echo.Context) error {
	id := c.Param("id")
	// Read first so the deletion event can carry the title.
	a, err := h.store.ByID(c.Request().Context(), id)
	if err != nil {
		return httpErr(err)
	}
	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return httpErr(err)
	}
	h.publish(models.Event{Type: models.EventAnimeDeleted, AnimeID: id, Title: a.Title})
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
