package models

import (
	"fmt"
	"net/url"
	"strings"
)

func validType(t string) bool {
	return t == TypeMovie || t == TypeSeries
}

// checkURL accepts absolute http(s) URLs only.
func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q: must be an absolute http(s) url", raw)
	}
	return nil
}

func checkLinks(links []StreamLink) error {
	for _, l := range links {
		if strings.TrimSpace(l.Label) == "" {
			return fmt.Errorf("stream link label is required")
		}
		if err := checkURL(l.URL); err != nil {
			return err
		}
	}
	return nil
}

func checkSeasons(seasons []Season) error {
	for _, s := range seasons {
		if s.Season < 1 {
			return fmt.Errorf("season number must be >= 1")
		}
		for _, ep := range s.Episodes {
			if ep.Number < 1 {
				return fmt.Errorf("episode number must be >= 1")
			}
			if err := checkLinks(ep.StreamLinks); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c AnimeCreate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !validType(c.Type) {
		return fmt.Errorf("type must be %q or %q", TypeMovie, TypeSeries)
	}
	if c.PosterURL != nil {
		if err := checkURL(*c.PosterURL); err != nil {
			return err
		}
	}
	if err := checkLinks(c.MovieStreamLinks); err != nil {
		return err
	}
	return checkSeasons(c.Seasons)
}

func (u AnimeUpdate) Validate() error {
	// A null cannot clear title or type; the document requires them.
	if (u.Title != nil && strings.TrimSpace(*u.Title) == "") || (u.Title == nil && u.nulled("title")) {
		return fmt.Errorf("title must not be empty")
	}
	if (u.Type != nil && !validType(*u.Type)) || (u.Type == nil && u.nulled("type")) {
		return fmt.Errorf("type must be %q or %q", TypeMovie, TypeSeries)
	}
	if u.PosterURL != nil {
		if err := checkURL(*u.PosterURL); err != nil {
			return err
		}
	}
	if err := checkLinks(u.MovieStreamLinks); err != nil {
		return err
	}
	return checkSeasons(u.Seasons)
}

func (p AddLinkPayload) Validate() error {
	if len(p.Links) == 0 {
		return fmt.Errorf("links must not be empty")
	}
	return checkLinks(p.Links)
}
