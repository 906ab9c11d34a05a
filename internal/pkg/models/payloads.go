package models

import "encoding/json"

type AnimeCreate struct {
	Title            string       `json:"title"`
	AltTitles        []string     `json:"alt_titles"`
	Type             string       `json:"type"`
	Year             *int         `json:"year"`
	Synopsis         *string      `json:"synopsis"`
	Genres           []string     `json:"genres"`
	PosterURL        *string      `json:"poster_url"`
	MovieStreamLinks []StreamLink `json:"movie_stream_links"`
	Seasons          []Season     `json:"seasons"`
}

// Anime builds the document to persist. AltTitles and Genres always
// serialize as arrays, never null.
func (c AnimeCreate) Anime() Anime {
	a := Anime{
		Title:            c.Title,
		AltTitles:        c.AltTitles,
		Type:             c.Type,
		Year:             c.Year,
		Synopsis:         c.Synopsis,
		Genres:           c.Genres,
		PosterURL:        c.PosterURL,
		MovieStreamLinks: c.MovieStreamLinks,
		Seasons:          c.Seasons,
	}
	if a.AltTitles == nil {
		a.AltTitles = []string{}
	}
	if a.Genres == nil {
		a.Genres = []string{}
	}
	return a
}

// AnimeUpdate carries a partial edit. A nil field means "leave unchanged"
// unless the body spelled out an explicit null, which clears the field.
type AnimeUpdate struct {
	Title            *string      `json:"title"`
	AltTitles        []string     `json:"alt_titles"`
	Type             *string      `json:"type"`
	Year             *int         `json:"year"`
	Synopsis         *string      `json:"synopsis"`
	Genres           []string     `json:"genres"`
	PosterURL        *string      `json:"poster_url"`
	MovieStreamLinks []StreamLink `json:"movie_stream_links"`
	Seasons          []Season     `json:"seasons"`

	present map[string]bool
}

// UnmarshalJSON records which keys the body carried. A nil pointer alone
// cannot tell "absent" from "null", and only the latter clears a field.
func (u *AnimeUpdate) UnmarshalJSON(data []byte) error {
	type plain AnimeUpdate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*u = AnimeUpdate(p)
	if len(keys) > 0 {
		u.present = make(map[string]bool, len(keys))
		for k := range keys {
			u.present[k] = true
		}
	}
	return nil
}

// nulled reports whether the body carried an explicit null for name. Updates
// built in code have no key record, so for them this is always false.
func (u AnimeUpdate) nulled(name string) bool {
	return u.present[name]
}

// Fields returns the supplied fields keyed by their wire names, ready for a
// $set update document. Explicit nulls map to nil; alt_titles and genres
// never go null on the wire, so a null there resets to an empty array.
// Title and type cannot be cleared and are dropped when null.
func (u AnimeUpdate) Fields() map[string]any {
	f := map[string]any{}
	if u.Title != nil {
		f["title"] = *u.Title
	}
	if u.Type != nil {
		f["type"] = *u.Type
	}
	if u.AltTitles != nil {
		f["alt_titles"] = u.AltTitles
	} else if u.nulled("alt_titles") {
		f["alt_titles"] = []string{}
	}
	if u.Year != nil {
		f["year"] = *u.Year
	} else if u.nulled("year") {
		f["year"] = nil
	}
	if u.Synopsis != nil {
		f["synopsis"] = *u.Synopsis
	} else if u.nulled("synopsis") {
		f["synopsis"] = nil
	}
	if u.Genres != nil {
		f["genres"] = u.Genres
	} else if u.nulled("genres") {
		f["genres"] = []string{}
	}
	if u.PosterURL != nil {
		f["poster_url"] = *u.PosterURL
	} else if u.nulled("poster_url") {
		f["poster_url"] = nil
	}
	if u.MovieStreamLinks != nil {
		f["movie_stream_links"] = u.MovieStreamLinks
	} else if u.nulled("movie_stream_links") {
		f["movie_stream_links"] = nil
	}
	if u.Seasons != nil {
		f["seasons"] = u.Seasons
	} else if u.nulled("seasons") {
		f["seasons"] = nil
	}
	return f
}

func (u AnimeUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// Apply writes the supplied fields onto an existing document, mirroring the
// semantics of Fields.
func (u AnimeUpdate) Apply(a *Anime) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Type != nil {
		a.Type = *u.Type
	}
	if u.AltTitles != nil {
		a.AltTitles = u.AltTitles
	} else if u.nulled("alt_titles") {
		a.AltTitles = []string{}
	}
	if u.Year != nil || u.nulled("year") {
		a.Year = u.Year
	}
	if u.Synopsis != nil || u.nulled("synopsis") {
		a.Synopsis = u.Synopsis
	}
	if u.Genres != nil {
		a.Genres = u.Genres
	} else if u.nulled("genres") {
		a.Genres = []string{}
	}
	if u.PosterURL != nil || u.nulled("poster_url") {
		a.PosterURL = u.PosterURL
	}
	if u.MovieStreamLinks != nil || u.nulled("movie_stream_links") {
		a.MovieStreamLinks = u.MovieStreamLinks
	}
	if u.Seasons != nil || u.nulled("seasons") {
		a.Seasons = u.Seasons
	}
}

type AddLinkPayload struct {
	Season  *int         `json:"season"`
	Episode *int         `json:"episode"`
	Links   []StreamLink `json:"links"`
}
