package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeMovie  = "movie"
	TypeSeries = "series"
)

type StreamLink struct {
	Label string `json:"label" bson:"label"`
	URL   string `json:"url" bson:"url"`
}

type Episode struct {
	Number      int          `json:"number" bson:"number"`
	Title       *string      `json:"title" bson:"title,omitempty"`
	StreamLinks []StreamLink `json:"stream_links" bson:"stream_links,omitempty"`
}

type Season struct {
	Season   int       `json:"season" bson:"season"`
	Episodes []Episode `json:"episodes" bson:"episodes,omitempty"`
}

type Anime struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	AltTitles        []string           `json:"alt_titles" bson:"alt_titles"`
	Type             string             `json:"type" bson:"type"`
	Year             *int               `json:"year" bson:"year,omitempty"`
	Synopsis         *string            `json:"synopsis" bson:"synopsis,omitempty"`
	Genres           []string           `json:"genres" bson:"genres"`
	PosterURL        *string            `json:"poster_url" bson:"poster_url,omitempty"`
	AddedAt          time.Time          `json:"added_at" bson:"added_at"`
	MovieStreamLinks []StreamLink       `json:"movie_stream_links" bson:"movie_stream_links,omitempty"`
	Seasons          []Season           `json:"seasons" bson:"seasons,omitempty"`
}
