package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/seasmoffi-gif/AnimeDB-api/internal/pkg/models"
)

const colAnime = "anime"

type Mongo struct {
	client *mongo.Client
	col    *mongo.Collection
}

// Connect dials MongoDB with Stable API v1 and binds the anime collection.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Mongo{client: client, col: client.Database(dbName).Collection(colAnime)}, nil
}

func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "added_at", Value: -1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "alt_titles", Value: "text"}}},
	})
	return err
}

func oid(id string) (primitive.ObjectID, error) {
	v, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrBadID
	}
	return v, nil
}

func (m *Mongo) Insert(ctx context.Context, in models.AnimeCreate) (models.Anime, error) {
	a := in.Anime()
	a.AddedAt = time.Now().UTC()
	res, err := m.col.InsertOne(ctx, a)
	if err != nil {
		return models.Anime{}, err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return a, nil
}

func (m *Mongo) ByID(ctx context.Context, id string) (models.Anime, error) {
	v, err := oid(id)
	if err != nil {
		return models.Anime{}, err
	}
	return m.byOID(ctx, v)
}

func (m *Mongo) byOID(ctx context.Context, v primitive.ObjectID) (models.Anime, error) {
	var a models.Anime
	err := m.col.FindOne(ctx, bson.M{"_id": v}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Anime{}, ErrNotFound
	}
	if err != nil {
		return models.Anime{}, err
	}
	return a, nil
}

func (m *Mongo) List(ctx context.Context, kind string, p Page) ([]models.Anime, error) {
	filter := bson.M{}
	if kind != "" {
		filter["type"] = kind
	}
	return m.find(ctx, filter, p)
}

func (m *Mongo) Search(ctx context.Context, query string, p Page) ([]models.Anime, error) {
	return m.find(ctx, bson.M{"$text": bson.M{"$search": query}}, p)
}

func (m *Mongo) find(ctx context.Context, filter bson.M, p Page) ([]models.Anime, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "added_at", Value: -1}}).
		SetSkip(int64(p.Skip)).
		SetLimit(int64(p.Limit))
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Anime{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Mongo) Genres(ctx context.Context) ([]string, error) {
	vals, err := m.col.Distinct(ctx, "genres", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Mongo) Update(ctx context.Context, id string, in models.AnimeUpdate) (models.Anime, error) {
	v, err := oid(id)
	if err != nil {
		return models.Anime{}, err
	}
	fields := in.Fields()
	if len(fields) == 0 {
		return models.Anime{}, ErrNoFields
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": v}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return models.Anime{}, err
	}
	if res.MatchedCount == 0 {
		return models.Anime{}, ErrNotFound
	}
	return m.byOID(ctx, v)
}

func (m *Mongo) AppendMovieLinks(ctx context.Context, id string, links []models.StreamLink) (models.Anime, error) {
	v, err := oid(id)
	if err != nil {
		return models.Anime{}, err
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": v},
		bson.M{"$push": bson.M{"movie_stream_links": bson.M{"$each": links}}})
	if err != nil {
		return models.Anime{}, err
	}
	if res.MatchedCount == 0 {
		return models.Anime{}, ErrNotFound
	}
	return m.byOID(ctx, v)
}

// AppendEpisodeLinks pushes into exactly the named season's named episode.
// The $elemMatch filter keeps a same-numbered episode in another season from
// being touched.
func (m *Mongo) AppendEpisodeLinks(ctx context.Context, id string, season, episode int, links []models.StreamLink) (models.Anime, error) {
	v, err := oid(id)
	if err != nil {
		return models.Anime{}, err
	}
	filter := bson.M{
		"_id":     v,
		"seasons": bson.M{"$elemMatch": bson.M{"season": season, "episodes.number": episode}},
	}
	update := bson.M{"$push": bson.M{"seasons.$[s].episodes.$[e].stream_links": bson.M{"$each": links}}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
		bson.M{"s.season": season},
		bson.M{"e.number": episode},
	}})
	res, err := m.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return models.Anime{}, err
	}
	if res.MatchedCount == 0 {
		if _, err := m.byOID(ctx, v); err != nil {
			return models.Anime{}, err
		}
		return models.Anime{}, ErrNoEpisode
	}
	return m.byOID(ctx, v)
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	v, err := oid(id)
	if err != nil {
		return err
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": v})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Stats(ctx context.Context) (models.Stats, error) {
	movies, err := m.col.CountDocuments(ctx, bson.M{"type": models.TypeMovie})
	if err != nil {
		return models.Stats{}, err
	}
	series, err := m.col.CountDocuments(ctx, bson.M{"type": models.TypeSeries})
	if err != nil {
		return models.Stats{}, err
	}
	total, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Stats{}, err
	}
	return models.Stats{Movies: movies, Series: series, Total: total}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}
