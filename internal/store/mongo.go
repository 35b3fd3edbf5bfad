package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

// MongoConfig controls the Mongo connection used by the provider.
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// MongoProvider implements Provider backed by a MongoDB collection.
type MongoProvider struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoProvider connects to MongoDB. Connection establishment is lazy in
// the driver; readiness is checked separately through Ping so the loader can
// poll with its own backoff window.
func NewMongoProvider(ctx context.Context, cfg MongoConfig) (*MongoProvider, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("store.mongo.uri is required")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("store.mongo database and collection are required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &MongoProvider{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Ping verifies the server is reachable and answering.
func (p *MongoProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// EnsureURLIndex creates the unique index on url. Creating an index that
// already exists is a no-op on the server, which makes this idempotent.
func (p *MongoProvider) EnsureURLIndex(ctx context.Context) error {
	_, err := p.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create url index: %w", err)
	}
	return nil
}

// Upsert replaces the document keyed by url, inserting when absent.
func (p *MongoProvider) Upsert(ctx context.Context, rec movie.Record) (UpsertResult, error) {
	res, err := p.coll.ReplaceOne(ctx,
		bson.M{"url": rec.URL},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("upsert %s: %w", rec.URL, err)
	}
	return UpsertResult{Inserted: res.UpsertedCount > 0}, nil
}

// GetByURL fetches one record by its identity.
func (p *MongoProvider) GetByURL(ctx context.Context, url string) (movie.Record, error) {
	var rec movie.Record
	err := p.coll.FindOne(ctx, bson.M{"url": url}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return movie.Record{}, ErrNotFound
	}
	if err != nil {
		return movie.Record{}, fmt.Errorf("find %s: %w", url, err)
	}
	return rec, nil
}

// List applies the display-layer filter/sort contract.
func (p *MongoProvider) List(ctx context.Context, q Query) ([]movie.Record, error) {
	filter := bson.M{}
	if q.Title != "" {
		filter["title"] = caseInsensitive(q.Title)
	}
	if q.Director != "" {
		// directors is an array; Mongo matches when any element matches.
		filter["directors"] = caseInsensitive(q.Director)
	}
	if q.Genre != "" {
		filter["genres"] = q.Genre
	}
	if q.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *q.MinRating}
	}

	field, dir := sortSpec(q.Sort)
	limit := int64(q.Limit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	cursor, err := p.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: field, Value: dir}}).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer cursor.Close(ctx)

	var out []movie.Record
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode movies: %w", err)
	}
	return out, nil
}

// Genres returns the distinct genre values present in the collection,
// sorted case-insensitively. Distinct returns server order, which is not
// stable across storage engines.
func (p *MongoProvider) Genres(ctx context.Context) ([]string, error) {
	values, err := p.coll.Distinct(ctx, "genres", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct genres: %w", err)
	}
	var out []string
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}

// Stats runs the aggregation pipelines behind the stats view.
func (p *MongoProvider) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	total, err := p.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, fmt.Errorf("count movies: %w", err)
	}
	stats.TotalMovies = int(total)

	withDesc, err := p.coll.CountDocuments(ctx, bson.M{"description": bson.M{"$type": "string", "$ne": ""}})
	if err != nil {
		return stats, fmt.Errorf("count descriptions: %w", err)
	}
	stats.WithDescription = int(withDesc)

	withPoster, err := p.coll.CountDocuments(ctx, bson.M{"poster_url": bson.M{"$type": "string", "$ne": ""}})
	if err != nil {
		return stats, fmt.Errorf("count posters: %w", err)
	}
	stats.WithPoster = int(withPoster)

	if err := p.avgRating(ctx, &stats); err != nil {
		return stats, err
	}
	if stats.TopGenres, err = p.topValues(ctx, "genres", TopGenresLimit); err != nil {
		return stats, err
	}
	if stats.TopDirectors, err = p.topValues(ctx, "directors", TopDirectorsLimit); err != nil {
		return stats, err
	}
	if stats.RatingHistogram, err = p.ratingHistogram(ctx); err != nil {
		return stats, err
	}
	if stats.ByDecade, err = p.byDecade(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

func (p *MongoProvider) avgRating(ctx context.Context, stats *Stats) error {
	cursor, err := p.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"rating": bson.M{"$type": "number"}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return fmt.Errorf("aggregate avg rating: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return fmt.Errorf("decode avg rating: %w", err)
	}
	if len(rows) > 0 {
		stats.AvgRating = movie.FloatPtr(rows[0].Avg)
		stats.RatedCount = rows[0].Count
	}
	return nil
}

// topValues unwinds an array field and counts its flattened values, highest
// count first with the value as tiebreaker.
func (p *MongoProvider) topValues(ctx context.Context, field string, limit int) ([]GroupCount, error) {
	cursor, err := p.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$" + field, "preserveNullAndEmptyArrays": false}}},
		bson.D{{Key: "$match", Value: bson.M{field: bson.M{"$type": "string", "$ne": ""}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate top %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode top %s: %w", field, err)
	}
	out := make([]GroupCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, GroupCount{Key: r.ID, Count: r.Count})
	}
	return out, nil
}

func (p *MongoProvider) ratingHistogram(ctx context.Context) ([]HistogramBucket, error) {
	cursor, err := p.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"rating": bson.M{"$type": "number"}}}},
		bson.D{{Key: "$bucket", Value: bson.M{
			"groupBy":    "$rating",
			"boundaries": RatingBucketBoundaries,
			"default":    "other",
			"output":     bson.M{"count": bson.M{"$sum": 1}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate rating histogram: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    any `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode rating histogram: %w", err)
	}

	counts := make(map[float64]int)
	for _, r := range rows {
		switch low := r.ID.(type) {
		case float64:
			counts[low] = r.Count
		case int32:
			counts[float64(low)] = r.Count
		case int64:
			counts[float64(low)] = r.Count
		}
	}
	return histogramFromCounts(counts), nil
}

func (p *MongoProvider) byDecade(ctx context.Context) ([]DecadeCount, error) {
	cursor, err := p.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"year": bson.M{"$type": "number"}}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"decade": bson.M{"$subtract": bson.A{"$year", bson.M{"$mod": bson.A{"$year", 10}}}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$decade", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate decades: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    int32 `bson:"_id"`
		Count int   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode decades: %w", err)
	}
	out := make([]DecadeCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, DecadeCount{Decade: int(r.ID), Count: r.Count})
	}
	return out, nil
}

// Close disconnects the client.
func (p *MongoProvider) Close(ctx context.Context) error {
	if err := p.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

const defaultListLimit = 120

func caseInsensitive(text string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}
}

func sortSpec(s Sort) (string, int) {
	switch s {
	case SortYearAsc:
		return "year", 1
	case SortRatingAsc:
		return "rating", 1
	case SortRatingDesc:
		return "rating", -1
	case SortTitleAsc:
		return "title", 1
	case SortTitleDesc:
		return "title", -1
	default:
		return "year", -1
	}
}

// histogramFromCounts materializes every configured bin, including empty
// ones, so the display layer always sees the full axis.
func histogramFromCounts(counts map[float64]int) []HistogramBucket {
	bounds := RatingBucketBoundaries
	out := make([]HistogramBucket, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		out = append(out, HistogramBucket{
			Low:   bounds[i],
			High:  bounds[i+1],
			Count: counts[bounds[i]],
		})
	}
	return out
}
