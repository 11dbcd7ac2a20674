package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/brightside-ai/supplement-chat/db"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// ErrDimensionMismatch flags a query embedding whose size disagrees
// with the configured index dimensionality. This is a configuration
// error (wrong embedding model), never retried.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// candidateMultiplier scales numCandidates relative to the requested
// limit for the approximate search stage.
const candidateMultiplier = 10

// Searcher runs similarity searches over the pre-populated product
// catalog index. The underlying client is shared process-wide; the
// driver's connection pool handles concurrent use.
type Searcher struct {
	client     *mongo.Client
	database   string
	dimensions int
}

func NewSearcher(client *mongo.Client, database string, dimensions int) *Searcher {
	logger.Info("Initialized catalog searcher",
		zap.String("database", database),
		zap.String("collection", db.CatalogCollectionName),
		zap.Int("dimensions", dimensions))

	return &Searcher{
		client:     client,
		database:   database,
		dimensions: dimensions,
	}
}

// Search returns up to limit catalog items ordered by descending
// similarity score (the backend's native ordering). Optional filters
// are applied as an AND of field equality clauses. Individual hits
// that fail to decode are skipped; a failing search is returned as an
// error, never as an empty result set.
func (s *Searcher) Search(ctx context.Context, queryVector []float32, limit int, filters map[string]any) ([]Item, error) {
	if len(queryVector) != s.dimensions {
		return nil, fmt.Errorf("%w: index expects %d dimensions but query vector has %d",
			ErrDimensionMismatch, s.dimensions, len(queryVector))
	}

	search := bson.D{
		{Key: "index", Value: db.VectorIndexName},
		{Key: "path", Value: db.VectorPath},
		{Key: "queryVector", Value: queryVector},
		{Key: "numCandidates", Value: limit * candidateMultiplier},
		{Key: "limit", Value: limit},
	}

	if len(filters) > 0 {
		filter := bson.D{}
		for field, value := range filters {
			filter = append(filter, bson.E{Key: field, Value: value})
		}
		search = append(search, bson.E{Key: "filter", Value: filter})
		logger.Info("Applying catalog search filters", zap.Any("filters", filters))
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: search}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	collection := s.client.Database(s.database).Collection(db.CatalogCollectionName)
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	defer cursor.Close(ctx)

	items := []Item{}
	for cursor.Next(ctx) {
		var hit bson.M
		if err := cursor.Decode(&hit); err != nil {
			logger.Error("Skipping undecodable search hit", zap.Error(err))
			continue
		}
		items = append(items, itemFromHit(hit))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("catalog search cursor failed: %w", err)
	}

	logger.Info("Catalog search completed", zap.Int("hits", len(items)))
	return items, nil
}

// Close releases the underlying connection. Must be invoked once the
// searcher's lifetime ends.
func (s *Searcher) Close(ctx context.Context) error {
	logger.Info("Closing catalog searcher connection")
	return s.client.Disconnect(ctx)
}

// itemFromHit converts one raw search hit into an Item. Every display
// field falls back to its zero value when absent; the id is coerced to
// text whatever its stored type.
func itemFromHit(hit bson.M) Item {
	score, _ := hit["score"].(float64)

	return Item{
		ID:          stringField(hit, "_id"),
		Name:        stringField(hit, "title"),
		Description: stringField(hit, "description"),
		Price:       stringField(hit, "price"),
		Currency:    "USD",
		ImageURL:    stringField(hit, "image"),
		ProductURL:  stringField(hit, "link"),
		Score:       score,
		Brand:       "Brightside",
	}
}

// stringField reads a field as text, coercing non-string values.
func stringField(hit bson.M, key string) string {
	value, ok := hit[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
