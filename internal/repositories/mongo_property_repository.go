package repositories

import (
	"context"
	"regexp"
	"time"

	"rental-search/internal/models"
	"rental-search/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPropertyRepository struct {
	db            database.Database
	properties    *mongo.Collection
	neighborhoods *mongo.Collection
	analytics     *mongo.Collection
}

// NewMongoPropertyRepository serves searches, suggestions and analytics from MongoDB.
func NewMongoPropertyRepository(db database.Database) *MongoPropertyRepository {
	return &MongoPropertyRepository{
		db:            db,
		properties:    db.Collection(database.PropertiesCollection),
		neighborhoods: db.Collection(database.NeighborhoodsCollection),
		analytics:     db.Collection(database.AnalyticsCollection),
	}
}

func containsRegex(text string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}
}

// mongoFilter translates the query text and filters into a find filter.
func mongoFilter(q models.SearchQuery) bson.M {
	filter := bson.M{}
	if text := models.NormalizeText(q.Text); text != "" {
		re := containsRegex(text)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"neighborhood": re},
		}
	}
	if q.Filters == nil {
		return filter
	}
	f := q.Filters.Normalized()

	price := bson.M{}
	if f.PriceMin != nil {
		price["$gte"] = *f.PriceMin
	}
	if f.PriceMax != nil {
		price["$lte"] = *f.PriceMax
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if len(f.PropertyTypes) > 0 {
		filter["propertyType"] = bson.M{"$in": f.PropertyTypes}
	}
	if len(f.Bedrooms) > 0 {
		filter["bedrooms"] = bson.M{"$in": f.Bedrooms}
	}
	if len(f.Bathrooms) > 0 {
		filter["bathrooms"] = bson.M{"$in": f.Bathrooms}
	}
	if len(f.Amenities) > 0 {
		filter["amenities"] = bson.M{"$all": f.Amenities}
	}
	if f.Furnished != nil {
		filter["furnished"] = *f.Furnished
	}
	if f.PetFriendly != nil {
		filter["petFriendly"] = *f.PetFriendly
	}
	if f.Parking != nil {
		filter["parking"] = *f.Parking
	}
	if f.AvailableFrom != nil {
		// listings without a date are available immediately
		filter["availableFrom"] = bson.M{"$not": bson.M{"$gt": *f.AvailableFrom}}
	}
	return filter
}

var recentFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

// mongoSort maps a sort order to a sort document. Distance is handled by
// distancePipeline and falls back to relevance here.
func mongoSort(order models.SortOrder) bson.D {
	switch order {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case models.SortDateDesc:
		return recentFirst
	default:
		return bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	}
}

// distancePipeline orders matches by squared planar distance to loc.
func distancePipeline(filter bson.M, loc models.Location, skip, limit int64) mongo.Pipeline {
	sq := func(field string, origin float64) bson.M {
		return bson.M{"$pow": bson.A{
			bson.M{"$subtract": bson.A{bson.M{"$ifNull": bson.A{field, farAway}}, origin}},
			2,
		}}
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.M{"_distance": bson.M{"$add": bson.A{
			sq("$coordinates.lat", loc.Lat),
			sq("$coordinates.lng", loc.Lng),
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_distance", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"_distance": 0}}},
	}
}

func (r *MongoPropertyRepository) find(ctx context.Context, operation string, filter bson.M, order models.SortOrder, loc *models.Location, skip, limit int64) ([]models.Property, error) {
	start := time.Now()
	var (
		cursor *mongo.Cursor
		err    error
	)
	if order == models.SortDistance && loc != nil {
		cursor, err = r.properties.Aggregate(ctx, distancePipeline(filter, *loc, skip, limit))
	} else {
		findOptions := options.Find().
			SetSort(mongoSort(order)).
			SetSkip(skip).
			SetLimit(limit)
		cursor, err = r.properties.Find(ctx, filter, findOptions)
	}
	if err != nil {
		observe(operation, backendMongo, start)
		return nil, unavailable(operation, backendMongo, err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	err = cursor.All(ctx, &properties)
	observe(operation, backendMongo, start)
	if err != nil {
		return nil, unavailable(operation, backendMongo, err)
	}
	return properties, nil
}

func (r *MongoPropertyRepository) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResults, error) {
	q := query.WithDefaults()
	filter := mongoFilter(q)

	start := time.Now()
	total, err := r.properties.CountDocuments(ctx, filter)
	observe("count", backendMongo, start)
	if err != nil {
		return nil, unavailable("count", backendMongo, err)
	}
	if total == 0 {
		return buildResults(nil, 0, q), nil
	}

	properties, err := r.find(ctx, "search", filter, q.SortBy, q.Location, pageOffset(q), int64(q.Limit))
	if err != nil {
		return nil, err
	}
	return buildResults(properties, total, q), nil
}

func (r *MongoPropertyRepository) Featured(ctx context.Context, location *models.Location, limit int) ([]models.Property, error) {
	order := models.SortDateDesc
	if location != nil {
		order = models.SortDistance
	}
	properties, err := r.find(ctx, "featured", bson.M{"featured": true}, order, location, 0, int64(limit))
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []models.Property{}
	}
	return properties, nil
}

func (r *MongoPropertyRepository) SuggestLocations(ctx context.Context, text string, location *models.Location, limit int) ([]models.Suggestion, error) {
	text = models.NormalizeText(text)
	if text == "" || limit <= 0 {
		return []models.Suggestion{}, nil
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "propertyCount", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := r.neighborhoods.Find(ctx, bson.M{"name": containsRegex(text)}, findOptions)
	if err != nil {
		observe("suggest_locations", backendMongo, start)
		return nil, unavailable("suggest_locations", backendMongo, err)
	}
	defer cursor.Close(ctx)

	var rows []neighborhood
	err = cursor.All(ctx, &rows)
	observe("suggest_locations", backendMongo, start)
	if err != nil {
		return nil, unavailable("suggest_locations", backendMongo, err)
	}

	suggestions := make([]models.Suggestion, 0, len(rows))
	for _, n := range rows {
		suggestions = append(suggestions, n.suggestion())
	}
	return suggestions, nil
}

func (r *MongoPropertyRepository) PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "count", Value: -1}, {Key: "query", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 0, "query": 1, "count": 1})

	start := time.Now()
	cursor, err := r.analytics.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		observe("popular_searches", backendMongo, start)
		return nil, unavailable("popular_searches", backendMongo, err)
	}
	defer cursor.Close(ctx)

	popular := []models.PopularSearch{}
	err = cursor.All(ctx, &popular)
	observe("popular_searches", backendMongo, start)
	if err != nil {
		return nil, unavailable("popular_searches", backendMongo, err)
	}
	return popular, nil
}

// RecordSearch upserts the per-query counter.
func (r *MongoPropertyRepository) RecordSearch(ctx context.Context, text string, hasLocation bool, locationBucket string) error {
	text = models.NormalizeText(text)
	if text == "" {
		return nil
	}
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{
			"hasLocation":    hasLocation,
			"locationBucket": locationBucket,
			"lastSearched":   time.Now().UTC(),
		},
	}

	start := time.Now()
	_, err := r.analytics.UpdateOne(ctx, bson.M{"query": text}, update, options.Update().SetUpsert(true))
	observe("record_search", backendMongo, start)
	if err != nil {
		return unavailable("record_search", backendMongo, err)
	}
	return nil
}

func (r *MongoPropertyRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.db.Ping(ctx)
	observe("ping", backendMongo, start)
	if err != nil {
		return unavailable("ping", backendMongo, err)
	}
	return nil
}
