package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-search/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPropertyRepository is the relational alternative to MongoPropertyRepository.
type PostgresPropertyRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPropertyRepository(db *pgxpool.Pool) *PostgresPropertyRepository {
	return &PostgresPropertyRepository{db: db}
}

const propertyColumns = `id, title, description, property_type, price, currency, bedrooms, bathrooms,
	amenities, furnished, pet_friendly, parking, neighborhood, address, lat, lng, featured,
	available_from, created_at`

// sqlArgs accumulates positional parameters.
type sqlArgs []any

func (a *sqlArgs) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// likePattern escapes LIKE metacharacters and wraps text for a contains match.
func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}

// postgresWhere builds the WHERE clause for q, appending its parameters to args.
func postgresWhere(q models.SearchQuery, args *sqlArgs) string {
	var conds []string
	if text := models.NormalizeText(q.Text); text != "" {
		p := args.add(likePattern(text))
		conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR description ILIKE %[1]s OR neighborhood ILIKE %[1]s)", p))
	}
	if q.Filters != nil {
		f := q.Filters.Normalized()
		if f.PriceMin != nil {
			conds = append(conds, "price >= "+args.add(*f.PriceMin))
		}
		if f.PriceMax != nil {
			conds = append(conds, "price <= "+args.add(*f.PriceMax))
		}
		if len(f.PropertyTypes) > 0 {
			types := make([]string, len(f.PropertyTypes))
			for i, t := range f.PropertyTypes {
				types[i] = string(t)
			}
			conds = append(conds, "property_type = ANY("+args.add(types)+")")
		}
		if len(f.Bedrooms) > 0 {
			conds = append(conds, "bedrooms = ANY("+args.add(f.Bedrooms)+")")
		}
		if len(f.Bathrooms) > 0 {
			conds = append(conds, "bathrooms = ANY("+args.add(f.Bathrooms)+")")
		}
		if len(f.Amenities) > 0 {
			conds = append(conds, "amenities @> "+args.add(f.Amenities))
		}
		if f.Furnished != nil {
			conds = append(conds, "furnished = "+args.add(*f.Furnished))
		}
		if f.PetFriendly != nil {
			conds = append(conds, "pet_friendly = "+args.add(*f.PetFriendly))
		}
		if f.Parking != nil {
			conds = append(conds, "parking = "+args.add(*f.Parking))
		}
		if f.AvailableFrom != nil {
			conds = append(conds, "(available_from IS NULL OR available_from <= "+args.add(*f.AvailableFrom)+")")
		}
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// postgresOrder maps a sort order to an ORDER BY clause. Distance needs a
// location and otherwise falls back to relevance.
func postgresOrder(order models.SortOrder, loc *models.Location, args *sqlArgs) string {
	switch order {
	case models.SortPriceAsc:
		return " ORDER BY price ASC, id"
	case models.SortPriceDesc:
		return " ORDER BY price DESC, id"
	case models.SortDateDesc:
		return " ORDER BY created_at DESC, id"
	case models.SortDistance:
		if loc != nil {
			lat, lng := args.add(loc.Lat), args.add(loc.Lng)
			return fmt.Sprintf(" ORDER BY power(lat - %s, 2) + power(lng - %s, 2) ASC NULLS LAST, id", lat, lng)
		}
	}
	return " ORDER BY featured DESC, created_at DESC, id"
}

func scanProperty(row pgx.Row) (models.Property, error) {
	var (
		p        models.Property
		lat, lng *float64
		propType string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &propType, &p.Price, &p.Currency, &p.Bedrooms, &p.Bathrooms,
		&p.Amenities, &p.Furnished, &p.PetFriendly, &p.Parking, &p.Neighborhood, &p.Address, &lat, &lng,
		&p.Featured, &p.AvailableFrom, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}
	p.PropertyType = models.PropertyType(propType)
	if lat != nil && lng != nil {
		p.Coordinates = &models.Coordinates{Lat: *lat, Lng: *lng}
	}
	return p, nil
}

func (r *PostgresPropertyRepository) queryProperties(ctx context.Context, operation, sql string, args sqlArgs) ([]models.Property, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		observe(operation, backendPostgres, start)
		return nil, unavailable(operation, backendPostgres, err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			observe(operation, backendPostgres, start)
			return nil, unavailable(operation, backendPostgres, err)
		}
		properties = append(properties, p)
	}
	observe(operation, backendPostgres, start)
	if err := rows.Err(); err != nil {
		return nil, unavailable(operation, backendPostgres, err)
	}
	return properties, nil
}

func (r *PostgresPropertyRepository) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResults, error) {
	q := query.WithDefaults()

	var args sqlArgs
	where := postgresWhere(q, &args)

	var total int64
	start := time.Now()
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM properties"+where, args...).Scan(&total)
	observe("count", backendPostgres, start)
	if err != nil {
		return nil, unavailable("count", backendPostgres, err)
	}
	if total == 0 {
		return buildResults(nil, 0, q), nil
	}

	order := postgresOrder(q.SortBy, q.Location, &args)
	sql := "SELECT " + propertyColumns + " FROM properties" + where + order +
		" LIMIT " + args.add(q.Limit) + " OFFSET " + args.add(pageOffset(q))

	properties, err := r.queryProperties(ctx, "search", sql, args)
	if err != nil {
		return nil, err
	}
	return buildResults(properties, total, q), nil
}

func (r *PostgresPropertyRepository) Featured(ctx context.Context, location *models.Location, limit int) ([]models.Property, error) {
	var args sqlArgs
	order := postgresOrder(models.SortDateDesc, nil, &args)
	if location != nil {
		order = postgresOrder(models.SortDistance, location, &args)
	}
	sql := "SELECT " + propertyColumns + " FROM properties WHERE featured" + order + " LIMIT " + args.add(limit)
	return r.queryProperties(ctx, "featured", sql, args)
}

func (r *PostgresPropertyRepository) SuggestLocations(ctx context.Context, text string, location *models.Location, limit int) ([]models.Suggestion, error) {
	text = models.NormalizeText(text)
	if text == "" || limit <= 0 {
		return []models.Suggestion{}, nil
	}

	const sql = `
		SELECT id, name, lat, lng, property_count
		FROM neighborhoods
		WHERE name ILIKE $1
		ORDER BY property_count DESC, name
		LIMIT $2`

	start := time.Now()
	rows, err := r.db.Query(ctx, sql, likePattern(text), limit)
	if err != nil {
		observe("suggest_locations", backendPostgres, start)
		return nil, unavailable("suggest_locations", backendPostgres, err)
	}
	defer rows.Close()

	suggestions := []models.Suggestion{}
	for rows.Next() {
		var (
			n        neighborhood
			lat, lng *float64
		)
		if err := rows.Scan(&n.ID, &n.Name, &lat, &lng, &n.PropertyCount); err != nil {
			observe("suggest_locations", backendPostgres, start)
			return nil, unavailable("suggest_locations", backendPostgres, err)
		}
		if lat != nil && lng != nil {
			n.Coordinates = &models.Coordinates{Lat: *lat, Lng: *lng}
		}
		suggestions = append(suggestions, n.suggestion())
	}
	observe("suggest_locations", backendPostgres, start)
	if err := rows.Err(); err != nil {
		return nil, unavailable("suggest_locations", backendPostgres, err)
	}
	return suggestions, nil
}

func (r *PostgresPropertyRepository) PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, `SELECT query, count FROM search_analytics ORDER BY count DESC, query LIMIT $1`, limit)
	if err != nil {
		observe("popular_searches", backendPostgres, start)
		return nil, unavailable("popular_searches", backendPostgres, err)
	}
	defer rows.Close()

	popular := []models.PopularSearch{}
	for rows.Next() {
		var p models.PopularSearch
		if err := rows.Scan(&p.Query, &p.Count); err != nil {
			observe("popular_searches", backendPostgres, start)
			return nil, unavailable("popular_searches", backendPostgres, err)
		}
		popular = append(popular, p)
	}
	observe("popular_searches", backendPostgres, start)
	if err := rows.Err(); err != nil {
		return nil, unavailable("popular_searches", backendPostgres, err)
	}
	return popular, nil
}

func (r *PostgresPropertyRepository) RecordSearch(ctx context.Context, text string, hasLocation bool, locationBucket string) error {
	text = models.NormalizeText(text)
	if text == "" {
		return nil
	}

	const sql = `
		INSERT INTO search_analytics (query, count, has_location, location_bucket, last_searched)
		VALUES ($1, 1, $2, NULLIF($3, ''), now())
		ON CONFLICT (query) DO UPDATE SET
			count = search_analytics.count + 1,
			has_location = EXCLUDED.has_location,
			location_bucket = EXCLUDED.location_bucket,
			last_searched = EXCLUDED.last_searched`

	start := time.Now()
	_, err := r.db.Exec(ctx, sql, text, hasLocation, locationBucket)
	observe("record_search", backendPostgres, start)
	if err != nil {
		return unavailable("record_search", backendPostgres, err)
	}
	return nil
}

func (r *PostgresPropertyRepository) Ping(ctx context.Context) error {
	start := time.Now()
	err := r.db.Ping(ctx)
	observe("ping", backendPostgres, start)
	if err != nil {
		return unavailable("ping", backendPostgres, err)
	}
	return nil
}
