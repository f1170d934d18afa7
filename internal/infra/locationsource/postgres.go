package locationsource

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/prayer-api/internal/domain/location"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads the dataset from a table with city, latitude and
// longitude columns.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource validates the table identifier and constructs the source.
func NewPostgresSource(pool *pgxpool.Pool, table string) (*PostgresSource, error) {
	if table == "" {
		table = "locations"
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid locations table name %q", table)
	}
	return &PostgresSource{pool: pool, table: table}, nil
}

// Load implements location.Source.
func (s *PostgresSource) Load(ctx context.Context) ([]location.Location, error) {
	rows, err := s.pool.Query(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	out := make([]location.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		if loc.City == "" || !location.ValidCoordinates(loc.Latitude, loc.Longitude) {
			continue
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf(`
		SELECT city, latitude, longitude
		FROM %s
		ORDER BY city
	`, s.table)
}

func scanLocation(row pgx.Row) (location.Location, error) {
	var loc location.Location
	if err := row.Scan(&loc.City, &loc.Latitude, &loc.Longitude); err != nil {
		return location.Location{}, err
	}
	return loc, nil
}

var _ location.Source = (*PostgresSource)(nil)
