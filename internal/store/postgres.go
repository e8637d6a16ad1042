package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// identRe limits sort and group fields to plain identifiers. Field names
// only ever come from our own services, never from callers, but they are
// interpolated into SQL expressions and get checked anyway.
var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Postgres is the durable document store. Documents live as JSONB rows
// in a single table, partitioned logically by collection name.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a connection pool and fails fast if the database
// is unreachable.
func NewPostgres(dbURL string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *Postgres) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the diagnostic endpoint to validate DB connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Collections lists the distinct collection names currently stored.
func (p *Postgres) Collections(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Insert appends one document to a collection and returns its new id.
// ULIDs are time-ordered, so ids double as insertion order.
func (p *Postgres) Insert(ctx context.Context, collection string, doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	id := ulid.Make().String()
	_, err = p.pool.Exec(ctx, `
		INSERT INTO documents(id, collection, doc)
		VALUES ($1, $2, $3)
	`, id, collection, raw)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Find returns up to opts.Limit documents matching the filter. The
// filter is a structural subset match (JSONB containment); a nil filter
// matches everything.
func (p *Postgres) Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error) {
	filterJSON, err := encodeFilter(filter)
	if err != nil {
		return nil, err
	}

	sql := `SELECT id, doc FROM documents WHERE collection = $1 AND doc @> $2`
	if opts.SortField != "" {
		clause, err := sortClause(opts.SortField, opts.SortDesc)
		if err != nil {
			return nil, err
		}
		sql += clause
	} else {
		sql += ` ORDER BY id`
	}
	if opts.Limit > 0 {
		sql += fmt.Sprintf(` LIMIT %d`, opts.Limit)
	}

	rows, err := p.pool.Query(ctx, sql, collection, filterJSON)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

// Count returns the number of documents matching the filter.
func (p *Postgres) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	filterJSON, err := encodeFilter(filter)
	if err != nil {
		return 0, err
	}

	var count int64
	err = p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM documents WHERE collection = $1 AND doc @> $2
	`, collection, filterJSON).Scan(&count)
	return count, err
}

// GroupCount groups a collection by the value of one document field and
// returns per-group counts, largest first, truncated to limit. Documents
// lacking the field land in a nil-keyed group.
func (p *Postgres) GroupCount(ctx context.Context, collection string, field string, limit int) ([]Bucket, error) {
	if !identRe.MatchString(field) {
		return nil, fmt.Errorf("invalid group field %q", field)
	}

	rows, err := p.pool.Query(ctx, `
		SELECT doc->>$2 AS key, COUNT(*) AS n
		FROM documents
		WHERE collection = $1
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT $3
	`, collection, field, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Key, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// encodeFilter renders a filter as the JSONB containment argument.
func encodeFilter(filter Filter) ([]byte, error) {
	if len(filter) == 0 {
		return []byte(`{}`), nil
	}
	return json.Marshal(map[string]any(filter))
}

// sortClause builds the ORDER BY for a Find. Timestamps are stored as
// ISO-8601 strings inside the JSONB body, which do not sort correctly as
// text when fractional seconds vary, so the timestamp field is cast.
func sortClause(field string, desc bool) (string, error) {
	if !identRe.MatchString(field) {
		return "", fmt.Errorf("invalid sort field %q", field)
	}
	expr := fmt.Sprintf("doc->>'%s'", field)
	if field == "timestamp" {
		expr = "(doc->>'timestamp')::timestamptz"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", expr, dir), nil
}
