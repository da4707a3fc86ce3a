// Package document provides a collection-oriented persistence gateway backed
// by PostgreSQL jsonb. Callers work with named collections and mapping-style
// documents; no schema is enforced at this layer.
package document

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/lumenlab/lampcore/pkg/utilities"
)

var (
	// ErrNoDocument is returned by FindOne when no document matches the filter.
	ErrNoDocument = errors.New("no document")
	// ErrDuplicateKey is returned by Insert when a uniqueness constraint on a
	// business key is violated.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnavailable wraps connection-level persistence faults.
	ErrUnavailable = errors.New("persistence unavailable")
)

// knownCollections are the logical collections this service uses. Other names
// are served anyway; the store simply returns empty results for them.
var knownCollections = []string{"users", "lamps", "deleted_datas"}

// Document is a mapping of field names to values. The reserved key "_id"
// carries the store-generated identifier on reads and may be used in filters.
type Document map[string]any

// Store is the process-wide persistence gateway. It is established once at
// startup and shared read-only by every request handler.
type Store struct {
	db     *sqlx.DB
	logger *zap.SugaredLogger
}

func NewStore(db *sqlx.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

// EnsureSchema creates the documents table and its indexes if they do not
// exist (idempotent). The unique expression indexes on users.email and
// lamps.led enforce business-key uniqueness at the store, closing the window
// between an application-level existence check and the insert that follows it.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS documents (
  id varchar(32) PRIMARY KEY,
  collection varchar(32) NOT NULL,
  doc jsonb NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection);
CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_users_email
  ON documents ((doc->>'email')) WHERE collection = 'users';
CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_lamps_led
  ON documents ((doc->>'led')) WHERE collection = 'lamps';
`
	_, err := s.db.ExecContext(ctx, ddl)
	return wrapStoreErr(err)
}

// Collection returns a handle on a named collection. Unknown names are logged
// but not rejected.
func (s *Store) Collection(name string) *Collection {
	if !slices.Contains(knownCollections, name) {
		s.logger.Warnw("unknown collection", "name", name)
	}
	return &Collection{store: s, name: name}
}

// Collection is a thin typed accessor over one logical collection.
type Collection struct {
	store *Store
	name  string
}

// whereClause renders a filter into SQL. "_id" matches the id column; every
// other key matches by jsonb containment. Placeholder numbering continues
// from the seed args.
func (c *Collection) whereClause(filter Document, args []any) (string, []any, error) {
	args = append(args, c.name)
	clauses := []string{fmt.Sprintf("collection = $%d", len(args))}
	if id, ok := filter["_id"]; ok {
		args = append(args, id)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}
	rest := make(map[string]any, len(filter))
	for k, v := range filter {
		if k != "_id" {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		b, err := json.Marshal(rest)
		if err != nil {
			return "", nil, err
		}
		args = append(args, b)
		clauses = append(clauses, fmt.Sprintf("doc @> $%d::jsonb", len(args)))
	}
	return strings.Join(clauses, " AND "), args, nil
}

type docRow struct {
	ID  string `db:"id"`
	Doc []byte `db:"doc"`
}

func (r docRow) document() (Document, error) {
	doc := Document{}
	if err := json.Unmarshal(r.Doc, &doc); err != nil {
		return nil, err
	}
	doc["_id"] = r.ID
	return doc, nil
}

// FindOne returns the first document matching the filter or ErrNoDocument.
func (c *Collection) FindOne(ctx context.Context, filter Document) (Document, error) {
	where, args, err := c.whereClause(filter, nil)
	if err != nil {
		return nil, err
	}
	var row docRow
	q := "SELECT id, doc FROM documents WHERE " + where + " LIMIT 1"
	if err := c.store.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, wrapStoreErr(err)
	}
	return row.document()
}

// FindAll returns every document matching the filter, oldest first.
func (c *Collection) FindAll(ctx context.Context, filter Document) ([]Document, error) {
	where, args, err := c.whereClause(filter, nil)
	if err != nil {
		return nil, err
	}
	var rows []docRow
	q := "SELECT id, doc FROM documents WHERE " + where + " ORDER BY id"
	if err := c.store.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, wrapStoreErr(err)
	}
	out := make([]Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// Insert stores a document and returns its generated identifier. A "_id" key
// in the document is ignored; identifiers are always store-generated.
func (c *Collection) Insert(ctx context.Context, doc Document) (string, error) {
	payload := make(Document, len(doc))
	for k, v := range doc {
		if k != "_id" {
			payload[k] = v
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	id := utilities.NewKSUID()
	const q = "INSERT INTO documents (id, collection, doc) VALUES ($1, $2, $3)"
	if _, err := c.store.db.ExecContext(ctx, q, id, c.name, b); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return "", ErrDuplicateKey
		}
		return "", wrapStoreErr(err)
	}
	return id, nil
}

// UpdateOne merges the given fields into the first document matching the
// filter. Updating a document that does not exist is not an error.
func (c *Collection) UpdateOne(ctx context.Context, filter Document, fields Document) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	where, args, err := c.whereClause(filter, []any{b})
	if err != nil {
		return err
	}
	q := "UPDATE documents SET doc = doc || $1::jsonb WHERE id = (SELECT id FROM documents WHERE " + where + " LIMIT 1)"
	if _, err := c.store.db.ExecContext(ctx, q, args...); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// DeleteOne removes the first document matching the filter.
func (c *Collection) DeleteOne(ctx context.Context, filter Document) error {
	where, args, err := c.whereClause(filter, nil)
	if err != nil {
		return err
	}
	q := "DELETE FROM documents WHERE id = (SELECT id FROM documents WHERE " + where + " LIMIT 1)"
	if _, err := c.store.db.ExecContext(ctx, q, args...); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var nerr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &nerr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
