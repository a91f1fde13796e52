package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/w-h-a/docchat/docstore"
	_ "modernc.org/sqlite"
)

// fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id                TEXT PRIMARY KEY,
		filename          TEXT NOT NULL,
		chunking_strategy TEXT NOT NULL,
		num_chunks        INTEGER NOT NULL,
		created_at        TEXT NOT NULL
	)
`

type sqliteStore struct {
	options docstore.Options
	conn    *sql.DB
}

func (s *sqliteStore) Put(ctx context.Context, doc docstore.Document) error {
	query := `
		INSERT INTO documents (
			id,
			filename,
			chunking_strategy,
			num_chunks,
			created_at
		)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := s.conn.ExecContext(
		ctx,
		query,
		doc.Id,
		doc.Filename,
		doc.Strategy,
		doc.NumChunks,
		doc.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (docstore.Document, error) {
	query := `
		SELECT id, filename, chunking_strategy, num_chunks, created_at
		FROM documents
		WHERE id = ?
	`

	doc, err := scanDocument(s.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.Document{}, fmt.Errorf("%w: %s", docstore.ErrNotFound, id)
	}
	if err != nil {
		return docstore.Document{}, err
	}

	return doc, nil
}

func (s *sqliteStore) List(ctx context.Context) ([]docstore.Document, error) {
	query := `
		SELECT id, filename, chunking_strategy, num_chunks, created_at
		FROM documents
		ORDER BY created_at DESC, id
	`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []docstore.Document{}

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

func (s *sqliteStore) Close() error {
	return s.conn.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (docstore.Document, error) {
	var doc docstore.Document
	var createdAt string

	if err := row.Scan(&doc.Id, &doc.Filename, &doc.Strategy, &doc.NumChunks, &createdAt); err != nil {
		return docstore.Document{}, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return docstore.Document{}, fmt.Errorf("parse created_at: %w", err)
	}
	doc.CreatedAt = t

	return doc, nil
}

func NewStore(opts ...docstore.Option) docstore.Store {
	options := docstore.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = ":memory:"
	}

	conn, err := sql.Open("sqlite", options.Location)
	if err != nil {
		detail := "failed to open sqlite document store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	// a single connection keeps :memory: databases shared and serializes writers
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		detail := "failed to migrate sqlite document store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	s := &sqliteStore{
		options: options,
		conn:    conn,
	}

	return s
}
