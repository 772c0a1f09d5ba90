package retrieval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Chunk is one embedded passage of the menu/rules corpus. The ingestion step
// writes these; the retriever loads them once per process.
type Chunk struct {
	bun.BaseModel `bun:"table:menu_chunks,alias:mc"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Source    string    `bun:"source,notnull" json:"source"`
	Text      string    `bun:"text,notnull" json:"text"`
	Embedding []float64 `bun:"embedding,type:jsonb" json:"embedding"`
}

// Store persists the embedded corpus.
type Store interface {
	Replace(ctx context.Context, chunks []Chunk) error
	LoadChunks(ctx context.Context) ([]Chunk, error)
}

type StoreConfig struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

// BunStore keeps chunks in Postgres, embeddings as jsonb. The corpus is tiny
// (one restaurant's menu and policies), so ranking happens in memory.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

func NewBunStore(cfg StoreConfig) (*BunStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &BunStore{db: db}, nil
}

func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*Chunk)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create menu_chunks table: %w", err)
	}
	return nil
}

// Replace swaps the whole corpus atomically. Ingestion always rewrites
// everything; partial updates are not worth the bookkeeping at this size.
func (s *BunStore) Replace(ctx context.Context, chunks []Chunk) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*Chunk)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("clear menu_chunks: %w", err)
		}
		if len(chunks) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&chunks).Exec(ctx); err != nil {
			return fmt.Errorf("insert %d chunks: %w", len(chunks), err)
		}
		return nil
	})
}

func (s *BunStore) LoadChunks(ctx context.Context) ([]Chunk, error) {
	var chunks []Chunk
	if err := s.db.NewSelect().Model(&chunks).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("load menu_chunks: %w", err)
	}
	return chunks, nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}
