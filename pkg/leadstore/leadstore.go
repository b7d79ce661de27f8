// Package leadstore persists sales leads captured from chat sessions.
package leadstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ErrLeadNotFound reports a lead id with no matching row.
var ErrLeadNotFound = errors.New("lead not found")

// DefaultStage is assigned when a lead is created without a stage.
const DefaultStage = "New"

type Config struct {
	DSN     string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

// Lead is one prospective buyer or seller tied to an optional listing.
type Lead struct {
	bun.BaseModel `bun:"table:leads"`

	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull" json:"name"`
	Stage         string `bun:"stage,notnull" json:"stage"`
	Property      string `bun:"property" json:"property,omitempty"`
	Email         string `bun:"email" json:"email,omitempty"`
	Phone         string `bun:"phone" json:"phone,omitempty"`
	ListingNumber string `bun:"listing_number" json:"listingNumber,omitempty"`
	Address       string `bun:"address" json:"address,omitempty"`
	Notes         string `bun:"notes" json:"notes,omitempty"`
}

type Store struct {
	db *bun.DB
}

func New(cfg Config) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("leadstore dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.Timeout),
	))
	return &Store{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// NewWithDB wraps an existing bun handle. Tests use this with a stub driver.
func NewWithDB(db *bun.DB) *Store {
	return &Store{db: db}
}

// Init creates the leads table when it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Lead)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create leads table: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, lead *Lead) error {
	if strings.TrimSpace(lead.Name) == "" {
		return errors.New("lead name is required")
	}
	if strings.TrimSpace(lead.Stage) == "" {
		lead.Stage = DefaultStage
	}
	if _, err := s.db.NewInsert().Model(lead).Exec(ctx); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]Lead, error) {
	leads := make([]Lead, 0)
	if err := s.db.NewSelect().Model(&leads).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

func (s *Store) UpdateStage(ctx context.Context, id int64, stage string) error {
	if strings.TrimSpace(stage) == "" {
		return errors.New("stage is required")
	}
	res, err := s.db.NewUpdate().
		Model((*Lead)(nil)).
		Set("stage = ?", stage).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update lead stage: %w", err)
	}
	return checkAffected(res)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*Lead)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLeadNotFound
	}
	return nil
}
