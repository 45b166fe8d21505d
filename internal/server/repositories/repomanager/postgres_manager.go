// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/migrations"
	"github.com/dmitrijs2005/plume/internal/server/repositories/poems"
	"github.com/dmitrijs2005/plume/internal/server/repositories/rewards"
	"github.com/dmitrijs2005/plume/internal/server/repositories/totems"
	"github.com/dmitrijs2005/plume/internal/server/repositories/userrewards"
	"github.com/dmitrijs2005/plume/internal/server/repositories/users"
	"github.com/dmitrijs2005/plume/internal/server/repositories/votes"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to
// either the pool or an open transaction.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Totems(db dbx.DBTX) totems.Repository {
	return totems.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Poems(db dbx.DBTX) poems.Repository {
	return poems.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Votes(db dbx.DBTX) votes.Repository {
	return votes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Rewards(db dbx.DBTX) rewards.Repository {
	return rewards.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) UserRewards(db dbx.DBTX) userrewards.Repository {
	return userrewards.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema and the reward catalog seed.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
