package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/plume/internal/dbx"
	"github.com/dmitrijs2005/plume/internal/server/repositories/poems"
	"github.com/dmitrijs2005/plume/internal/server/repositories/rewards"
	"github.com/dmitrijs2005/plume/internal/server/repositories/totems"
	"github.com/dmitrijs2005/plume/internal/server/repositories/userrewards"
	"github.com/dmitrijs2005/plume/internal/server/repositories/users"
	"github.com/dmitrijs2005/plume/internal/server/repositories/votes"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Totems(db dbx.DBTX) totems.Repository
	Poems(db dbx.DBTX) poems.Repository
	Votes(db dbx.DBTX) votes.Repository
	Rewards(db dbx.DBTX) rewards.Repository
	UserRewards(db dbx.DBTX) userrewards.Repository
}
