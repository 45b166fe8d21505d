// Package services contains server-side business logic: the poem lifecycle,
// feather voting, reward unlocking, accounts and the totem catalog.
//
// Every write runs in a single transaction opened with dbx.WithTx; rule
// violations are returned as *apperrors.Error and storage failures are
// translated with apperrors.FromStorage.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/logging"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/metrics"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/repositories/repomanager"
)

// now is a seam for tests.
var now = func() time.Time { return time.Now().UTC() }

// base carries what every service needs.
type base struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	timeout     time.Duration
	log         logging.Logger
	metrics     *metrics.Metrics
}

type Option func(*base)

func WithLogger(l logging.Logger) Option {
	return func(b *base) { b.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *base) { b.metrics = m }
}

func newBase(db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration, module string, opts []Option) base {
	b := base{db: db, repomanager: m, timeout: timeout, log: logging.Nop()}
	for _, opt := range opts {
		opt(&b)
	}
	b.log = b.log.With("module", module)
	return b
}

// bounded derives a context that expires after the configured repository
// timeout. A zero timeout leaves ctx as is.
func (b *base) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

// authorize returns a Forbidden error unless p may perform a on r.
func authorize(p policy.Principal, a policy.Action, r policy.Resource) error {
	if !policy.Can(p, a, r) {
		return apperrors.Forbidden(a.String())
	}
	return nil
}

// normalizePage applies the default page size and caps it.
func normalizePage(p models.Page) models.Page {
	if p.Limit <= 0 {
		p.Limit = common.DefaultPageSize
	}
	if p.Limit > common.MaxPageSize {
		p.Limit = common.MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
