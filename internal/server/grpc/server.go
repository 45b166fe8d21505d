// Package grpc exposes the Plume services over gRPC.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/dmitrijs2005/plume/internal/logging"
	"github.com/dmitrijs2005/plume/internal/server/lore"
	"github.com/dmitrijs2005/plume/internal/server/metrics"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/services"
	"github.com/dmitrijs2005/plume/internal/server/vocab"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type UserService interface {
	Register(ctx context.Context, email, pseudo, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	ChooseTotem(ctx context.Context, p policy.Principal, totemID int64) (*models.User, error)
	Unlock(ctx context.Context, p policy.Principal, userID int64) error
	Delete(ctx context.Context, p policy.Principal, userID int64) error
	Get(ctx context.Context, userID int64) (*models.User, error)
	ListRewards(ctx context.Context, userID int64) ([]*models.UserReward, error)
}

type TotemService interface {
	List(ctx context.Context) ([]*models.Totem, error)
	Get(ctx context.Context, totemID int64) (*models.Totem, error)
	Create(ctx context.Context, p policy.Principal, name, description string) (*models.Totem, string, error)
}

type PoemService interface {
	CreateDraft(ctx context.Context, p policy.Principal, title, content string, mood vocab.Mood) (*models.Poem, error)
	Publish(ctx context.Context, p policy.Principal, poemID int64) (*models.Poem, error)
	Update(ctx context.Context, p policy.Principal, poemID int64, changes models.PoemChanges) (*models.Poem, error)
	Delete(ctx context.Context, p policy.Principal, poemID int64) error
	Get(ctx context.Context, p policy.Principal, poemID int64) (*models.Poem, error)
	ListPublished(ctx context.Context, page models.Page) ([]*models.Poem, error)
	ListByAuthor(ctx context.Context, p policy.Principal, authorID int64, page models.Page) ([]*models.Poem, error)
}

type VoteService interface {
	CastVote(ctx context.Context, p policy.Principal, poemID int64, weight vocab.FeatherWeight) (*services.VoteOutcome, error)
	WithdrawVote(ctx context.Context, p policy.Principal, voteID int64) error
	Tally(ctx context.Context, poemID int64) (models.Tally, vocab.Symbol, error)
	ListForPoem(ctx context.Context, poemID int64, page models.Page) ([]*models.FeatherVote, error)
	ListForVoter(ctx context.Context, voterID int64, page models.Page) ([]*models.FeatherVote, error)
}

type LoreCatalog interface {
	List(kind lore.Kind) ([]lore.Entry, error)
}

// Services bundles what the handlers call into.
type Services struct {
	Users  UserService
	Totems TotemService
	Poems  PoemService
	Votes  VoteService
	Lore   LoreCatalog
}

type GRPCServer struct {
	address   string
	services  Services
	logger    logging.Logger
	metrics   *metrics.Metrics
	jwtSecret []byte
	health    *health.Server
}

func NewGRPCServer(a string, l logging.Logger, m *metrics.Metrics, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		services:  svc,
		logger:    l.With("module", "grpc_server"),
		metrics:   m,
		jwtSecret: []byte(secretKey),
		health:    health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			s.requestIDInterceptor,
			s.loggingInterceptor,
			s.errorInterceptor,
			s.accessTokenInterceptor,
		),
	)
	api.RegisterPlumeServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		srv.Stop()
		return err
	}
	<-stopped
	return nil
}
