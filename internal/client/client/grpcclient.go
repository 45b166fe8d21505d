package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/dmitrijs2005/plume/internal/client/config"
	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/sethvargo/go-retry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const accessTokenHeader = common.AccessTokenHeaderName

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *api.Client
	health      healthpb.HealthClient
	attempts    uint64
	baseDelay   time.Duration

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

// anonymousMethods never carry the stored token, so a stale session cannot
// block signing in again.
var anonymousMethods = map[string]bool{
	api.MethodLogin:    true,
	api.MethodRegister: true,
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(accessTokenHeader, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if t := s.token(); t != "" && !anonymousMethods[method] {
		ctx = withAccessToken(ctx, t)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// retryable reports whether a failed call may be repeated as is.
func retryable(err error) bool {
	if apperrors.IsRetryable(apperrors.FromGRPCStatus(err)) {
		return true
	}
	return status.Code(err) == codes.Unavailable
}

func (s *GRPCClient) retryInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	b := retry.WithMaxRetries(s.attempts, retry.NewExponential(s.baseDelay))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil && retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func NewPlumeClient(cfg *config.Config, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: cfg.ServerEndpointAddr,
		attempts:    cfg.RetryAttempts,
		baseDelay:   cfg.RetryBaseDelay,
	}
	if c.baseDelay <= 0 {
		c.baseDelay = 100 * time.Millisecond
	}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(c.retryInterceptor, c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(c.endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

// mapError turns a status carrying domain details back into an
// *apperrors.Error. Bare transport failures become sentinel errors.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if e := apperrors.FromGRPCStatus(err); errors.As(e, &appErr) {
		return appErr
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Register(ctx context.Context, email, pseudo, password string) (*api.User, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Email: email, Pseudo: pseudo, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

// Login authenticates and keeps the issued token for subsequent calls.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.SetAccessToken(resp.AccessToken)
	return resp, nil
}

func (s *GRPCClient) GetUser(ctx context.Context, userID int64) (*api.User, error) {
	resp, err := s.client.GetUser(ctx, &api.GetUserRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) ChooseTotem(ctx context.Context, totemID int64) (*api.User, error) {
	resp, err := s.client.ChooseTotem(ctx, &api.ChooseTotemRequest{TotemID: totemID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) UnlockUser(ctx context.Context, userID int64) error {
	_, err := s.client.UnlockUser(ctx, &api.UserIDRequest{UserID: userID})
	return s.mapError(err)
}

func (s *GRPCClient) DeleteUser(ctx context.Context, userID int64) error {
	_, err := s.client.DeleteUser(ctx, &api.UserIDRequest{UserID: userID})
	return s.mapError(err)
}

func (s *GRPCClient) ListRewards(ctx context.Context, userID int64) ([]*api.Reward, error) {
	resp, err := s.client.ListRewards(ctx, &api.GetUserRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Rewards, nil
}

func (s *GRPCClient) ListTotems(ctx context.Context) ([]*api.Totem, error) {
	resp, err := s.client.ListTotems(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Totems, nil
}

func (s *GRPCClient) GetTotem(ctx context.Context, totemID int64) (*api.Totem, error) {
	resp, err := s.client.GetTotem(ctx, &api.GetTotemRequest{TotemID: totemID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Totem, nil
}

// CreateTotem returns the new totem and the URL its picture must be PUT to.
func (s *GRPCClient) CreateTotem(ctx context.Context, name, description string) (*api.Totem, string, error) {
	resp, err := s.client.CreateTotem(ctx, &api.CreateTotemRequest{Name: name, Description: description})
	if err != nil {
		return nil, "", s.mapError(err)
	}
	return resp.Totem, resp.UploadURL, nil
}

func (s *GRPCClient) CreateDraft(ctx context.Context, title, content, mood string) (*api.Poem, error) {
	resp, err := s.client.CreateDraft(ctx, &api.CreateDraftRequest{Title: title, Content: content, Mood: mood})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Poem, nil
}

func (s *GRPCClient) PublishPoem(ctx context.Context, poemID int64) (*api.Poem, error) {
	resp, err := s.client.PublishPoem(ctx, &api.PoemIDRequest{PoemID: poemID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Poem, nil
}

func (s *GRPCClient) UpdatePoem(ctx context.Context, req *api.UpdatePoemRequest) (*api.Poem, error) {
	resp, err := s.client.UpdatePoem(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Poem, nil
}

func (s *GRPCClient) DeletePoem(ctx context.Context, poemID int64) error {
	_, err := s.client.DeletePoem(ctx, &api.PoemIDRequest{PoemID: poemID})
	return s.mapError(err)
}

func (s *GRPCClient) GetPoem(ctx context.Context, poemID int64) (*api.Poem, error) {
	resp, err := s.client.GetPoem(ctx, &api.PoemIDRequest{PoemID: poemID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Poem, nil
}

func (s *GRPCClient) ListPoems(ctx context.Context, authorID int64, page api.Page) ([]*api.Poem, error) {
	resp, err := s.client.ListPoems(ctx, &api.ListPoemsRequest{AuthorID: authorID, Page: page})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Poems, nil
}

func (s *GRPCClient) CastVote(ctx context.Context, poemID int64, weight string) (*api.CastVoteResponse, error) {
	resp, err := s.client.CastVote(ctx, &api.CastVoteRequest{PoemID: poemID, Weight: weight})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) WithdrawVote(ctx context.Context, voteID int64) error {
	_, err := s.client.WithdrawVote(ctx, &api.WithdrawVoteRequest{VoteID: voteID})
	return s.mapError(err)
}

func (s *GRPCClient) Tally(ctx context.Context, poemID int64) (*api.TallyResponse, error) {
	resp, err := s.client.Tally(ctx, &api.PoemIDRequest{PoemID: poemID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListVotes(ctx context.Context, req *api.ListVotesRequest) ([]*api.Vote, error) {
	resp, err := s.client.ListVotes(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Votes, nil
}

func (s *GRPCClient) Lore(ctx context.Context, kind string) ([]*api.LoreEntry, error) {
	resp, err := s.client.Lore(ctx, &api.LoreRequest{Kind: kind})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entries, nil
}
