package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/plume/internal/api"
	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/auth"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

const (
	accessTokenHeader = common.AccessTokenHeaderName
	authHeader        = "authorization"
	requestIDHeader   = common.RequestIDHeaderName
)

// publicMethods may be called without a token. A valid token, when sent,
// still identifies the caller; a bad one is ignored.
var publicMethods = map[string]bool{
	healthpb.Health_Check_FullMethodName: true,

	api.MethodRegister:   true,
	api.MethodLogin:      true,
	api.MethodListTotems: true,
	api.MethodGetTotem:   true,
	api.MethodGetPoem:    true,
	api.MethodListPoems:  true,
	api.MethodTally:      true,
	api.MethodListVotes:  true,
	api.MethodLore:       true,
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

func (s *GRPCServer) requestIDInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		id = firstValue(md, requestIDHeader)
	}
	if id == "" {
		id = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, id))
	return handler(context.WithValue(ctx, requestIDKey, id), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	d := time.Since(start)

	code := status.Code(err)
	s.metrics.ObserveRPC(info.FullMethod, code.String(), d)

	args := []any{"method", info.FullMethod, "request_id", requestIDFrom(ctx), "duration", d, "code", code.String()}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "request failed", append(args, "error", err)...)
	} else {
		s.logger.Info(ctx, "request", args...)
	}
	return resp, err
}

// errorInterceptor renders handler errors as gRPC statuses.
func (s *GRPCServer) errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}
	return nil, s.toStatus(ctx, err)
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var appErr *apperrors.Error
	switch {
	case errors.As(err, &appErr):
		if appErr.Kind() == apperrors.KindInternal {
			s.logger.Error(ctx, "internal error", "request_id", requestIDFrom(ctx), "error", err)
			return apperrors.New(apperrors.CodeInternal, "internal error").ToGRPCStatus()
		}
		return appErr.ToGRPCStatus()
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	s.logger.Error(ctx, "unexpected error", "request_id", requestIDFrom(ctx), "error", err)
	return status.Error(codes.Internal, "internal error")
}

func tokenFrom(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if t := firstValue(md, accessTokenHeader); t != "" {
		return t
	}
	if h := firstValue(md, authHeader); strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[len("bearer "):])
	}
	return ""
}

// accessTokenInterceptor attaches the caller's principal to the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	token := tokenFrom(ctx)
	if token == "" {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, apperrors.New(apperrors.CodeTokenExpired, "token expired")
		}
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "invalid token")
	}

	return handler(policy.WithPrincipal(ctx, claims.Principal()), req)
}
