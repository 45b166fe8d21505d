package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/plume/internal/common"
	"github.com/dmitrijs2005/plume/internal/server/apperrors"
	"github.com/dmitrijs2005/plume/internal/server/config"
	"github.com/dmitrijs2005/plume/internal/server/models"
	"github.com/dmitrijs2005/plume/internal/server/policy"
	"github.com/dmitrijs2005/plume/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// S3 seams, replaced in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// TotemService manages the totem catalog. Pictures live in object storage;
// only their keys are persisted.
type TotemService struct {
	base
	cfg *config.Config
}

func NewTotemService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...Option) *TotemService {
	return &TotemService{
		base: newBase(db, m, cfg.RepositoryTimeout, "totems", opts),
		cfg:  cfg,
	}
}

func newPictureKey() string {
	return "totems/" + uuid.NewString()
}

func (s *TotemService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.S3RootUser,
			s.cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *TotemService) expiry() time.Duration {
	if s.cfg.PresignExpiry <= 0 {
		return 15 * time.Minute
	}
	return s.cfg.PresignExpiry
}

func (s *TotemService) presignedPutURL(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}
	bucket := s.cfg.S3Bucket
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.expiry()))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *TotemService) presignedGetURL(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}
	bucket := s.cfg.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.expiry()))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// withPicture fills PictureURL. A signing failure leaves it empty.
func (s *TotemService) withPicture(ctx context.Context, t *models.Totem) {
	if t.PictureKey == "" {
		return
	}
	url, err := s.presignedGetURL(ctx, t.PictureKey)
	if err != nil {
		s.log.Warn(ctx, "presign picture failed", "totem_id", t.ID, "error", err)
		return
	}
	t.PictureURL = url
}

func (s *TotemService) List(ctx context.Context) ([]*models.Totem, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	list, err := s.repomanager.Totems(s.db).List(ctx)
	if err != nil {
		return nil, apperrors.FromStorage(err, "", "list totems")
	}
	for _, t := range list {
		s.withPicture(ctx, t)
	}
	return list, nil
}

func (s *TotemService) Get(ctx context.Context, totemID int64) (*models.Totem, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	t, err := s.repomanager.Totems(s.db).GetByID(ctx, totemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperrors.TotemNotFound(totemID)
		}
		return nil, apperrors.FromStorage(err, "", "load totem")
	}
	s.withPicture(ctx, t)
	return t, nil
}

// Create adds a totem to the catalog and returns a presigned URL the caller
// uploads the picture to. Admin only.
func (s *TotemService) Create(ctx context.Context, p policy.Principal, name, description string) (*models.Totem, string, error) {
	if err := authorize(p, policy.ActionManageTotems, policy.Totems()); err != nil {
		return nil, "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", apperrors.Validation("totem name must not be empty")
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()

	key := newPictureKey()
	uploadURL, err := s.presignedPutURL(ctx, key)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "presign picture upload", err)
	}

	t, err := s.repomanager.Totems(s.db).Create(ctx, &models.Totem{Name: name, Description: description, PictureKey: key})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, "", apperrors.New(apperrors.CodeTotemNameTaken, "totem name already taken")
	}
	if err != nil {
		return nil, "", apperrors.FromStorage(err, "", "create totem")
	}

	s.log.Info(ctx, "totem created", "totem_id", t.ID, "by", p.UserID)
	return t, uploadURL, nil
}
