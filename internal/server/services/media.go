package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	sc "github.com/dmitrijs2005/recoveryvault/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

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

// TargetReport asks for an upload slot for an exported report rather than
// captured media.
const TargetReport = "report"

// Upload describes a presigned upload slot.
type Upload struct {
	Key         string
	PutURL      string
	DurableURL  string
	ContentType string
	Expires     time.Time
}

// MediaService hands out presigned object-storage URLs. Clients never see
// storage credentials.
type MediaService struct {
	config *sc.Config
}

func NewMediaService(config *sc.Config) *MediaService {
	return &MediaService{config: config}
}

// StorageKey builds "<folder>/<epoch-millis>_<random>.<ext>".
func StorageKey(folder, ext string, t time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s/%d_%s.%s", folder, t.UnixMilli(), suffix, ext)
}

func targetLayout(target string) (folder, ext, contentType string, err error) {
	if target == TargetReport {
		return "reports", "html", "text/html; charset=utf-8", nil
	}
	kind := journal.MediaKind(target)
	if !kind.Valid() {
		return "", "", "", fmt.Errorf("%w: unknown upload target %q", common.ErrValidation, target)
	}
	return kind.Folder(), kind.Ext(), kind.ContentType(), nil
}

// DurableURL is the stable path-style object URL stored in entries.
func (s *MediaService) DurableURL(key string) string {
	return strings.TrimRight(s.config.S3BaseEndpoint, "/") + "/" + s.config.S3Bucket + "/" + key
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload reserves a fresh key for target (a media kind or
// TargetReport) and returns a presigned PUT for it.
func (s *MediaService) PresignUpload(ctx context.Context, target string) (*Upload, error) {
	folder, ext, contentType, err := targetLayout(target)
	if err != nil {
		return nil, err
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(folder, ext, now())

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &Upload{
		Key:         key,
		PutURL:      req.URL,
		DurableURL:  s.DurableURL(key),
		ContentType: contentType,
		Expires:     now().Add(s.config.PresignExpiry),
	}, nil
}

// PresignGet returns a temporary read URL for key.
func (s *MediaService) PresignGet(ctx context.Context, key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: bad key %q", common.ErrValidation, key)
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
