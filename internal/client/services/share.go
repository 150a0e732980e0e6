package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/recoveryvault/internal/logging"
)

// ReportTarget is the upload target for exported reports.
const ReportTarget = "report"

type Sharer struct {
	api    Uploader
	logger logging.Logger
}

func NewSharer(api Uploader, logger logging.Logger) *Sharer {
	return &Sharer{api: api, logger: logger.With("module", "share")}
}

// Share uploads the report at path and returns its durable URL.
func (s *Sharer) Share(ctx context.Context, path string) (string, error) {
	data, err := readMedia(path)
	if err != nil {
		return "", err
	}

	up, err := s.api.PresignUpload(ctx, ReportTarget)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}

	if err := putPresigned(ctx, up.PutURL, up.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	s.logger.Info(ctx, "report shared", "key", up.Key, "bytes", len(data))
	return up.DurableURL, nil
}
