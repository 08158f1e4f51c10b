// Package storage provides object storage backends for generated memo PDFs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/quickmemo/backend/internal/infrastructure/config"
	"github.com/quickmemo/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

var _ printing.PDFStorage = (*S3PDFStorage)(nil)

// S3PDFStorage keeps generated PDFs in an S3-compatible bucket (AWS S3, MinIO, RustFS).
type S3PDFStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3PDFStorageOption is a functional option for configuring S3PDFStorage
type S3PDFStorageOption func(*S3PDFStorage)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3PDFStorageOption {
	return func(s *S3PDFStorage) {
		s.logger = logger
	}
}

// WithPresignExpiration sets how long download URLs stay valid
func WithPresignExpiration(d time.Duration) S3PDFStorageOption {
	return func(s *S3PDFStorage) {
		s.presignExpiration = d
	}
}

// NewS3PDFStorage creates an S3PDFStorage from configuration
func NewS3PDFStorage(cfg *infraconfig.StorageConfig, opts ...S3PDFStorageOption) (*S3PDFStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	storage := &S3PDFStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	if storage.presignExpiration <= 0 {
		storage.presignExpiration = 15 * time.Minute
	}
	return storage, nil
}

// normalizeEndpoint adds the scheme when it is missing
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup.
func (s *S3PDFStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Lost a creation race with another instance
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Store uploads the PDF under {tenant}/{yyyy}/{mm}/{job}/{file}
func (s *S3PDFStorage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := printing.StorageKey(req.TenantID, req.JobID, req.FileName, req.StoredAt)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(req.PDFData),
		ContentType:        aws.String(pdfContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", req.FileName)),
	})
	if err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	downloadURL, err := s.GetURL(ctx, key)
	if err != nil {
		s.logger.Warn("PDF stored without download URL", zap.String("key", key), zap.Error(err))
	}

	s.logger.Info("PDF stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.PDFData)))

	return &printing.StoreResult{
		Key:  key,
		URL:  downloadURL,
		Size: int64(len(req.PDFData)),
	}, nil
}

// Get streams a stored PDF
func (s *S3PDFStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "PDF not found", err)
		}
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to download PDF", err)
	}
	return out.Body, nil
}

// Delete removes a stored PDF. Missing objects are not an error.
func (s *S3PDFStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to delete PDF", err)
	}

	s.logger.Info("PDF deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan deletes PDFs whose LastModified is before now-age
func (s *S3PDFStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to list PDFs", err)
		}
		for _, obj := range page.Contents {
			if !expired(obj, cutoff) {
				continue
			}
			if err := s.Delete(ctx, aws.ToString(obj.Key)); err != nil {
				s.logger.Warn("failed to delete old PDF",
					zap.String("key", aws.ToString(obj.Key)),
					zap.Error(err))
				continue
			}
			deleted++
		}
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// GetURL returns a presigned download URL
func (s *S3PDFStorage) GetURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "storage key is required", nil)
	}

	presigned, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", printing.NewRenderError(printing.ErrCodeStorageFailed, "failed to generate download URL", err)
	}
	return presigned.URL, nil
}

// Bucket returns the bucket name
func (s *S3PDFStorage) Bucket() string {
	return s.bucket
}

func expired(obj types.Object, cutoff time.Time) bool {
	if obj.Key == nil || !strings.HasSuffix(*obj.Key, ".pdf") {
		return false
	}
	return obj.LastModified != nil && obj.LastModified.Before(cutoff)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	// Some S3-compatible services only report the code in the message
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "NoSuchKey")
}
