// internal/store/staged/store.go

// Package staged keeps generated site bundles in the object store between
// generation and payment. Bundles live under pending/html/<id>.html and
// pending/json/<id>.json.
package staged

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"siteforge/internal/models"
)

// Store is the staged-bundle contract the fulfillment pipeline depends on.
type Store interface {
	Put(ctx context.Context, site *models.StagedSite) error
	GetHTML(ctx context.Context, pendingID string) (string, error)
	GetSite(ctx context.Context, pendingID string) (*models.StagedSite, error)
	Delete(ctx context.Context, pendingID string) error
}

// objectAPI is the slice of the S3 client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type S3Store struct {
	client objectAPI
	bucket string
	prefix string
	logger Logger
}

func NewS3Store(client objectAPI, bucket, prefix string, log Logger) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: log.With(map[string]interface{}{
			"component": "staged-store",
		}),
	}
}

func (s *S3Store) htmlKey(pendingID string) string {
	return fmt.Sprintf("%spending/html/%s.html", s.prefix, pendingID)
}

func (s *S3Store) jsonKey(pendingID string) string {
	return fmt.Sprintf("%spending/json/%s.json", s.prefix, pendingID)
}

// Put writes both halves of the bundle. The HTML object is what gets
// deployed; the JSON object keeps the structured document for later edits.
func (s *S3Store) Put(ctx context.Context, site *models.StagedSite) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.htmlKey(site.PendingID)),
		Body:        bytes.NewReader([]byte(site.HTML)),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("stage html bundle: %w", err)
	}

	doc, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("encode staged site: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.jsonKey(site.PendingID)),
		Body:        bytes.NewReader(doc),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("stage json bundle: %w", err)
	}

	s.logger.Info("site staged", map[string]interface{}{
		"pendingId": site.PendingID,
		"htmlBytes": len(site.HTML),
	})
	return nil
}

func (s *S3Store) GetHTML(ctx context.Context, pendingID string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.htmlKey(pendingID)),
	})
	if err != nil {
		return "", fmt.Errorf("fetch staged html: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("read staged html: %w", err)
	}
	return string(body), nil
}

func (s *S3Store) GetSite(ctx context.Context, pendingID string) (*models.StagedSite, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.jsonKey(pendingID)),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch staged site: %w", err)
	}
	defer out.Body.Close()

	var site models.StagedSite
	if err := json.NewDecoder(out.Body).Decode(&site); err != nil {
		return nil, fmt.Errorf("decode staged site: %w", err)
	}
	return &site, nil
}

// Delete removes both bundle halves. Missing objects are not an error.
func (s *S3Store) Delete(ctx context.Context, pendingID string) error {
	for _, key := range []string{s.htmlKey(pendingID), s.jsonKey(pendingID)} {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			s.logger.Warn("staged object delete failed", map[string]interface{}{
				"pendingId": pendingID,
				"key":       key,
				"error":     err.Error(),
			})
		}
	}
	return nil
}
