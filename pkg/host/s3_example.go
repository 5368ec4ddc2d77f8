//go:build s3archive
// +build s3archive

// This file provides an example S3Archiver implementation for operators
// who want a record of what a session's registry held when it closed.
// It is excluded from regular builds because it requires the AWS SDK.
//
// To use this in your project, copy this file and add the AWS SDK:
//   go get github.com/aws/aws-sdk-go-v2
//   go get github.com/aws/aws-sdk-go-v2/config
//   go get github.com/aws/aws-sdk-go-v2/service/s3

package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Archiver uploads a JSON dump of a closing session's registry to S3.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	archiver := host.NewS3Archiver(s3.NewFromConfig(cfg), "my-bucket", "sessions/")
//	h.SetOnClose(archiver.Archive)
type S3Archiver struct {
	client  *s3.Client
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewS3Archiver creates an archiver writing to bucket under prefix.
func NewS3Archiver(client *s3.Client, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		timeout: 30 * time.Second,
	}
}

// Archive uploads the session's final registry contents. Intended to be
// wired as a Host OnClose callback; upload failures are returned to the
// caller via ArchiveErr for callers that invoke it directly.
func (a *S3Archiver) Archive(s *Session) {
	_ = a.ArchiveErr(s)
}

// ArchiveErr is Archive with an error result.
func (a *S3Archiver) ArchiveErr(s *Session) error {
	type archived struct {
		ID          string         `json:"id"`
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Props       map[string]any `json:"props"`
	}

	entries := s.Registry.List()
	dump := make([]archived, 0, len(entries))
	for _, e := range entries {
		dump = append(dump, archived{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Props:       e.Props.ToAny(),
		})
	}

	body, err := json.Marshal(dump)
	if err != nil {
		return fmt.Errorf("host: marshal session %s: %w", s.ID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	key := fmt.Sprintf("%s%s/%d.json", a.prefix, s.ID, time.Now().Unix())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("host: archive session %s: %w", s.ID, err)
	}
	return nil
}
