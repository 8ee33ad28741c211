package confirmation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Record is the archived copy of a delivered confirmation.
type Record struct {
	MessageID     string    `json:"message_id"`
	Provider      string    `json:"provider"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Industry      string    `json:"industry"`
	Subject       string    `json:"subject"`
	ContentSource string    `json:"content_source"`
	HTML          string    `json:"html"`
	SentAt        time.Time `json:"sent_at"`
}

// Archiver stores delivered confirmations.
type Archiver interface {
	Archive(ctx context.Context, rec Record) error
}

type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes one JSON object per confirmation, partitioned by day.
type S3Archiver struct {
	client s3PutAPI
	bucket string
	prefix string
}

// NewS3Archiver returns nil when no bucket is configured.
func NewS3Archiver(client s3PutAPI, bucket string) *S3Archiver {
	if client == nil || strings.TrimSpace(bucket) == "" {
		return nil
	}
	return &S3Archiver{client: client, bucket: bucket, prefix: "confirmations"}
}

func (a *S3Archiver) key(rec Record) string {
	id := rec.MessageID
	if id == "" {
		id = fmt.Sprintf("unknown-%d", rec.SentAt.UnixNano())
	}
	return fmt.Sprintf("%s/%s/%s.json", a.prefix, rec.SentAt.UTC().Format("2006/01/02"), id)
}

func (a *S3Archiver) Archive(ctx context.Context, rec Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("confirmation: marshal archive record: %w", err)
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.key(rec)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("confirmation: archive %s: %w", rec.MessageID, err)
	}
	return nil
}
