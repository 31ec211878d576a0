package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

// objectAPI is the subset of the S3 client the store relies on.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SpacesStore keeps one JSON object per transcript in an S3-compatible
// bucket (DigitalOcean Spaces, MinIO, AWS S3).
type SpacesStore struct {
	client objectAPI
	bucket string
	opts   Options
}

func NewSpacesStore(ctx context.Context, cfg SpacesConfig, opts Options) (*SpacesStore, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load SDK config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newSpacesStore(client, cfg.Bucket, opts), nil
}

func newSpacesStore(client objectAPI, bucket string, opts Options) *SpacesStore {
	return &SpacesStore{
		client: client,
		bucket: bucket,
		opts:   opts.withDefaults(),
	}
}

func objectKey(id string) string {
	return fmt.Sprintf("transcripts/%s.json", id)
}

func (s *SpacesStore) Get(ctx context.Context, id string) (string, bool, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "failed to get from Spaces")
	}
	defer result.Body.Close()

	var rec record
	if err := json.NewDecoder(result.Body).Decode(&rec); err != nil {
		return "", false, errors.Wrap(err, "failed to decode cached transcript")
	}

	if s.opts.expired(time.Unix(rec.CreatedAt, 0)) {
		return "", false, nil
	}
	return rec.Text, true, nil
}

func (s *SpacesStore) Put(ctx context.Context, id, text string) error {
	data, err := json.Marshal(record{Text: text, CreatedAt: s.opts.Now().Unix()})
	if err != nil {
		return errors.Wrap(err, "failed to marshal transcript")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to save to Spaces")
	}
	return nil
}

func (s *SpacesStore) Close() error {
	return nil
}
