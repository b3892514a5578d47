package gallery

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/matzehuels/photostrip/pkg/errors"
)

// S3API is the subset of the S3 client the sink uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 archives into a bucket under an optional key prefix.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 loads the default AWS configuration (env, shared config, IMDS).
func NewS3(ctx context.Context, bucket, prefix string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistence, err, "load aws config")
	}
	return NewS3FromClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3FromClient wraps an existing client.
func NewS3FromClient(client S3API, bucket, prefix string) *S3 {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3) Deliver(ctx context.Context, a Artifact) (string, error) {
	key := s.prefix + Filename(a)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(a.Data),
		ContentType: aws.String(ContentType(a.Format)),
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "upload %s", key)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

func (s *S3) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + Prefix),
	}
	for {
		resp, err := s.client.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence, err, "list s3://%s/%s", s.bucket, s.prefix)
		}
		for _, obj := range resp.Contents {
			name := path.Base(aws.ToString(obj.Key))
			if !IsArchived(name) {
				continue
			}
			out = append(out, Entry{Name: name, Size: aws.ToInt64(obj.Size), ModTime: aws.ToTime(obj.LastModified)})
		}
		if !aws.ToBool(resp.IsTruncated) {
			break
		}
		in.ContinuationToken = resp.NextContinuationToken
	}
	SortNewest(out)
	return out, nil
}

func (s *S3) Clear(ctx context.Context) (int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.prefix + e.Name),
		})
		if err == nil {
			n++
		}
	}
	return n, nil
}

var _ Sink = (*S3)(nil)
