package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"funkosrest/internal/apperr"
)

// S3 stores images in one bucket using path-style addressing, which works
// with MinIO and CEPH as well as AWS.
type S3 struct {
	client    *s3.Client
	bucket    string
	endpoint  string
	publicURL string
}

func NewS3(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*S3, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, errors.New("s3 storage needs endpoint, bucket and credentials")
	}
	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})
	return &S3{
		client:    client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *S3) Store(ctx context.Context, filename, contentType string, body io.Reader, size int64) error {
	if err := checkName(filename); err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(filename),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return apperr.Internal(fmt.Errorf("s3 upload %s/%s: %w", s.bucket, filename, err))
	}
	return nil
}

func (s *S3) Load(ctx context.Context, filename string) (io.ReadCloser, error) {
	if err := checkName(filename); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, notFound(filename)
		}
		return nil, apperr.Internal(fmt.Errorf("s3 download %s/%s: %w", s.bucket, filename, err))
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, filename string) error {
	if err := checkName(filename); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		return apperr.Internal(fmt.Errorf("s3 delete %s/%s: %w", s.bucket, filename, err))
	}
	return nil
}

// URL uses the configured public URL if set, otherwise a path-style URL.
func (s *S3) URL(filename string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + filename
	}
	return s.endpoint + "/" + s.bucket + "/" + filename
}
