package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Uploader is the part of *s3manager.Uploader used by S3Store.
type Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3Store writes archives to an S3 bucket. Expiry is left to bucket
// lifecycle rules, so S3Store does not implement Pruner.
type S3Store struct {
	uploader Uploader
	bucket   string
	prefix   string
}

// NewS3Store returns a store that writes keys below prefix in bucket.
func NewS3Store(uploader Uploader, bucket, prefix string) *S3Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Store{uploader: uploader, bucket: bucket, prefix: prefix}
}

// NewS3StoreForRegion builds an S3Store using the default AWS credential chain.
func NewS3StoreForRegion(region, bucket, prefix string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewS3Store(s3manager.NewUploader(sess), bucket, prefix), nil
}

// ObjectKey returns the bucket key for an archive key.
func (s *S3Store) ObjectKey(key Key) string {
	return s.prefix + key.Path()
}

// Put uploads data under the key's object key.
func (s *S3Store) Put(ctx context.Context, key Key, data []byte) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.ObjectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		if awsErr, ok := err.(awserr.Error); ok {
			return fmt.Errorf("upload archive to s3: %v (%v)", awsErr.Code(), awsErr.Message())
		}
		return fmt.Errorf("upload archive to s3: %w", err)
	}
	return nil
}
