package storage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Provider hosts media in any S3-compatible bucket (B2, MinIO, AWS).
type S3Provider struct {
	api      *s3.S3
	bucket   string
	endpoint string
}

func NewS3Provider(keyID, appKey, endpoint, region, bucket string) *S3Provider {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(keyID, appKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(true),
	}
	sess := session.Must(session.NewSession(s3Config))
	return &S3Provider{api: s3.New(sess), bucket: bucket, endpoint: endpoint}
}

func (s *S3Provider) Ensure() error {
	_, err := s.api.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("bucket %q not reachable: %w", s.bucket, err)
	}
	return nil
}

func (s *S3Provider) Upload(name string, data []byte, contentType string) (string, error) {
	_, err := s.api.PutObject(&s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(name),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, name), nil
}
