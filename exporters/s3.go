package exporters

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alonana/perfshark/core"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

const s3Scheme = "s3://"

type S3Client struct {
	s3Service s3iface.S3API
}

func (s *S3Client) init() error {
	if s.s3Service != nil {
		return nil
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(core.Config.AWSRegion)})
	if err != nil {
		return fmt.Errorf("create aws session failed: %w", err)
	}
	s.s3Service = s3.New(sess)
	return nil
}

// ParseS3Path splits s3://bucket/key. A missing key or a key ending with / gets a generated object name.
func ParseS3Path(path string, extension string) (string, string, error) {
	location := strings.TrimPrefix(path, s3Scheme)
	sections := strings.SplitN(location, "/", 2)
	bucket := sections[0]
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in %v", path)
	}

	key := ""
	if len(sections) == 2 {
		key = sections[1]
	}
	if key == "" || strings.HasSuffix(key, "/") {
		key = key + uuid.NewString() + extension
	}
	return bucket, key, nil
}

func (s *S3Client) Process(data []byte, path string, extension string) (string, error) {
	bucket, key, err := ParseS3Path(path, extension)
	if err != nil {
		return "", err
	}

	err = s.init()
	if err != nil {
		return "", err
	}

	_, err = s.s3Service.PutObject(&s3.PutObjectInput{
		Body:        bytes.NewReader(data),
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload requests to bucket %v, object %v failed: %w", bucket, key, err)
	}

	location := fmt.Sprintf("%v%v/%v", s3Scheme, bucket, key)
	core.V1("%v bytes uploaded to %v", len(data), location)
	return location, nil
}
