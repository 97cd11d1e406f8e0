package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"
)

type s3Store struct {
	client s3iface.S3API
	bucket string
	prefix string
}

func NewS3Store(client s3iface.S3API, bucket, prefix string) Store {
	return s3Store{client: client, bucket: bucket, prefix: trimSlash(prefix)}
}

// NewS3Client uses static credentials when given, the default chain otherwise.
func NewS3Client(region, accessKey, secretKey string) (s3iface.S3API, error) {
	cfg := aws.NewConfig().WithRegion(region)
	if accessKey != "" && secretKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(accessKey, secretKey, ""))
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

func (s s3Store) key(file string) string {
	if s.prefix == "" {
		return file
	}
	return path.Join(s.prefix, file)
}

func (s s3Store) Load(ctx context.Context, file string) (*Record, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(file)),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("%w: file s3://%s/%s", ErrNotFound, s.bucket, s.key(file))
		}
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}

	r, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key(file), err)
	}
	return r, nil
}

func (s s3Store) Save(ctx context.Context, file string, r *Record) error {
	data, err := encode(r)
	if err != nil {
		return err
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(file)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return err
	}

	zap.L().With(zap.String("bucket", s.bucket), zap.String("key", s.key(file))).Info("Registry mirrored to S3")
	return nil
}

func (s s3Store) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}

	var files []string
	err := s.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			if name := path.Base(aws.StringValue(obj.Key)); IsRegistryFile(name) {
				files = append(files, name)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
