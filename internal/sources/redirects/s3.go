package redirects

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/swooby/swoo.by/internal/utils"
)

const s3Scheme = "s3://"

// maxTableSize caps how much of a table object is read.
const maxTableSize = 8 << 20

// ObjectGetter is the subset of the S3 client used to fetch tables.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS credential chain.
// An empty region defers to the environment/shared config.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// IsS3Location reports whether location is an s3://bucket/key URI.
func IsS3Location(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

func parseS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q (want s3://bucket/key)", uri)
	}
	return bucket, key, nil
}

func fetchS3(ctx context.Context, objects ObjectGetter, uri string) ([]byte, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	out, err := objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3 object %s: %w", uri, err)
	}
	defer utils.Close(out.Body)

	data, err := io.ReadAll(io.LimitReader(out.Body, maxTableSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object %s: %w", uri, err)
	}
	return data, nil
}
