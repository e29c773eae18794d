package deps

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mavericklabs/sparks-files/env"
)

func NewS3Client() (*s3.Client, error) {
	region := env.GetOptional(env.S3Region, "eu-west-1")

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	if accessKey := os.Getenv(env.S3AccessKey); accessKey != "" {
		secretKey, err := env.Get(env.S3SecretKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	endpoint := os.Getenv(env.S3Endpoint)

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			// minio and other S3-compatible backends need path-style addressing
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
