package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"go.uber.org/zap"
)

// LoadAWSConfig loads AWS config and supports LocalStack via the AWS_ENDPOINT
// env var. When set, every SDK client built from the config targets that URL.
// Explicit AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY take precedence over the
// default credential chain.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := os.Getenv("AWS_ENDPOINT")

	cfgOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" || secret != "" {
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secret, os.Getenv("AWS_SESSION_TOKEN")),
		))
	}

	if endpoint != "" {
		cfgOpts = append(cfgOpts, config.WithEndpointResolverWithOptions(
			sdkaws.EndpointResolverWithOptionsFunc(func(service, r string, options ...interface{}) (sdkaws.Endpoint, error) {
				return sdkaws.Endpoint{
					URL:               endpoint,
					SigningRegion:     region,
					HostnameImmutable: true,
				}, nil
			}),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	zap.L().Debug("AWS configuration loaded",
		zap.String("region", region),
		zap.String("endpoint", endpoint),
	)
	return cfg, nil
}
