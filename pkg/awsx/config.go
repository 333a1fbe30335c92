// Package awsx wraps the AWS SDK clients used by the storefront: SNS for domain
// events, S3 for product image uploads, Secrets Manager for credentials and
// CloudWatch Logs for log shipping.
package awsx

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT is set (LocalStack),
// every client built from the config targets that endpoint instead of AWS.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	if endpoint := CustomEndpoint(); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
	}
	return cfg, nil
}

// CustomEndpoint returns the endpoint override, if any.
func CustomEndpoint() string {
	if v := os.Getenv("AWS_S3_ENDPOINT"); v != "" {
		return v
	}
	return os.Getenv("AWS_ENDPOINT")
}
