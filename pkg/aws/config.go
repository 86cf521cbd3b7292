package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// maxRetryAttempts raises the SDK default so bulk describe loops ride out
// API throttling instead of surfacing transient errors.
const maxRetryAttempts = 7

// NewConfig loads the AWS configuration for a single region with explicit
// retry options. All scanners for that region share the returned config.
// An empty profile means the default credential chain.
func NewConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithRetryMaxAttempts(maxRetryAttempts),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config for region %s: %w", region, err)
	}

	return cfg, nil
}
