// internal/common/aws/config.go

// Package aws wraps the SDK clients the alert delivery path uses. The
// wrappers satisfy the narrow send interfaces workers mock in tests.
package aws

import (
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// LoadConfig resolves credentials through the SDK's default chain for the
// given region.
func LoadConfig(ctx context.Context, region string) (awssdk.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}
