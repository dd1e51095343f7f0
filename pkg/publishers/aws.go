package publishers

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves the shared AWS config for SQS and SNS publishers.
func loadAWSConfig(ctx context.Context, region string, creds *AWSCredentialsConfig) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}

	if creds != nil {
		provider, err := staticCredentials(creds, os.Getenv)
		if err != nil {
			return aws.Config{}, err
		}
		opts = append(opts, awscfg.WithCredentialsProvider(provider))
	}

	return awscfg.LoadDefaultConfig(ctx, opts...)
}

func staticCredentials(creds *AWSCredentialsConfig, getenv func(string) string) (credentials.StaticCredentialsProvider, error) {
	id := getenv(creds.AccessKeyIDEnv)
	secret := getenv(creds.SecretAccessKeyEnv)
	if id == "" || secret == "" {
		return credentials.StaticCredentialsProvider{}, fmt.Errorf("aws credentials not set in %s/%s", creds.AccessKeyIDEnv, creds.SecretAccessKeyEnv)
	}
	return credentials.NewStaticCredentialsProvider(id, secret, ""), nil
}
