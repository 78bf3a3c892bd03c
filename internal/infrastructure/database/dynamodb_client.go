// Package database bootstraps the DynamoDB client the repositories share.
package database

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ConnectDynamoDB builds the bot's DynamoDB client from the environment.
// Pointing DYNAMODB_ENDPOINT at a local instance (e.g. http://dynamodb:8000)
// makes the whole setup runnable without an AWS account; local DynamoDB
// accepts any credentials, so placeholders are filled in when none are set.
//
// Env vars: AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
// DYNAMODB_ENDPOINT.
func ConnectDynamoDB() *dynamodb.Client {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(getenvDefault("AWS_REGION", "us-east-1")),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			getenvDefault("AWS_ACCESS_KEY_ID", "local"),
			getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
			"",
		)),
	}
	if endpoint := os.Getenv("DYNAMODB_ENDPOINT"); endpoint != "" {
		log.Printf("[database][infra] using dynamodb endpoint %s", endpoint)
		opts = append(opts, config.WithEndpointResolverWithOptions(localResolver(endpoint)))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Fatalf("[database][infra] loading aws config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// localResolver routes DynamoDB calls to the given endpoint and leaves every
// other service on the SDK's default resolution.
func localResolver(endpoint string) aws.EndpointResolverWithOptionsFunc {
	return func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
		if service == dynamodb.ServiceID {
			return aws.Endpoint{URL: endpoint, SigningRegion: region, HostnameImmutable: true}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
