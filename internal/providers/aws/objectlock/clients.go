package awsobjectlock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	configsvc "github.com/aws/aws-sdk-go-v2/service/configservice"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3LockAPIClient is the narrow S3 interface used to read a bucket's
// Object Lock configuration.
type S3LockAPIClient interface {
	GetObjectLockConfiguration(ctx context.Context, params *s3svc.GetObjectLockConfigurationInput, optFns ...func(*s3svc.Options)) (*s3svc.GetObjectLockConfigurationOutput, error)
}

// ConfigQueryAPIClient is the narrow AWS Config interface used to enumerate
// recorded buckets and to check that the configuration recorder is running.
type ConfigQueryAPIClient interface {
	SelectResourceConfig(ctx context.Context, params *configsvc.SelectResourceConfigInput, optFns ...func(*configsvc.Options)) (*configsvc.SelectResourceConfigOutput, error)
	DescribeConfigurationRecorderStatus(ctx context.Context, params *configsvc.DescribeConfigurationRecorderStatusInput, optFns ...func(*configsvc.Options)) (*configsvc.DescribeConfigurationRecorderStatusOutput, error)
}

// Clients bundles the AWS service clients used by the collector.
type Clients struct {
	S3     S3LockAPIClient
	Config ConfigQueryAPIClient
}

// ClientFactory creates Clients from an AWS config.
// Injection point: tests replace this with a function returning fake clients.
type ClientFactory func(cfg aws.Config) *Clients

// NewClients creates production AWS SDK clients from the given config.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		S3:     s3svc.NewFromConfig(cfg),
		Config: configsvc.NewFromConfig(cfg),
	}
}
