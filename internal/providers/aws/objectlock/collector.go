package awsobjectlock

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// ObjectLockCollector collects Object Lock data for every bucket AWS Config
// has recorded in one region.
//
// Implementations must never decide compliance. A bucket whose configuration
// cannot be read is returned with Configured == false; it never aborts the
// collection. Enumeration failures do abort it.
type ObjectLockCollector interface {
	CollectBuckets(ctx context.Context, cfg aws.Config, region string) ([]models.AWSS3BucketLock, error)
}

// DefaultObjectLockCollector is the production ObjectLockCollector. Buckets
// are processed strictly one at a time in enumeration order.
type DefaultObjectLockCollector struct {
	factory  ClientFactory
	logger   *zap.Logger
	pageSize int32
}

// NewDefaultObjectLockCollector returns a collector wired to production AWS
// SDK clients. A nil logger disables logging.
func NewDefaultObjectLockCollector(logger *zap.Logger) *DefaultObjectLockCollector {
	return NewDefaultObjectLockCollectorWithFactory(NewClients, logger)
}

// NewDefaultObjectLockCollectorWithFactory returns a collector that uses the
// supplied factory, allowing tests to inject fake clients.
func NewDefaultObjectLockCollectorWithFactory(f ClientFactory, logger *zap.Logger) *DefaultObjectLockCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultObjectLockCollector{factory: f, logger: logger, pageSize: DefaultPageSize}
}

// CollectBuckets enumerates the buckets recorded in region and fetches each
// bucket's Object Lock configuration.
func (c *DefaultObjectLockCollector) CollectBuckets(ctx context.Context, cfg aws.Config, region string) ([]models.AWSS3BucketLock, error) {
	clients := c.factory(cfg)
	return c.collect(ctx, clients, region)
}

func (c *DefaultObjectLockCollector) collect(ctx context.Context, clients *Clients, region string) ([]models.AWSS3BucketLock, error) {
	var buckets []models.AWSS3BucketLock
	for name, err := range NewBucketEnumerator(clients.Config, c.pageSize).Buckets(ctx) {
		if err != nil {
			return nil, fmt.Errorf("enumerate buckets in %s: %w", region, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect buckets in %s: %w", region, err)
		}

		lock := models.AWSS3BucketLock{Name: name, Region: region}
		state, err := FetchLockState(ctx, clients.S3, name)
		if err != nil {
			lock.FetchFailure = ReasonError
			var fe *FetchError
			if errors.As(err, &fe) {
				lock.FetchFailure = fe.Reason
			}
			c.logger.Warn("object lock configuration unavailable",
				zap.String("bucket", name),
				zap.String("region", region),
				zap.String("reason", lock.FetchFailure),
				zap.Error(err),
			)
		} else {
			lock.Configured = true
			lock.State = state
		}
		buckets = append(buckets, lock)
	}

	c.logger.Debug("collected object lock data",
		zap.String("region", region),
		zap.Int("buckets", len(buckets)),
	)
	return buckets, nil
}
