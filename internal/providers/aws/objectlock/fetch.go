package awsobjectlock

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// Fetch failure reasons. They only label a failure for logs and reports;
// every failure leaves the bucket unconfigured.
const (
	ReasonNotConfigured = "not_configured"
	ReasonNoSuchBucket  = "no_such_bucket"
	ReasonAccessDenied  = "access_denied"
	ReasonThrottled     = "throttled"
	ReasonCanceled      = "canceled"
	ReasonError         = "error"
)

// ErrNoLockConfiguration is returned when GetObjectLockConfiguration succeeds
// without an ObjectLockConfiguration in the response.
var ErrNoLockConfiguration = errors.New("response has no ObjectLockConfiguration")

// FetchError describes why a bucket's Object Lock configuration could not
// be read.
type FetchError struct {
	Bucket string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("get object lock configuration for bucket %q (%s): %v", e.Bucket, e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchLockState reads bucket's Object Lock configuration and converts its
// default retention into a BucketLockState. Any API error, or a response
// without an ObjectLockConfiguration, is returned as a *FetchError. There is
// no retry beyond the SDK retryer.
func FetchLockState(ctx context.Context, client S3LockAPIClient, bucket string) (models.BucketLockState, error) {
	out, err := client.GetObjectLockConfiguration(ctx, &s3svc.GetObjectLockConfigurationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return models.BucketLockState{}, &FetchError{Bucket: bucket, Reason: classifyFetchError(err), Err: err}
	}
	if out == nil || out.ObjectLockConfiguration == nil {
		return models.BucketLockState{}, &FetchError{Bucket: bucket, Reason: ReasonNotConfigured, Err: ErrNoLockConfiguration}
	}
	return lockStateFrom(out.ObjectLockConfiguration), nil
}

// lockStateFrom extracts mode, days and years from the default retention
// rule. A missing rule or retention block yields the zero state; non-positive
// periods are reported as 0.
func lockStateFrom(cfg *s3types.ObjectLockConfiguration) models.BucketLockState {
	var state models.BucketLockState
	if cfg.Rule == nil || cfg.Rule.DefaultRetention == nil {
		return state
	}
	dr := cfg.Rule.DefaultRetention
	state.Mode = string(dr.Mode)
	if d := aws.ToInt32(dr.Days); d > 0 {
		state.Days = int(d)
	}
	if y := aws.ToInt32(dr.Years); y > 0 {
		state.Years = int(y)
	}
	return state
}

// classifyFetchError maps an S3 error to a fetch failure reason.
func classifyFetchError(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return ReasonError
	}
	switch apiErr.ErrorCode() {
	case "ObjectLockConfigurationNotFoundError":
		return ReasonNotConfigured
	case "NoSuchBucket":
		return ReasonNoSuchBucket
	case "AccessDenied", "AllAccessDisabled":
		return ReasonAccessDenied
	case "SlowDown", "Throttling", "ThrottlingException", "RequestLimitExceeded":
		return ReasonThrottled
	default:
		return ReasonError
	}
}
