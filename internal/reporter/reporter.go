// Package reporter submits rule evaluations back to AWS Config.
package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	configsvc "github.com/aws/aws-sdk-go-v2/service/configservice"
	configtypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/configevent"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

const (
	// MaxBatchSize is the PutEvaluations limit on evaluations per call.
	MaxBatchSize = 100

	// MaxAnnotationLength is the longest annotation AWS Config accepts.
	MaxAnnotationLength = 256
)

// EvaluationsAPIClient is the narrow AWS Config interface used to report.
type EvaluationsAPIClient interface {
	PutEvaluations(ctx context.Context, params *configsvc.PutEvaluationsInput, optFns ...func(*configsvc.Options)) (*configsvc.PutEvaluationsOutput, error)
}

// FailedEvaluationsError is returned when AWS Config rejects part of a batch.
type FailedEvaluationsError struct {
	Count int
}

func (e *FailedEvaluationsError) Error() string {
	return fmt.Sprintf("AWS Config rejected %d evaluation(s)", e.Count)
}

// ConfigReporter sends evaluations with PutEvaluations.
type ConfigReporter struct {
	client EvaluationsAPIClient
	logger *zap.Logger
}

// NewConfigReporter returns a reporter using client. A nil logger disables
// logging.
func NewConfigReporter(client EvaluationsAPIClient, logger *zap.Logger) *ConfigReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigReporter{client: client, logger: logger}
}

// Report submits evals under resultToken, stamping each with orderingTime.
// Evaluations are sent in input order, in batches of at most MaxBatchSize.
// The TESTMODE token sets TestMode so AWS Config validates without
// recording. Rejected evaluations are reported as *FailedEvaluationsError
// after all batches have been attempted.
func (r *ConfigReporter) Report(ctx context.Context, resultToken string, orderingTime time.Time, evals []models.Evaluation) error {
	converted := make([]configtypes.Evaluation, 0, len(evals))
	for _, e := range evals {
		converted = append(converted, ToConfigEvaluation(e, orderingTime))
	}

	testMode := resultToken == configevent.TestModeToken
	failed := 0
	for start := 0; start < len(converted); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(converted))
		out, err := r.client.PutEvaluations(ctx, &configsvc.PutEvaluationsInput{
			ResultToken: aws.String(resultToken),
			Evaluations: converted[start:end],
			TestMode:    testMode,
		})
		if err != nil {
			return fmt.Errorf("put evaluations %d-%d: %w", start, end, err)
		}
		failed += len(out.FailedEvaluations)
		for _, fe := range out.FailedEvaluations {
			r.logger.Warn("evaluation rejected",
				zap.String("resource_id", aws.ToString(fe.ComplianceResourceId)),
				zap.String("resource_type", aws.ToString(fe.ComplianceResourceType)),
			)
		}
	}

	r.logger.Info("reported evaluations",
		zap.Int("count", len(converted)),
		zap.Int("failed", failed),
		zap.Bool("test_mode", testMode),
	)
	if failed > 0 {
		return &FailedEvaluationsError{Count: failed}
	}
	return nil
}

// ToConfigEvaluation converts e to the AWS Config wire shape. An evaluation
// without a resource is attributed to its account.
func ToConfigEvaluation(e models.Evaluation, orderingTime time.Time) configtypes.Evaluation {
	resourceType, resourceID := string(e.ResourceType), e.ResourceID
	if !e.HasResource() {
		resourceType, resourceID = string(models.ResourceAWSAccount), e.AccountID
	}

	out := configtypes.Evaluation{
		ComplianceResourceType: aws.String(resourceType),
		ComplianceResourceId:   aws.String(resourceID),
		ComplianceType:         configtypes.ComplianceType(e.ComplianceType),
		OrderingTimestamp:      aws.Time(orderingTime),
	}
	if e.Annotation != "" {
		out.Annotation = aws.String(truncate(e.Annotation, MaxAnnotationLength))
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
