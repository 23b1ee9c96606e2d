package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/configevent"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/engine"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
	awsobjectlock "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/objectlock"
)

// evaluationReporter submits evaluations back to AWS Config.
type evaluationReporter interface {
	Report(ctx context.Context, resultToken string, orderingTime time.Time, evals []models.Evaluation) error
}

// handler serves one AWS Config periodic invocation per call.
type handler struct {
	loadConfig        func(ctx context.Context) (aws.Config, error)
	resolveAccountID  func(ctx context.Context, cfg aws.Config) (string, error)
	collector         awsobjectlock.ObjectLockCollector
	newReporter       func(cfg aws.Config) evaluationReporter
	reportEvaluations bool
	logger            *zap.Logger
	now               func() time.Time
}

// Handle evaluates every bucket recorded in the function's region and, when
// reporting is enabled, submits the evaluations under the event's result
// token. The evaluations are returned for observability.
func (h *handler) Handle(ctx context.Context, ev events.ConfigEvent) ([]models.Evaluation, error) {
	inv, err := configevent.Parse(ev, h.now)
	if err != nil {
		h.logger.Error("rejecting invocation", zap.String("rule", ev.ConfigRuleName), zap.Error(err))
		return nil, err
	}
	log := h.logger.With(zap.String("rule", inv.RuleName), zap.Bool("test_mode", inv.TestMode()))

	cfg, err := h.loadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	accountID := inv.AccountID
	if accountID == "" {
		if accountID, err = h.resolveAccountID(ctx, cfg); err != nil {
			return nil, err
		}
	}

	eng := engine.NewObjectLockEngine(nil, h.collector, log)
	evals, err := eng.Evaluate(ctx, cfg, engine.Target{AccountID: accountID, Region: cfg.Region}, inv.Parameters)
	if err != nil {
		log.Error("evaluation failed", zap.Error(err))
		return nil, err
	}

	if !h.reportEvaluations {
		log.Info("reporting disabled; evaluations not submitted", zap.Int("count", len(evals)))
		return evals, nil
	}
	if err := h.newReporter(cfg).Report(ctx, inv.ResultToken, inv.OrderingTime, evals); err != nil {
		return evals, fmt.Errorf("report evaluations: %w", err)
	}
	return evals, nil
}
