package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/common"
	awsobjectlock "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/objectlock"
	lockpack "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/rulepacks/objectlock"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/rules"
)

// ObjectLockEngine evaluates S3_OBJECT_LOCK_ENABLED. Evaluate serves a
// single account/region (the Lambda path); RunAudit fans out over profiles
// and regions for the CLI. Regions are processed one after another.
type ObjectLockEngine struct {
	provider  common.AWSClientProvider
	collector awsobjectlock.ObjectLockCollector
	logger    *zap.Logger
}

// NewObjectLockEngine constructs an ObjectLockEngine. provider may be nil
// when only Evaluate is used. A nil logger disables logging.
func NewObjectLockEngine(
	provider common.AWSClientProvider,
	collector awsobjectlock.ObjectLockCollector,
	logger *zap.Logger,
) *ObjectLockEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectLockEngine{
		provider:  provider,
		collector: collector,
		logger:    logger,
	}
}

// Evaluate validates rawParams, then evaluates every bucket AWS Config has
// recorded in target.Region, in enumeration order. When there is no bucket
// the result is a single NOT_APPLICABLE evaluation without a resource ID.
//
// A *rules.ParameterError is returned before any AWS call is made.
func (e *ObjectLockEngine) Evaluate(
	ctx context.Context,
	cfg aws.Config,
	target Target,
	rawParams map[string]any,
) ([]models.Evaluation, error) {
	params, err := rules.ParseObjectLockParams(rawParams)
	if err != nil {
		return nil, err
	}
	return e.evaluate(ctx, cfg, target, params)
}

func (e *ObjectLockEngine) evaluate(
	ctx context.Context,
	cfg aws.Config,
	target Target,
	params rules.ObjectLockParams,
) ([]models.Evaluation, error) {
	buckets, err := e.collector.CollectBuckets(ctx, cfg, target.Region)
	if err != nil {
		return nil, fmt.Errorf("collect object lock data: %w", err)
	}

	registry := rules.NewDefaultRuleRegistry()
	for _, r := range lockpack.New(params) {
		registry.Register(r)
	}

	rctx := rules.RuleContext{
		AccountID: target.AccountID,
		Profile:   target.Profile,
		Region:    target.Region,
		Buckets:   buckets,
	}
	evals := registry.EvaluateAll(rctx)
	if len(evals) == 0 {
		evals = notApplicable(registry, rctx)
	}

	s := models.ComputeSummary(evals)
	e.logger.Info("evaluated S3 object lock",
		zap.String("account_id", target.AccountID),
		zap.String("region", target.Region),
		zap.Int("buckets", len(buckets)),
		zap.Int("compliant", s.Compliant),
		zap.Int("non_compliant", s.NonCompliant),
		zap.Int("not_applicable", s.NotApplicable),
	)
	return evals, nil
}

// notApplicable collects the account-level verdict of every rule that
// reports one when nothing is in scope.
func notApplicable(registry *rules.DefaultRuleRegistry, rctx rules.RuleContext) []models.Evaluation {
	var evals []models.Evaluation
	for _, r := range registry.All() {
		if na, ok := r.(rules.NotApplicableRule); ok {
			evals = append(evals, na.NotApplicable(rctx))
		}
	}
	return evals
}

// RunAudit implements Engine. Parameters are validated first; then every
// requested profile and region is evaluated. A region whose evaluation fails
// is skipped; an error is returned only when nothing could be evaluated.
func (e *ObjectLockEngine) RunAudit(ctx context.Context, opts AuditOptions) (*models.EvaluationReport, error) {
	if e.provider == nil {
		return nil, errors.New("run audit: no AWS client provider configured")
	}
	params, err := rules.ParseObjectLockParams(opts.Parameters)
	if err != nil {
		return nil, err
	}
	if opts.AllProfiles {
		return e.runAllProfiles(ctx, opts, params)
	}
	return e.runSingleProfile(ctx, opts, params)
}

// runSingleProfile evaluates every region of one AWS profile.
func (e *ObjectLockEngine) runSingleProfile(
	ctx context.Context,
	opts AuditOptions,
	params rules.ObjectLockParams,
) (*models.EvaluationReport, error) {
	profile, err := e.provider.LoadProfile(ctx, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", opts.Profile, err)
	}

	evals, regions, err := e.evaluateProfile(ctx, profile, opts.Regions, params)
	if err != nil {
		return nil, err
	}
	return buildReport(profile.ProfileName, profile.AccountID, regions, evals), nil
}

// runAllProfiles evaluates every configured AWS profile and merges the
// results into a single report. Profile failures are skipped; an error is
// returned only when no profile succeeds.
func (e *ObjectLockEngine) runAllProfiles(
	ctx context.Context,
	opts AuditOptions,
	params rules.ObjectLockParams,
) (*models.EvaluationReport, error) {
	profiles, err := e.provider.LoadAllProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no AWS profiles found")
	}

	var (
		allEvals    []models.Evaluation
		allRegions  []string
		seenRegions = make(map[string]struct{})
		audited     int
	)
	for _, profile := range profiles {
		evals, regions, err := e.evaluateProfile(ctx, profile, opts.Regions, params)
		if err != nil {
			e.logger.Warn("skipping profile", zap.String("profile", profile.ProfileName), zap.Error(err))
			continue
		}
		audited++
		allEvals = append(allEvals, evals...)
		for _, r := range regions {
			if _, seen := seenRegions[r]; !seen {
				seenRegions[r] = struct{}{}
				allRegions = append(allRegions, r)
			}
		}
	}

	if audited == 0 {
		return nil, fmt.Errorf("all profiles failed; no data collected")
	}
	return buildReport("multi", "", allRegions, allEvals), nil
}

// evaluateProfile evaluates each region of profile in order and returns the
// merged evaluations together with the regions that succeeded.
func (e *ObjectLockEngine) evaluateProfile(
	ctx context.Context,
	profile *common.ProfileConfig,
	explicit []string,
	params rules.ObjectLockParams,
) ([]models.Evaluation, []string, error) {
	regions, err := e.resolveRegions(ctx, profile, explicit)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve regions for profile %q: %w", profile.ProfileName, err)
	}

	var (
		evals     []models.Evaluation
		succeeded []string
		lastErr   error
	)
	for _, region := range regions {
		target := Target{AccountID: profile.AccountID, Region: region, Profile: profile.ProfileName}
		regional, err := e.evaluate(ctx, e.provider.ConfigForRegion(profile, region), target, params)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			e.logger.Warn("skipping region",
				zap.String("profile", profile.ProfileName),
				zap.String("region", region),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		evals = append(evals, regional...)
		succeeded = append(succeeded, region)
	}

	if len(succeeded) == 0 && lastErr != nil {
		return nil, nil, fmt.Errorf("evaluate profile %q: %w", profile.ProfileName, lastErr)
	}
	return evals, succeeded, nil
}

// resolveRegions returns explicit regions or discovers active regions.
func (e *ObjectLockEngine) resolveRegions(
	ctx context.Context,
	profile *common.ProfileConfig,
	explicit []string,
) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	return e.provider.GetActiveRegions(ctx, profile)
}

// buildReport assembles the final EvaluationReport.
func buildReport(profile, accountID string, regions []string, evals []models.Evaluation) *models.EvaluationReport {
	return &models.EvaluationReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		RuleID:      rules.S3ObjectLockEnabledRule{}.ID(),
		Profile:     profile,
		AccountID:   accountID,
		Regions:     regions,
		Summary:     models.ComputeSummary(evals),
		Evaluations: evals,
	}
}
