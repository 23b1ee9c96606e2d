package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	configsvc "github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/config"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/common"
	awsobjectlock "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/objectlock"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/reporter"
)

func main() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	provider := common.NewDefaultAWSClientProvider()
	h := &handler{
		loadConfig: func(ctx context.Context) (aws.Config, error) {
			return provider.LoadConfig(ctx, "")
		},
		resolveAccountID: func(ctx context.Context, awsCfg aws.Config) (string, error) {
			return common.ResolveAccountID(ctx, sts.NewFromConfig(awsCfg))
		},
		collector: awsobjectlock.NewDefaultObjectLockCollector(logger),
		newReporter: func(awsCfg aws.Config) evaluationReporter {
			return reporter.NewConfigReporter(configsvc.NewFromConfig(awsCfg), logger)
		},
		reportEvaluations: cfg.ReportEvaluations,
		logger:            logger,
	}
	lambda.Start(h.Handle)
}
