package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/engine"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/output"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/policy"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/common"
	awsobjectlock "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/objectlock"
	lockpack "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/rulepacks/objectlock"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/rules"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/version"
)

// errNonCompliant makes the process exit non-zero when enforcement is on.
var errNonCompliant = errors.New("non-compliant buckets found")

// ruleID is the only rule this binary evaluates.
var ruleID = rules.S3ObjectLockEnabledRule{}.ID()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "s3lock",
		Short: "Evaluate S3 Object Lock compliance of the buckets recorded by AWS Config",
	}
	root.PersistentFlags().Bool("verbose", false, "Write debug logs to stderr")
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// newLogger returns a development logger on stderr when verbose, else a no-op.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// evaluateOptions carries the parsed evaluate flags.
type evaluateOptions struct {
	Profile     string
	AllProfiles bool
	Regions     []string

	// Rule parameter overrides; empty means "not set on the command line".
	Mode  string
	Days  string
	Years string

	PolicyPath         string
	ReportFormat       string
	Output             string
	Summary            bool
	FailOnNonCompliant bool
	Colored            bool
}

// parameterOverrides returns the rule parameters given as flags.
func (o evaluateOptions) parameterOverrides() map[string]any {
	params := make(map[string]any)
	if o.Mode != "" {
		params[rules.ParamMode] = o.Mode
	}
	if o.Days != "" {
		params[rules.ParamDays] = o.Days
	}
	if o.Years != "" {
		params[rules.ParamYears] = o.Years
	}
	return params
}

func newEvaluateCmd() *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate S3 Object Lock settings against the required mode and retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)
			defer logger.Sync() //nolint:errcheck

			provider := common.NewDefaultAWSClientProvider()
			collector := awsobjectlock.NewDefaultObjectLockCollector(logger)
			eng := engine.NewObjectLockEngine(provider, collector, logger)

			opts.Colored = !color.NoColor
			return runEvaluate(cmd.Context(), eng, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Profile, "profile", "", "AWS profile name (default: uses environment / default profile)")
	cmd.Flags().BoolVar(&opts.AllProfiles, "all-profiles", false, "Evaluate all configured AWS profiles")
	cmd.Flags().StringSliceVar(&opts.Regions, "region", nil, "AWS region(s) to evaluate (default: all active regions)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "Required Object Lock retention mode: GOVERNANCE or COMPLIANCE")
	cmd.Flags().StringVar(&opts.Days, "days", "", "Minimum default retention in days")
	cmd.Flags().StringVar(&opts.Years, "years", "", "Minimum default retention in years (365 days each)")
	cmd.Flags().StringVar(&opts.PolicyPath, "policy", "", "Policy file (.yaml, .toml or .json) with rule parameters")
	cmd.Flags().StringVar(&opts.ReportFormat, "report", string(engine.ReportFormatTable), "Output format: json or table")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Write full JSON report to this file path (in addition to stdout output)")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "Print only the verdict counts")
	cmd.Flags().BoolVar(&opts.FailOnNonCompliant, "fail-on-noncompliant", false, "Exit non-zero when any bucket is NON_COMPLIANT")

	return cmd
}

// runEvaluate resolves parameters from the policy file and flags, runs the
// engine and renders the report to w.
func runEvaluate(ctx context.Context, eng engine.Engine, w io.Writer, opts evaluateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg *policy.PolicyConfig
	if opts.PolicyPath != "" {
		loaded, err := policy.LoadPolicy(opts.PolicyPath)
		if err != nil {
			return err
		}
		if errs := policy.Validate(loaded, lockpack.IDs()); len(errs) > 0 {
			return fmt.Errorf("invalid policy %s: %w", opts.PolicyPath, errors.Join(errs...))
		}
		cfg = loaded
	}

	if !policy.RuleEnabled(ruleID, cfg) {
		fmt.Fprintf(w, "%s is disabled by policy.\n", ruleID)
		return nil
	}

	report, err := eng.RunAudit(ctx, engine.AuditOptions{
		Profile:     opts.Profile,
		AllProfiles: opts.AllProfiles,
		Regions:     opts.Regions,
		Parameters:  policy.ResolveParameters(ruleID, cfg, opts.parameterOverrides()),
	})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if opts.Output != "" {
		if err := writeReportToFile(opts.Output, report); err != nil {
			return err
		}
	}

	switch {
	case opts.Summary:
		output.RenderSummary(w, report, opts.Colored)
	case opts.ReportFormat == string(engine.ReportFormatJSON):
		if err := printJSON(w, report); err != nil {
			return err
		}
	default:
		output.RenderSummary(w, report, opts.Colored)
		fmt.Fprintln(w)
		output.RenderTable(w, report.Evaluations, output.TableOptions{
			Colored:        opts.Colored,
			IncludeProfile: opts.AllProfiles,
		})
	}

	if (opts.FailOnNonCompliant && policy.HasNonCompliant(report.Evaluations)) ||
		policy.ShouldFail(report.Evaluations, cfg) {
		return errNonCompliant
	}
	return nil
}

// printJSON writes the report as indented JSON to w.
func printJSON(w io.Writer, report *models.EvaluationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeReportToFile serialises report as indented JSON and writes it to path,
// creating or overwriting the file. It does not affect stdout output.
func writeReportToFile(path string, report *models.EvaluationReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}
