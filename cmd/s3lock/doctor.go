package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	configsvc "github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/policy"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/common"
	awsobjectlock "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/providers/aws/objectlock"
	lockpack "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/rulepacks/objectlock"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/rules"
)

// defaultPolicyPath is checked by doctor when --policy is not given.
const defaultPolicyPath = "./s3lock.yaml"

// RecorderCheck is the AWS Config recorder state of one region.
type RecorderCheck struct {
	Region    string `json:"region"`
	Recording bool   `json:"recording"`
	Error     string `json:"error,omitempty"`
}

// DoctorResult is the structured output of s3lock doctor. It can be serialised to
// JSON via --format=json or rendered as a human-readable table (default).
type DoctorResult struct {
	AWS struct {
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		RegionsOK   bool   `json:"regions_ok"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	// Recorders lists each checked region; the rule only sees buckets in
	// regions where AWS Config is recording.
	Recorders []RecorderCheck `json:"recorders"`

	Policy struct {
		Path    string   `json:"path"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	OverallHealthy bool `json:"overall_healthy"`
}

// recording reports whether any checked region has an active recorder.
func (r DoctorResult) recording() bool {
	for _, rc := range r.Recorders {
		if rc.Recording {
			return true
		}
	}
	return false
}

// configClientFunc builds the AWS Config client for one region.
type configClientFunc func(cfg aws.Config) awsobjectlock.ConfigQueryAPIClient

func newConfigClient(cfg aws.Config) awsobjectlock.ConfigQueryAPIClient {
	return configsvc.NewFromConfig(cfg)
}

type doctorOptions struct {
	Format     string
	Profile    string
	Regions    []string
	PolicyPath string
}

func newDoctorCmd() *cobra.Command {
	var opts doctorOptions

	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runDoctor(
				cmd.Context(),
				common.NewDefaultAWSClientProvider(),
				newConfigClient,
				cmd.OutOrStdout(),
				opts,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main's stderr path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", "table", `Output format: "table" or "json"`)
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "AWS profile to use (default: credential chain)")
	cmd.Flags().StringSliceVar(&opts.Regions, "region", nil, "Region(s) whose Config recorder to check (default: all active regions)")
	cmd.Flags().StringVar(&opts.PolicyPath, "policy", defaultPolicyPath, "Policy file to validate")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures (e.g. JSON encode error).
// Callers must inspect result.OverallHealthy to determine whether the
// environment is healthy.
func runDoctor(ctx context.Context, awsProvider common.AWSClientProvider, configClient configClientFunc, w io.Writer, opts doctorOptions) (DoctorResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := collectDoctorResult(ctx, awsProvider, configClient, opts)

	switch opts.Format {
	case "json":
		if err := json.NewEncoder(w).Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}

	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// It performs no rendering; callers decide how to present the result.
func collectDoctorResult(ctx context.Context, awsProvider common.AWSClientProvider, configClient configClientFunc, opts doctorOptions) DoctorResult {
	var result DoctorResult

	// AWS: credentials → STS account ID → region discovery → Config recorders.
	result.AWS.Profile = opts.Profile
	profileCfg, err := awsProvider.LoadProfile(ctx, opts.Profile)
	if err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = profileCfg.AccountID

		regions := opts.Regions
		if len(regions) == 0 {
			regions, err = awsProvider.GetActiveRegions(ctx, profileCfg)
		}
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.RegionsOK = true
			for _, region := range regions {
				check := RecorderCheck{Region: region}
				client := configClient(awsProvider.ConfigForRegion(profileCfg, region))
				check.Recording, err = awsobjectlock.RecorderStatus(ctx, client)
				if err != nil {
					check.Error = err.Error()
				}
				result.Recorders = append(result.Recorders, check)
			}
		}
	}

	// Policy: stat → load → validate → rule parameters (file is optional).
	result.Policy.Path = opts.PolicyPath
	_, statErr := os.Stat(opts.PolicyPath)
	if statErr == nil {
		result.Policy.Present = true
		result.Policy.Errors = checkPolicy(opts.PolicyPath)
		result.Policy.Valid = len(result.Policy.Errors) == 0
	} else if !os.IsNotExist(statErr) {
		// Stat error other than "not found": treat as present but unreadable.
		result.Policy.Present = true
		result.Policy.Errors = []string{statErr.Error()}
	}

	result.OverallHealthy = result.AWS.Credentials &&
		result.AWS.RegionsOK &&
		result.recording() &&
		(!result.Policy.Present || result.Policy.Valid)

	return result
}

// checkPolicy loads and validates the policy at path, including the rule
// parameters it would pass to the engine.
func checkPolicy(path string) []string {
	cfg, err := policy.LoadPolicy(path)
	if err != nil {
		return []string{err.Error()}
	}

	var msgs []string
	for _, e := range policy.Validate(cfg, doctorAllRuleIDs()) {
		msgs = append(msgs, e.Error())
	}
	if len(msgs) == 0 && policy.RuleEnabled(ruleID, cfg) {
		if _, err := rules.ParseObjectLockParams(policy.ResolveParameters(ruleID, cfg, nil)); err != nil {
			msgs = append(msgs, fmt.Sprintf("rules.%s.parameters: %v", ruleID, err))
		}
	}
	return msgs
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	if result.AWS.Profile != "" {
		fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
	} else {
		fmt.Fprintln(w, "\nAWS:")
	}
	if !result.AWS.Credentials {
		doctorPrint(w, "Credentials", "FAIL", result.AWS.Error)
		doctorPrint(w, "STS Identity", "FAIL", "skipped")
		doctorPrint(w, "Regions API", "FAIL", "skipped")
	} else {
		doctorPrint(w, "Credentials", "OK", "")
		doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		if result.AWS.RegionsOK {
			doctorPrint(w, "Regions API", "OK", "")
		} else {
			doctorPrint(w, "Regions API", "FAIL", result.AWS.Error)
		}
	}

	fmt.Fprintln(w, "\nAWS Config recorders:")
	if len(result.Recorders) == 0 {
		doctorPrint(w, "Recorder", "FAIL", "no region checked")
	}
	for _, rc := range result.Recorders {
		switch {
		case rc.Error != "":
			doctorPrint(w, rc.Region, "FAIL", rc.Error)
		case rc.Recording:
			doctorPrint(w, rc.Region, "RECORDING", "")
		default:
			doctorPrint(w, rc.Region, "NOT RECORDING", "")
		}
	}

	fmt.Fprintln(w, "\nPolicy:")
	label := result.Policy.Path + " present"
	if !result.Policy.Present {
		doctorPrint(w, label, "Not found (optional)", "")
	} else {
		doctorPrint(w, label, "YES", "")
		if result.Policy.Valid {
			doctorPrint(w, "Policy valid", "OK", "")
		} else {
			for _, e := range result.Policy.Errors {
				doctorPrint(w, "Policy valid", "FAIL", e)
			}
		}
	}
}

// doctorAllRuleIDs returns every rule ID a policy may configure.
func doctorAllRuleIDs() []string {
	return lockpack.IDs()
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
