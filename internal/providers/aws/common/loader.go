package common

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const (
	// DefaultRegion is used when neither the profile nor the environment
	// configures a region.
	DefaultRegion = "us-east-1"

	// DefaultRetryMaxAttempts bounds the SDK standard retryer. Fetch failures
	// are not retried by the rule itself.
	DefaultRetryMaxAttempts = 3
)

// DefaultAWSClientProvider is the production implementation of AWSClientProvider.
// It reads credentials from the standard AWS shared config and credentials files
// (~/.aws/config and ~/.aws/credentials) using the AWS SDK v2.
type DefaultAWSClientProvider struct {
	factory     ClientFactory
	region      string
	maxAttempts int
	homeDir     func() (string, error)
}

// ProviderOption customises a DefaultAWSClientProvider.
type ProviderOption func(*DefaultAWSClientProvider)

// WithClientFactory replaces the production ClientFactory. Pass a fake
// factory in tests.
func WithClientFactory(f ClientFactory) ProviderOption {
	return func(p *DefaultAWSClientProvider) { p.factory = f }
}

// WithDefaultRegion sets the region used when a profile has none configured.
func WithDefaultRegion(region string) ProviderOption {
	return func(p *DefaultAWSClientProvider) { p.region = region }
}

// WithRetryMaxAttempts sets the maximum attempts of the SDK standard retryer.
func WithRetryMaxAttempts(n int) ProviderOption {
	return func(p *DefaultAWSClientProvider) { p.maxAttempts = n }
}

// NewDefaultAWSClientProvider returns a provider backed by the real AWS SDK.
func NewDefaultAWSClientProvider(opts ...ProviderOption) *DefaultAWSClientProvider {
	p := &DefaultAWSClientProvider{
		factory:     NewClientSet,
		region:      DefaultRegion,
		maxAttempts: DefaultRetryMaxAttempts,
		homeDir:     os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadConfig loads the SDK configuration for profile (empty for the default
// credential chain) with the standard retryer. It is the only place SDK
// configuration is built, for both the CLI and the Lambda entrypoint.
func (p *DefaultAWSClientProvider) LoadConfig(ctx context.Context, profile string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(p.maxAttempts),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS profile %q: %w", profileDisplayName(profile), err)
	}
	if cfg.Region == "" {
		cfg.Region = p.region
	}
	return cfg, nil
}

// LoadProfile loads the named profile and returns a ProfileConfig including
// the resolved account ID. Pass an empty string to load the default profile.
func (p *DefaultAWSClientProvider) LoadProfile(ctx context.Context, profile string) (*ProfileConfig, error) {
	cfg, err := p.LoadConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	return p.profileFromConfig(ctx, profileDisplayName(profile), cfg)
}

func (p *DefaultAWSClientProvider) profileFromConfig(ctx context.Context, name string, cfg aws.Config) (*ProfileConfig, error) {
	clients := p.factory(cfg)

	accountID, err := ResolveAccountID(ctx, clients.STS)
	if err != nil {
		return nil, fmt.Errorf("resolve account ID for profile %q: %w", name, err)
	}

	return &ProfileConfig{
		ProfileName: name,
		AccountID:   accountID,
		Region:      cfg.Region,
		Config:      cfg,
		Clients:     clients,
	}, nil
}

// LoadAllProfiles discovers every profile defined in ~/.aws/credentials and
// ~/.aws/config and loads each one. Profiles that cannot be loaded are
// skipped so one bad profile does not block the rest.
func (p *DefaultAWSClientProvider) LoadAllProfiles(ctx context.Context) ([]*ProfileConfig, error) {
	names, err := p.discoverProfileNames()
	if err != nil {
		return nil, fmt.Errorf("discover AWS profiles: %w", err)
	}

	var profiles []*ProfileConfig
	for _, name := range names {
		arg := name
		if name == "default" {
			arg = ""
		}
		pc, loadErr := p.LoadProfile(ctx, arg)
		if loadErr != nil {
			continue
		}
		profiles = append(profiles, pc)
	}
	return profiles, nil
}

// GetActiveRegions returns the regions the account has opted into, using
// EC2 DescribeRegions from the profile's home region.
func (p *DefaultAWSClientProvider) GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error) {
	out, err := cfg.Clients.EC2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("describe regions for profile %q: %w", cfg.ProfileName, err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if r.RegionName != nil {
			regions = append(regions, aws.ToString(r.RegionName))
		}
	}
	return regions, nil
}

// ConfigForRegion returns a copy of cfg.Config with Region set to region.
func (p *DefaultAWSClientProvider) ConfigForRegion(cfg *ProfileConfig, region string) aws.Config {
	regional := cfg.Config
	regional.Region = region
	return regional
}

// ResolveAccountID calls STS GetCallerIdentity and returns the numeric
// account ID of the loaded credentials.
func ResolveAccountID(ctx context.Context, stsClient STSClient) (string, error) {
	out, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return "", fmt.Errorf("STS GetCallerIdentity returned nil account")
	}
	return aws.ToString(out.Account), nil
}

// profileDisplayName shows the default profile (empty string) as "default".
func profileDisplayName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

// discoverProfileNames returns the deduplicated profile names found in
// ~/.aws/credentials followed by ~/.aws/config.
func (p *DefaultAWSClientProvider) discoverProfileNames() ([]string, error) {
	home, err := p.homeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	credProfiles, err := parseProfilesFromFile(filepath.Join(home, ".aws", "credentials"), false)
	if err != nil {
		return nil, err
	}
	cfgProfiles, err := parseProfilesFromFile(filepath.Join(home, ".aws", "config"), true)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var all []string
	for _, name := range append(credProfiles, cfgProfiles...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		all = append(all, name)
	}
	return all, nil
}

// parseProfilesFromFile returns the profile name from each INI section
// header ([name]) in path. With stripProfilePrefix, the "profile " prefix
// used by ~/.aws/config is removed. A missing file yields no profiles.
func parseProfilesFromFile(path string, stripProfilePrefix bool) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var profiles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
			continue
		}

		name := strings.TrimSpace(line[1 : len(line)-1])
		if stripProfilePrefix && name != "default" {
			// [sso-session x] and [services x] are not profiles.
			if !strings.HasPrefix(name, "profile ") {
				continue
			}
			name = strings.TrimSpace(strings.TrimPrefix(name, "profile "))
		}
		profiles = append(profiles, name)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return profiles, nil
}
