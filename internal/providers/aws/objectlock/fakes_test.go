package awsobjectlock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	configsvc "github.com/aws/aws-sdk-go-v2/service/configservice"
	configtypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeConfig serves canned SelectResourceConfig pages keyed by NextToken
// ("" for the first page) and records every request.
type fakeConfig struct {
	pages     map[string]*configsvc.SelectResourceConfigOutput
	err       error
	requests  []*configsvc.SelectResourceConfigInput
	recording []bool
	statusErr error
}

func (f *fakeConfig) SelectResourceConfig(_ context.Context, in *configsvc.SelectResourceConfigInput, _ ...func(*configsvc.Options)) (*configsvc.SelectResourceConfigOutput, error) {
	f.requests = append(f.requests, in)
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[aws.ToString(in.NextToken)]
	if !ok {
		return nil, fmt.Errorf("unexpected token %q", aws.ToString(in.NextToken))
	}
	return page, nil
}

func (f *fakeConfig) DescribeConfigurationRecorderStatus(context.Context, *configsvc.DescribeConfigurationRecorderStatusInput, ...func(*configsvc.Options)) (*configsvc.DescribeConfigurationRecorderStatusOutput, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	out := &configsvc.DescribeConfigurationRecorderStatusOutput{}
	for _, r := range f.recording {
		out.ConfigurationRecordersStatus = append(out.ConfigurationRecordersStatus, configtypes.ConfigurationRecorderStatus{Recording: r})
	}
	return out, nil
}

// fakeS3 returns canned Object Lock responses or errors per bucket.
type fakeS3 struct {
	outputs map[string]*s3svc.GetObjectLockConfigurationOutput
	errs    map[string]error
	calls   []string
}

func (f *fakeS3) GetObjectLockConfiguration(_ context.Context, in *s3svc.GetObjectLockConfigurationInput, _ ...func(*s3svc.Options)) (*s3svc.GetObjectLockConfigurationOutput, error) {
	name := aws.ToString(in.Bucket)
	f.calls = append(f.calls, name)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if out, ok := f.outputs[name]; ok {
		return out, nil
	}
	return &s3svc.GetObjectLockConfigurationOutput{}, nil
}

func resultsFor(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, fmt.Sprintf(`{"resourceName":%q,"resourceType":"AWS::S3::Bucket"}`, n))
	}
	return out
}

func singlePage(names ...string) *fakeConfig {
	return &fakeConfig{pages: map[string]*configsvc.SelectResourceConfigOutput{
		"": {Results: resultsFor(names...)},
	}}
}
