package awsobjectlock

import (
	"context"
	"fmt"

	configsvc "github.com/aws/aws-sdk-go-v2/service/configservice"
)

// RecorderStatus reports whether AWS Config has at least one configuration
// recorder actively recording in the client's region. Without a recorder the
// advanced query returns no buckets and the rule can only report
// NOT_APPLICABLE, so the doctor command surfaces it.
func RecorderStatus(ctx context.Context, client ConfigQueryAPIClient) (bool, error) {
	out, err := client.DescribeConfigurationRecorderStatus(ctx, &configsvc.DescribeConfigurationRecorderStatusInput{})
	if err != nil {
		return false, fmt.Errorf("describe configuration recorder status: %w", err)
	}
	for _, status := range out.ConfigurationRecordersStatus {
		if status.Recording {
			return true, nil
		}
	}
	return false, nil
}
