package awsobjectlock

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	configsvc "github.com/aws/aws-sdk-go-v2/service/configservice"
)

const (
	// BucketQuery selects every S3 bucket recorded by AWS Config.
	BucketQuery = "select * where resourceType = 'AWS::S3::Bucket'"

	// DefaultPageSize is the SelectResourceConfig page size.
	DefaultPageSize int32 = 5
)

// BucketEnumerator lists bucket names through the AWS Config advanced query
// API, following NextToken until the service stops returning a new one.
type BucketEnumerator struct {
	client   ConfigQueryAPIClient
	pageSize int32
}

// NewBucketEnumerator returns an enumerator using pageSize results per
// request. A non-positive pageSize selects DefaultPageSize.
func NewBucketEnumerator(client ConfigQueryAPIClient, pageSize int32) *BucketEnumerator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &BucketEnumerator{client: client, pageSize: pageSize}
}

// Buckets returns a lazy sequence of bucket names in the order AWS Config
// returns them. Pages are only requested as the sequence is consumed, and
// every call starts a fresh query.
//
// A failed request or an undecodable result is yielded once as an error and
// ends the sequence. A NextToken equal to the one just sent also ends it,
// without an error.
func (e *BucketEnumerator) Buckets(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var token *string
		for {
			out, err := e.client.SelectResourceConfig(ctx, &configsvc.SelectResourceConfigInput{
				Expression: aws.String(BucketQuery),
				Limit:      e.pageSize,
				NextToken:  token,
			})
			if err != nil {
				yield("", fmt.Errorf("select S3 buckets from AWS Config: %w", err))
				return
			}

			for _, raw := range out.Results {
				name, err := resourceName(raw)
				if err != nil {
					yield("", err)
					return
				}
				if !yield(name, nil) {
					return
				}
			}

			next := aws.ToString(out.NextToken)
			if next == "" || next == aws.ToString(token) {
				return
			}
			token = aws.String(next)
		}
	}
}

// configResource is the part of a SelectResourceConfig result we read.
type configResource struct {
	ResourceName string `json:"resourceName"`
}

// resourceName decodes one JSON-encoded SelectResourceConfig result.
func resourceName(raw string) (string, error) {
	var r configResource
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("decode AWS Config result: %w", err)
	}
	if r.ResourceName == "" {
		return "", fmt.Errorf("decode AWS Config result: missing resourceName in %q", raw)
	}
	return r.ResourceName, nil
}
