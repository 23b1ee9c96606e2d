// Package configevent decodes the AWS Config rule invocation delivered to
// the Lambda entrypoint.
package configevent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

const (
	// MessageTypeScheduled is the invoking event type of periodic rules.
	MessageTypeScheduled = "ScheduledNotification"

	// TestModeToken is the result token AWS Config test harnesses send.
	// Evaluations are validated by PutEvaluations but not recorded.
	TestModeToken = "TESTMODE"
)

// ErrUnsupportedMessageType is returned for any trigger other than a
// scheduled notification.
var ErrUnsupportedMessageType = errors.New("unsupported message type")

// InvokingEvent is the subset of the invokingEvent document used here.
type InvokingEvent struct {
	MessageType              string `json:"messageType"`
	NotificationCreationTime string `json:"notificationCreationTime"`
	AWSAccountID             string `json:"awsAccountId"`
}

// Invocation is a decoded, validated rule invocation.
type Invocation struct {
	AccountID    string
	RuleName     string
	ResultToken  string
	Parameters   map[string]any
	OrderingTime time.Time
}

// TestMode reports whether evaluations must be sent with TestMode set.
func (i Invocation) TestMode() bool {
	return i.ResultToken == TestModeToken
}

// Parse decodes ev. now supplies the ordering timestamp when the event does
// not carry a usable notificationCreationTime.
func Parse(ev events.ConfigEvent, now func() time.Time) (Invocation, error) {
	if now == nil {
		now = time.Now
	}

	params, err := ParseRuleParameters(ev.RuleParameters)
	if err != nil {
		return Invocation{}, err
	}

	var inv InvokingEvent
	if strings.TrimSpace(ev.InvokingEvent) != "" {
		if err := json.Unmarshal([]byte(ev.InvokingEvent), &inv); err != nil {
			return Invocation{}, fmt.Errorf("decode invoking event: %w", err)
		}
	}
	if inv.MessageType != MessageTypeScheduled {
		return Invocation{}, fmt.Errorf("%w: %q", ErrUnsupportedMessageType, inv.MessageType)
	}

	accountID := ev.AccountID
	if accountID == "" {
		accountID = inv.AWSAccountID
	}

	return Invocation{
		AccountID:    accountID,
		RuleName:     ev.ConfigRuleName,
		ResultToken:  ev.ResultToken,
		Parameters:   params,
		OrderingTime: orderingTime(inv.NotificationCreationTime, now),
	}, nil
}

// ParseRuleParameters decodes the ruleParameters JSON object. Numbers are
// kept as json.Number so integer strings and numbers validate alike.
func ParseRuleParameters(raw string) (map[string]any, error) {
	params := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return params, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("decode rule parameters: %w", err)
	}
	if params == nil {
		params = map[string]any{}
	}
	return params, nil
}

func orderingTime(raw string, now func() time.Time) time.Time {
	if raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t.UTC()
		}
	}
	return now().UTC()
}
