package configevent

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func scheduledEvent(params string) events.ConfigEvent {
	return events.ConfigEvent{
		AccountID:      "123456789012",
		ConfigRuleName: "s3-object-lock-enabled",
		InvokingEvent:  `{"messageType":"ScheduledNotification","notificationCreationTime":"2024-02-29T08:30:00.123Z","awsAccountId":"123456789012"}`,
		ResultToken:    "token",
		RuleParameters: params,
	}
}

func TestParse_Scheduled(t *testing.T) {
	inv, err := Parse(scheduledEvent(`{"Mode":"GOVERNANCE","Days":"30","Years":2}`), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "123456789012", inv.AccountID)
	assert.Equal(t, "s3-object-lock-enabled", inv.RuleName)
	assert.Equal(t, "token", inv.ResultToken)
	assert.False(t, inv.TestMode())
	assert.Equal(t, time.Date(2024, 2, 29, 8, 30, 0, 123000000, time.UTC), inv.OrderingTime)

	assert.Equal(t, "GOVERNANCE", inv.Parameters["Mode"])
	assert.Equal(t, "30", inv.Parameters["Days"])
	assert.Equal(t, json.Number("2"), inv.Parameters["Years"])
}

// eventLeftScope only describes change-triggered items; a periodic
// invocation is evaluated as usual.
func TestParse_ScheduledIgnoresEventLeftScope(t *testing.T) {
	ev := scheduledEvent(`{"Mode":"GOVERNANCE"}`)
	ev.EventLeftScope = true

	inv, err := Parse(ev, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "GOVERNANCE", inv.Parameters["Mode"])
	assert.Equal(t, "token", inv.ResultToken)
}

func TestParse_EmptyParameters(t *testing.T) {
	inv, err := Parse(scheduledEvent(""), fixedNow)
	require.NoError(t, err)
	assert.NotNil(t, inv.Parameters)
	assert.Empty(t, inv.Parameters)
}

func TestParse_InvalidParameters(t *testing.T) {
	_, err := Parse(scheduledEvent(`{"Mode":`), fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode rule parameters")
}

func TestParse_UnsupportedMessageType(t *testing.T) {
	for _, body := range []string{
		`{"messageType":"ConfigurationItemChangeNotification"}`,
		`{"messageType":"OversizedConfigurationItemChangeNotification"}`,
		"",
	} {
		ev := scheduledEvent("")
		ev.InvokingEvent = body
		_, err := Parse(ev, fixedNow)
		assert.True(t, errors.Is(err, ErrUnsupportedMessageType), "body %q: got %v", body, err)
	}
}

func TestParse_OrderingTimeFallsBackToNow(t *testing.T) {
	ev := scheduledEvent("")
	ev.InvokingEvent = `{"messageType":"ScheduledNotification","notificationCreationTime":"yesterday"}`
	inv, err := Parse(ev, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow(), inv.OrderingTime)
}

func TestParse_AccountFromInvokingEvent(t *testing.T) {
	ev := scheduledEvent("")
	ev.AccountID = ""
	inv, err := Parse(ev, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "123456789012", inv.AccountID)
}

func TestInvocation_TestMode(t *testing.T) {
	ev := scheduledEvent("")
	ev.ResultToken = TestModeToken
	inv, err := Parse(ev, fixedNow)
	require.NoError(t, err)
	assert.True(t, inv.TestMode())
}
