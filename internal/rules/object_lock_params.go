package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// Parameter names accepted by S3_OBJECT_LOCK_ENABLED.
const (
	ParamMode  = "Mode"
	ParamDays  = "Days"
	ParamYears = "Years"
)

// ParameterError reports a missing or malformed rule parameter. It aborts an
// evaluation run before any bucket is processed.
type ParameterError struct {
	Param   string
	Message string
}

func (e *ParameterError) Error() string {
	return e.Message
}

// ObjectLockParams is the validated parameter set for S3_OBJECT_LOCK_ENABLED.
// Days and Years are nil when the parameter was not supplied; when set they
// are always >= 1.
type ObjectLockParams struct {
	Mode  string
	Days  *int
	Years *int
}

// RequiredRetentionDays returns Years*365 + Days, treating absent values as 0.
// A total beyond math.MaxInt saturates at math.MaxInt.
func (p ObjectLockParams) RequiredRetentionDays() int {
	var days, years int
	if p.Days != nil {
		days = *p.Days
	}
	if p.Years != nil {
		years = *p.Years
	}
	if !retentionFits(days, years) {
		return math.MaxInt
	}
	return years*models.DaysPerYear + days
}

// retentionFits reports whether years*365 + days is representable as an int.
// Both values must be non-negative.
func retentionFits(days, years int) bool {
	return years <= (math.MaxInt-days)/models.DaysPerYear
}

// ParseObjectLockParams validates the raw rule parameters delivered with the
// trigger and coerces Days and Years to integers.
//
// Mode must be present; its value is not checked against the retention mode
// enumeration. Days and Years are optional, but when present they must be
// integers (or strings holding one) of at least 1, and Years*365 + Days must
// fit in an int.
func ParseObjectLockParams(raw map[string]any) (ObjectLockParams, error) {
	modeRaw, ok := raw[ParamMode]
	if !ok {
		return ObjectLockParams{}, &ParameterError{
			Param:   ParamMode,
			Message: `The Config Rule must have the parameter "Mode" with values either "GOVERNANCE" or "COMPLIANCE"`,
		}
	}

	params := ObjectLockParams{Mode: fmt.Sprint(modeRaw)}
	if modeRaw == nil {
		params.Mode = ""
	}

	for _, name := range []string{ParamDays, ParamYears} {
		v, present := raw[name]
		if !present {
			continue
		}
		n, err := positiveInt(name, v)
		if err != nil {
			return ObjectLockParams{}, err
		}
		switch name {
		case ParamDays:
			params.Days = &n
		case ParamYears:
			params.Years = &n
		}
	}

	if params.Years != nil {
		days := 0
		if params.Days != nil {
			days = *params.Days
		}
		if !retentionFits(days, *params.Years) {
			return ObjectLockParams{}, &ParameterError{
				Param:   ParamYears,
				Message: fmt.Sprintf("The parameter %q is too large", ParamYears),
			}
		}
	}
	return params, nil
}

// positiveInt coerces v to an int and checks that it is at least 1.
func positiveInt(name string, v any) (int, error) {
	n, ok := toInt(v)
	if !ok {
		return 0, &ParameterError{
			Param:   name,
			Message: fmt.Sprintf("The parameter %q must be a integer", name),
		}
	}
	if n < 1 {
		return 0, &ParameterError{
			Param:   name,
			Message: fmt.Sprintf("The parameter %q must be greater than 0", name),
		}
	}
	return n, nil
}

// toInt accepts Go integers, integral floats (JSON numbers), json.Number and
// decimal strings. Fractional numbers and booleans are rejected.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		if t != math.Trunc(t) || t >= float64(math.MaxInt) || t < float64(math.MinInt) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		n, err := strconv.Atoi(t.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}
