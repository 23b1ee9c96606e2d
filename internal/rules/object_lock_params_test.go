package rules

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestParseObjectLockParams_ModeOnly(t *testing.T) {
	p, err := ParseObjectLockParams(map[string]any{"Mode": "GOVERNANCE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Mode != "GOVERNANCE" {
		t.Errorf("mode: got %q; want GOVERNANCE", p.Mode)
	}
	if p.Days != nil || p.Years != nil {
		t.Errorf("want nil Days/Years when absent, got %v/%v", p.Days, p.Years)
	}
	if got := p.RequiredRetentionDays(); got != 0 {
		t.Errorf("required days: got %d; want 0", got)
	}
}

func TestParseObjectLockParams_MissingMode(t *testing.T) {
	for _, raw := range []map[string]any{
		nil,
		{},
		{"Days": "10"},
		{"mode": "GOVERNANCE"}, // keys are case-sensitive
	} {
		_, err := ParseObjectLockParams(raw)
		var perr *ParameterError
		if !errors.As(err, &perr) {
			t.Fatalf("params %v: want *ParameterError, got %v", raw, err)
		}
		if perr.Param != ParamMode {
			t.Errorf("params %v: error param: got %q; want Mode", raw, perr.Param)
		}
		if !strings.Contains(perr.Error(), `"Mode"`) {
			t.Errorf("error message should name Mode; got %q", perr.Error())
		}
	}
}

func TestParseObjectLockParams_CoercesStringsAndNumbers(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want int
	}{
		{"string", "100", 100},
		{"padded string", " 7 ", 7},
		{"int", 3, 3},
		{"int64", int64(12), 12},
		{"json float", float64(30), 30},
		{"json number", json.Number("45"), 45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseObjectLockParams(map[string]any{"Mode": "COMPLIANCE", "Days": tc.raw, "Years": tc.raw})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Days == nil || *p.Days != tc.want {
				t.Errorf("Days: got %v; want %d", p.Days, tc.want)
			}
			if p.Years == nil || *p.Years != tc.want {
				t.Errorf("Years: got %v; want %d", p.Years, tc.want)
			}
		})
	}
}

func TestParseObjectLockParams_RejectsNonInteger(t *testing.T) {
	for _, name := range []string{"Days", "Years"} {
		for _, raw := range []any{"abc", "", "1.5", 2.5, true, nil, []string{"1"}} {
			_, err := ParseObjectLockParams(map[string]any{"Mode": "GOVERNANCE", name: raw})
			var perr *ParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("%s=%v: want *ParameterError, got %v", name, raw, err)
			}
			if perr.Param != name {
				t.Errorf("%s=%v: error param: got %q", name, raw, perr.Param)
			}
			if !strings.Contains(perr.Error(), "must be a integer") {
				t.Errorf("%s=%v: unexpected message %q", name, raw, perr.Error())
			}
		}
	}
}

func TestParseObjectLockParams_RejectsNonPositive(t *testing.T) {
	for _, name := range []string{"Days", "Years"} {
		for _, raw := range []any{"0", 0, "-1", -20, float64(0)} {
			_, err := ParseObjectLockParams(map[string]any{"Mode": "GOVERNANCE", name: raw})
			var perr *ParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("%s=%v: want *ParameterError, got %v", name, raw, err)
			}
			if !strings.Contains(perr.Error(), "must be greater than 0") {
				t.Errorf("%s=%v: unexpected message %q", name, raw, perr.Error())
			}
		}
	}
}

func TestObjectLockParams_RequiredRetentionDays(t *testing.T) {
	p, err := ParseObjectLockParams(map[string]any{"Mode": "GOVERNANCE", "Days": 100, "Years": 9})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.RequiredRetentionDays(); got != 9*365+100 {
		t.Errorf("required days: got %d; want %d", got, 9*365+100)
	}
}

func TestParseObjectLockParams_RejectsOverflowingRetention(t *testing.T) {
	maxYears := math.MaxInt / 365
	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"years string", map[string]any{"Mode": "GOVERNANCE", "Years": strconv.Itoa(maxYears + 1)}},
		{"years int", map[string]any{"Mode": "GOVERNANCE", "Years": maxYears + 1}},
		{"years plus days", map[string]any{"Mode": "GOVERNANCE", "Years": maxYears, "Days": math.MaxInt}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseObjectLockParams(tc.raw)
			var perr *ParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("want *ParameterError, got %v", err)
			}
			if perr.Param != ParamYears {
				t.Errorf("error param: got %q; want Years", perr.Param)
			}
			if !strings.Contains(perr.Error(), "too large") {
				t.Errorf("unexpected message %q", perr.Error())
			}
		})
	}
}

func TestParseObjectLockParams_AcceptsLargestRetention(t *testing.T) {
	maxYears := math.MaxInt / 365
	p, err := ParseObjectLockParams(map[string]any{"Mode": "GOVERNANCE", "Years": maxYears})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.RequiredRetentionDays(); got != maxYears*365 {
		t.Errorf("required days: got %d; want %d", got, maxYears*365)
	}
}

func TestParseObjectLockParams_RejectsOutOfRangeFloat(t *testing.T) {
	for _, raw := range []any{1e30, math.Inf(1), math.NaN()} {
		_, err := ParseObjectLockParams(map[string]any{"Mode": "GOVERNANCE", "Days": raw})
		var perr *ParameterError
		if !errors.As(err, &perr) {
			t.Fatalf("Days=%v: want *ParameterError, got %v", raw, err)
		}
	}
}

func TestObjectLockParams_RequiredRetentionDaysSaturates(t *testing.T) {
	years := math.MaxInt/365 + 1
	p := ObjectLockParams{Mode: "GOVERNANCE", Years: &years}
	if got := p.RequiredRetentionDays(); got != math.MaxInt {
		t.Errorf("required days: got %d; want math.MaxInt", got)
	}
}
