package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/output"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func renderToString(evals []models.Evaluation, opts output.TableOptions) string {
	var buf bytes.Buffer
	output.RenderTable(&buf, evals, opts)
	return buf.String()
}

func oneEvaluation(overrides ...func(*models.Evaluation)) models.Evaluation {
	e := models.Evaluation{
		RuleID:         "S3_OBJECT_LOCK_ENABLED",
		ComplianceType: models.ComplianceNonCompliant,
		ResourceID:     "audit-logs-prod",
		ResourceType:   models.ResourceAWSS3Bucket,
		Annotation:     models.AnnotationLockMismatch,
		AccountID:      "111122223333",
		Region:         "us-east-1",
		Profile:        "prod",
	}
	for _, fn := range overrides {
		fn(&e)
	}
	return e
}

// ── PROFILE column ────────────────────────────────────────────────────────────

func TestRenderTable_ProfileColumn_WhenEnabled(t *testing.T) {
	out := renderToString([]models.Evaluation{oneEvaluation()}, output.TableOptions{
		IncludeProfile: true,
	})
	if !strings.Contains(out, "PROFILE") {
		t.Errorf("expected PROFILE column header in output\ngot:\n%s", out)
	}
	if !strings.Contains(out, "prod") {
		t.Errorf("expected profile value 'prod' in output\ngot:\n%s", out)
	}
}

func TestRenderTable_ProfileColumn_WhenDisabled(t *testing.T) {
	out := renderToString([]models.Evaluation{oneEvaluation()}, output.TableOptions{})
	if strings.Contains(out, "PROFILE") {
		t.Errorf("PROFILE column must not appear when IncludeProfile=false\ngot:\n%s", out)
	}
}

// ── rows ──────────────────────────────────────────────────────────────────────

func TestRenderTable_RowsInInputOrder(t *testing.T) {
	evals := []models.Evaluation{
		oneEvaluation(func(e *models.Evaluation) { e.ResourceID = "zeta" }),
		oneEvaluation(func(e *models.Evaluation) { e.ResourceID = "alpha" }),
	}
	out := renderToString(evals, output.TableOptions{})
	if strings.Index(out, "zeta") > strings.Index(out, "alpha") {
		t.Errorf("rows must keep evaluation order\ngot:\n%s", out)
	}
}

func TestRenderTable_NotApplicableShowsAccount(t *testing.T) {
	e := oneEvaluation(func(e *models.Evaluation) {
		e.ResourceID = ""
		e.ComplianceType = models.ComplianceNotApplicable
		e.Annotation = ""
	})
	out := renderToString([]models.Evaluation{e}, output.TableOptions{})
	if !strings.Contains(out, "(account 111122223333)") {
		t.Errorf("expected account label for resource-less evaluation\ngot:\n%s", out)
	}
	if !strings.Contains(out, "NOT_APPLICABLE") {
		t.Errorf("expected NOT_APPLICABLE\ngot:\n%s", out)
	}
}

func TestRenderTable_AnnotationIsTruncatedWhenTooLong(t *testing.T) {
	long := strings.Repeat("x", 100)
	e := oneEvaluation(func(e *models.Evaluation) { e.Annotation = long })
	out := renderToString([]models.Evaluation{e}, output.TableOptions{})

	if strings.Contains(out, long) {
		t.Errorf("full 100-char annotation must not appear verbatim in output\ngot:\n%s", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("truncated annotation must end with ellipsis\ngot:\n%s", out)
	}
}

func TestRenderTable_AnnotationVerbatim(t *testing.T) {
	out := renderToString([]models.Evaluation{oneEvaluation()}, output.TableOptions{})
	if !strings.Contains(out, "ObjectLockConfiguration doesn't match.") {
		t.Errorf("annotation must appear verbatim\ngot:\n%s", out)
	}
}

// ── empty evaluations ─────────────────────────────────────────────────────────

func TestRenderTable_Empty_PrintsNoEvaluations(t *testing.T) {
	out := renderToString(nil, output.TableOptions{})
	if !strings.Contains(out, "No evaluations.") {
		t.Errorf("expected 'No evaluations.' for empty slice\ngot:\n%s", out)
	}
	if strings.Contains(out, "RESOURCE ID") {
		t.Errorf("column headers must not appear for empty evaluations\ngot:\n%s", out)
	}
}

// ── color mode ────────────────────────────────────────────────────────────────

func TestRenderTable_ColoredFalse_NoAnsiCodes(t *testing.T) {
	out := renderToString([]models.Evaluation{oneEvaluation()}, output.TableOptions{Colored: false})
	if strings.Contains(out, "\033[") {
		t.Errorf("no ANSI codes must appear when Colored=false\ngot (hex): %q", out)
	}
}

func TestRenderTable_ColoredTrue_HasAnsiCodes(t *testing.T) {
	out := renderToString([]models.Evaluation{oneEvaluation()}, output.TableOptions{Colored: true})
	if !strings.Contains(out, "\033[") {
		t.Errorf("ANSI codes expected when Colored=true\ngot:\n%s", out)
	}
}

func TestColorCompliance_Plain(t *testing.T) {
	if got := output.ColorCompliance(models.ComplianceCompliant, false); got != "COMPLIANT" {
		t.Errorf("got %q; want COMPLIANT", got)
	}
}

// ── summary ───────────────────────────────────────────────────────────────────

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	output.RenderSummary(&buf, &models.EvaluationReport{
		RuleID:    "S3_OBJECT_LOCK_ENABLED",
		Profile:   "default",
		AccountID: "111122223333",
		Regions:   []string{"us-east-1", "eu-west-1"},
		Summary:   models.EvaluationSummary{TotalEvaluations: 3, Compliant: 1, NonCompliant: 2},
	}, false)
	out := buf.String()
	for _, want := range []string{"S3_OBJECT_LOCK_ENABLED", "111122223333", "us-east-1, eu-west-1", "NON_COMPLIANT: 2", "COMPLIANT: 1", "NOT_APPLICABLE: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary\ngot:\n%s", want, out)
		}
	}
}

// ── ShortenMessage unit tests ─────────────────────────────────────────────────

func TestShortenMessage_ShortString_Unchanged(t *testing.T) {
	s := "hello"
	if got := output.ShortenMessage(s, 80); got != s {
		t.Errorf("got %q; want %q", got, s)
	}
}

func TestShortenMessage_TooLong_TruncatedWithEllipsis(t *testing.T) {
	got := output.ShortenMessage(strings.Repeat("a", 100), 80)
	if len([]rune(got)) != 80 {
		t.Errorf("truncated string should be 80 runes, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated string must end with '...', got %q", got)
	}
}

func TestShortenMessage_VerySmallMax_DoesNotPanic(t *testing.T) {
	if got := output.ShortenMessage("hello world", 2); got == "" {
		t.Error("ShortenMessage with tiny max must return non-empty string")
	}
}
