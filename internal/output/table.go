package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// TableOptions controls which columns RenderTable renders and how compliance is coloured.
type TableOptions struct {
	// Colored wraps compliance labels in colour. Default false (CI-safe).
	Colored bool

	// IncludeProfile adds a PROFILE column (useful with --all-profiles).
	IncludeProfile bool
}

// complianceColors maps each verdict to its display colour.
var complianceColors = map[models.ComplianceType]*color.Color{
	models.ComplianceCompliant:     color.New(color.FgGreen, color.Bold),
	models.ComplianceNonCompliant:  color.New(color.FgRed, color.Bold),
	models.ComplianceNotApplicable: color.New(color.FgYellow),
}

// ColorCompliance returns ct coloured when colored is true. Colour is forced
// on, regardless of whether w is a terminal, so callers decide.
func ColorCompliance(ct models.ComplianceType, colored bool) string {
	s := string(ct)
	c, ok := complianceColors[ct]
	if !colored || !ok {
		return s
	}
	forced := *c
	forced.EnableColor()
	return forced.Sprint(s)
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// complianceCell pads the verdict to width. Padding stays outside the colour
// codes so later columns line up.
func complianceCell(ct models.ComplianceType, width int, colored bool) string {
	text := string(ct)
	spaces := max(width-len(text), 0)
	return ColorCompliance(ct, colored) + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max bytes for ID/label columns.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// resourceLabel is the RESOURCE ID cell; account-level evaluations show the
// account in brackets.
func resourceLabel(e models.Evaluation) string {
	if e.HasResource() {
		return e.ResourceID
	}
	if e.AccountID != "" {
		return "(account " + e.AccountID + ")"
	}
	return "(account)"
}

// RenderTable writes a formatted evaluations table to w.
//
// Column order:
//
//	RESOURCE ID  [PROFILE]  REGION  COMPLIANCE  ANNOTATION
func RenderTable(w io.Writer, evals []models.Evaluation, opts TableOptions) {
	if len(evals) == 0 {
		fmt.Fprintln(w, "No evaluations.")
		return
	}

	const (
		wResource   = 40
		wProfile    = 12
		wRegion     = 15
		wCompliance = 14
		wAnnotation = 50
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wResource, "RESOURCE ID"))
	if opts.IncludeProfile {
		hb.WriteString(fmt.Sprintf("  %-*s", wProfile, "PROFILE"))
	}
	hb.WriteString(fmt.Sprintf("  %-*s", wRegion, "REGION"))
	hb.WriteString(fmt.Sprintf("  %-*s", wCompliance, "COMPLIANCE"))
	hb.WriteString("  ANNOTATION")
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)+wAnnotation-len("ANNOTATION")))

	for _, e := range evals {
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wResource, truncateField(resourceLabel(e), wResource)))
		if opts.IncludeProfile {
			rb.WriteString(fmt.Sprintf("  %-*s", wProfile, truncateField(e.Profile, wProfile)))
		}
		rb.WriteString(fmt.Sprintf("  %-*s", wRegion, truncateField(e.Region, wRegion)))
		rb.WriteString("  " + complianceCell(e.ComplianceType, wCompliance, opts.Colored))
		rb.WriteString("  " + ShortenMessage(e.Annotation, wAnnotation))
		fmt.Fprintln(w, strings.TrimRight(rb.String(), " "))
	}
}

// RenderSummary writes the report header and per-verdict counts.
func RenderSummary(w io.Writer, r *models.EvaluationReport, colored bool) {
	fmt.Fprintf(w, "Rule:        %s\n", r.RuleID)
	fmt.Fprintf(w, "Profile:     %s\n", r.Profile)
	if r.AccountID != "" {
		fmt.Fprintf(w, "Account:     %s\n", r.AccountID)
	}
	fmt.Fprintf(w, "Regions:     %s\n", strings.Join(r.Regions, ", "))
	fmt.Fprintf(w, "Evaluations: %d\n", r.Summary.TotalEvaluations)
	fmt.Fprintf(w, "  %s %d\n", ColorCompliance(models.ComplianceCompliant, colored)+":", r.Summary.Compliant)
	fmt.Fprintf(w, "  %s %d\n", ColorCompliance(models.ComplianceNonCompliant, colored)+":", r.Summary.NonCompliant)
	fmt.Fprintf(w, "  %s %d\n", ColorCompliance(models.ComplianceNotApplicable, colored)+":", r.Summary.NotApplicable)
}
