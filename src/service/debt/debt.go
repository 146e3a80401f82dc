package debt

import (
	"fmt"

	"marklint/src/model"
)

// Base remediation minutes per issue type
var baseMinutes = map[model.IssueType]int{
	model.IssueTypeBug:             30,
	model.IssueTypeVulnerability:   60,
	model.IssueTypeCodeSmell:       10,
	model.IssueTypeSecurityHotspot: 45,
	model.IssueTypeSecret:          15,
}

// Severity multipliers applied to the type base
var severityMultiplier = map[model.Severity]float64{
	model.SeverityBlocker: 2.0,
	model.SeverityHigh:    1.5,
	model.SeverityMedium:  1.0,
	model.SeverityLow:     0.5,
}

// infoMinutes is the fixed effort for info diagnostics, overriding the type base
const infoMinutes = 5

// minutesPerWorkDay converts debt minutes to the day unit used in display
const minutesPerWorkDay = 480

// EffortMinutes returns the remediation effort for one diagnostic: the
// explicit per-diagnostic override when set, else the type base scaled by
// the severity multiplier.
func EffortMinutes(d model.Diagnostic) int {
	if d.EffortMinutes > 0 {
		return d.EffortMinutes
	}
	if d.Severity == model.SeverityInfo {
		return infoMinutes
	}

	base, ok := baseMinutes[d.IssueType]
	if !ok {
		base = baseMinutes[model.IssueTypeCodeSmell]
	}
	mult, ok := severityMultiplier[d.Severity]
	if !ok {
		mult = 1.0
	}
	return int(float64(base) * mult)
}

// Aggregate buckets diagnostic effort by issue type and severity and derives
// the debt ratio and rating against the estimated development time.
// Secret-type effort folds into the vulnerability bucket; the distinct issue
// type is preserved everywhere else in the model.
func Aggregate(diags []model.Diagnostic, linesOfCode int) model.TechnicalDebt {
	debt := model.TechnicalDebt{
		ByType:     map[model.IssueType]int{},
		BySeverity: map[model.Severity]int{},
	}

	for _, d := range diags {
		minutes := EffortMinutes(d)
		debt.TotalMinutes += minutes

		bucket := d.IssueType
		if bucket == model.IssueTypeSecret {
			bucket = model.IssueTypeVulnerability
		}
		debt.ByType[bucket] += minutes
		debt.BySeverity[d.Severity] += minutes
	}

	debt.DevTimeMinutes = estimatedDevTime(linesOfCode)
	debt.Ratio = float64(debt.TotalMinutes) / float64(debt.DevTimeMinutes) * 100
	debt.Rating = Rating(debt.Ratio)
	return debt
}

// estimatedDevTime approximates the effort already invested in the code base
func estimatedDevTime(linesOfCode int) int {
	minutes := linesOfCode / 10 * 30
	if minutes < 60 {
		return 60
	}
	return minutes
}

// Rating maps a debt ratio to a letter rating via fixed thresholds
func Rating(ratio float64) string {
	switch {
	case ratio <= 5:
		return "A"
	case ratio <= 10:
		return "B"
	case ratio <= 20:
		return "C"
	case ratio <= 50:
		return "D"
	default:
		return "E"
	}
}

// FormatDuration renders debt minutes for display: minutes below an hour,
// hours and minutes below a working day (8h), days and hours beyond.
func FormatDuration(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dmin", minutes)
	case minutes < minutesPerWorkDay:
		return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
	default:
		return fmt.Sprintf("%dd %dh", minutes/minutesPerWorkDay, minutes%minutesPerWorkDay/60)
	}
}

// Gate is a configurable quality gate evaluated against aggregated debt
type Gate struct {
	MaxRatio      float64
	MinRating     string
	FailOnBlocker bool
	FailOnHigh    bool
}

// Evaluate checks the debt and diagnostics against the gate's policy and
// returns pass/fail plus human-readable failure reasons.
func (g Gate) Evaluate(debt model.TechnicalDebt, diags []model.Diagnostic) (bool, []string) {
	var reasons []string

	if g.MaxRatio > 0 && debt.Ratio > g.MaxRatio {
		reasons = append(reasons,
			fmt.Sprintf("debt ratio %.1f%% exceeds maximum %.1f%%", debt.Ratio, g.MaxRatio))
	}

	if g.MinRating != "" && debt.Rating > g.MinRating {
		reasons = append(reasons,
			fmt.Sprintf("rating %s is worse than required %s", debt.Rating, g.MinRating))
	}

	if g.FailOnBlocker || g.FailOnHigh {
		blockers, highs := 0, 0
		for _, d := range diags {
			switch d.Severity {
			case model.SeverityBlocker:
				blockers++
			case model.SeverityHigh:
				highs++
			}
		}
		if g.FailOnBlocker && blockers > 0 {
			reasons = append(reasons, fmt.Sprintf("%d blocker issue(s) present", blockers))
		}
		if g.FailOnHigh && highs > 0 {
			reasons = append(reasons, fmt.Sprintf("%d high severity issue(s) present", highs))
		}
	}

	return len(reasons) == 0, reasons
}
