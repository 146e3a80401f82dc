package debt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marklint/src/model"
)

func diag(issueType model.IssueType, severity model.Severity) model.Diagnostic {
	return model.Diagnostic{
		RuleID:    "R-001",
		IssueType: issueType,
		Severity:  severity,
		Message:   "m",
	}
}

func TestEffortMinutesDefaults(t *testing.T) {
	tests := []struct {
		name string
		d    model.Diagnostic
		want int
	}{
		{name: "bug high", d: diag(model.IssueTypeBug, model.SeverityHigh), want: 45},
		{name: "bug blocker", d: diag(model.IssueTypeBug, model.SeverityBlocker), want: 60},
		{name: "bug medium", d: diag(model.IssueTypeBug, model.SeverityMedium), want: 30},
		{name: "bug low", d: diag(model.IssueTypeBug, model.SeverityLow), want: 15},
		{name: "vulnerability blocker", d: diag(model.IssueTypeVulnerability, model.SeverityBlocker), want: 120},
		{name: "code smell medium", d: diag(model.IssueTypeCodeSmell, model.SeverityMedium), want: 10},
		{name: "hotspot high", d: diag(model.IssueTypeSecurityHotspot, model.SeverityHigh), want: 67},
		{name: "secret medium", d: diag(model.IssueTypeSecret, model.SeverityMedium), want: 15},
		{name: "info overrides type base", d: diag(model.IssueTypeVulnerability, model.SeverityInfo), want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EffortMinutes(tc.d))
		})
	}
}

func TestEffortMinutesExplicitOverride(t *testing.T) {
	d := diag(model.IssueTypeBug, model.SeverityHigh)
	d.EffortMinutes = 7
	assert.Equal(t, 7, EffortMinutes(d))
}

func TestAggregateFoldsSecretIntoVulnerability(t *testing.T) {
	diags := []model.Diagnostic{
		diag(model.IssueTypeSecret, model.SeverityMedium),        // 15
		diag(model.IssueTypeVulnerability, model.SeverityMedium), // 60
		diag(model.IssueTypeBug, model.SeverityMedium),           // 30
	}

	debt := Aggregate(diags, 1000)

	assert.Equal(t, 105, debt.TotalMinutes)
	assert.Equal(t, 75, debt.ByType[model.IssueTypeVulnerability])
	assert.Equal(t, 30, debt.ByType[model.IssueTypeBug])
	assert.NotContains(t, debt.ByType, model.IssueTypeSecret)
}

func TestAggregateRatioAndRating(t *testing.T) {
	// 1000 lines -> 3000 dev minutes; one medium vulnerability = 60 minutes -> 2%
	diags := []model.Diagnostic{diag(model.IssueTypeVulnerability, model.SeverityMedium)}
	debt := Aggregate(diags, 1000)

	assert.Equal(t, 3000, debt.DevTimeMinutes)
	assert.InDelta(t, 2.0, debt.Ratio, 0.001)
	assert.Equal(t, "A", debt.Rating)
}

func TestAggregateMinimumDevTime(t *testing.T) {
	debt := Aggregate(nil, 5)
	assert.Equal(t, 60, debt.DevTimeMinutes)
	assert.Equal(t, 0, debt.TotalMinutes)
	assert.Equal(t, "A", debt.Rating)
}

func TestRatingThresholds(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 0, want: "A"},
		{ratio: 5, want: "A"},
		{ratio: 5.01, want: "B"},
		{ratio: 10, want: "B"},
		{ratio: 20, want: "C"},
		{ratio: 50, want: "D"},
		{ratio: 50.1, want: "E"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Rating(tc.ratio), "ratio %.2f", tc.ratio)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 0, want: "0min"},
		{minutes: 45, want: "45min"},
		{minutes: 90, want: "1h 30min"},
		{minutes: 480, want: "1d 0h"},
		{minutes: 600, want: "1d 2h"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatDuration(tc.minutes), "minutes %d", tc.minutes)
	}
}

func TestQualityGate(t *testing.T) {
	blocker := diag(model.IssueTypeBug, model.SeverityBlocker)
	high := diag(model.IssueTypeBug, model.SeverityHigh)

	t.Run("passes when clean", func(t *testing.T) {
		gate := Gate{MaxRatio: 20, MinRating: "C", FailOnBlocker: true}
		pass, reasons := gate.Evaluate(model.TechnicalDebt{Ratio: 3, Rating: "A"}, nil)
		assert.True(t, pass)
		assert.Empty(t, reasons)
	})

	t.Run("fails on ratio", func(t *testing.T) {
		gate := Gate{MaxRatio: 10}
		pass, reasons := gate.Evaluate(model.TechnicalDebt{Ratio: 25, Rating: "C"}, nil)
		assert.False(t, pass)
		assert.Len(t, reasons, 1)
	})

	t.Run("fails on rating", func(t *testing.T) {
		gate := Gate{MinRating: "B"}
		pass, reasons := gate.Evaluate(model.TechnicalDebt{Ratio: 15, Rating: "C"}, nil)
		assert.False(t, pass)
		assert.Len(t, reasons, 1)
	})

	t.Run("fails on blocker policy", func(t *testing.T) {
		gate := Gate{FailOnBlocker: true}
		pass, reasons := gate.Evaluate(model.TechnicalDebt{Rating: "A"}, []model.Diagnostic{blocker})
		assert.False(t, pass)
		assert.Len(t, reasons, 1)
	})

	t.Run("fails on high policy", func(t *testing.T) {
		gate := Gate{FailOnHigh: true}
		pass, reasons := gate.Evaluate(model.TechnicalDebt{Rating: "A"}, []model.Diagnostic{high, high})
		assert.False(t, pass)
		assert.Len(t, reasons, 1)
	})

	t.Run("collects every reason", func(t *testing.T) {
		gate := Gate{MaxRatio: 1, MinRating: "A", FailOnBlocker: true, FailOnHigh: true}
		debt := model.TechnicalDebt{Ratio: 60, Rating: "E"}
		pass, reasons := gate.Evaluate(debt, []model.Diagnostic{blocker, high})
		assert.False(t, pass)
		assert.Len(t, reasons, 4)
	})
}
