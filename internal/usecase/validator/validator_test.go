package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		moic           float64
		period         int
		wantMOIC       float64
		wantPeriod     int
		wantWarnings   int
		warningContain []string
	}{
		{
			name:         "Typical scenario passes unchanged",
			moic:         2.5,
			period:       8,
			wantMOIC:     2.5,
			wantPeriod:   8,
			wantWarnings: 0,
		},
		{
			name:         "Upper plausibility boundary of 4.0x does not warn",
			moic:         4.0,
			period:       5,
			wantMOIC:     4.0,
			wantPeriod:   5,
			wantWarnings: 0,
		},
		{
			name:           "Capital loss warns but keeps value",
			moic:           0.5,
			period:         10,
			wantMOIC:       0.5,
			wantPeriod:     10,
			wantWarnings:   1,
			warningContain: []string{"below 1.0x"},
		},
		{
			name:           "High MOIC warns but keeps value",
			moic:           5,
			period:         10,
			wantMOIC:       5,
			wantPeriod:     10,
			wantWarnings:   1,
			warningContain: []string{"unusually high"},
		},
		{
			name:           "Negative MOIC is clamped and flagged as loss",
			moic:           -1,
			period:         10,
			wantMOIC:       0,
			wantPeriod:     10,
			wantWarnings:   2,
			warningContain: []string{"clamped to 0.0x", "below 1.0x"},
		},
		{
			name:           "Excessive MOIC is clamped and flagged as high",
			moic:           25,
			period:         10,
			wantMOIC:       10,
			wantPeriod:     10,
			wantWarnings:   2,
			warningContain: []string{"clamped to 10.0x", "unusually high"},
		},
		{
			name:           "Short holding period warns about deployment window",
			moic:           2,
			period:         4,
			wantMOIC:       2,
			wantPeriod:     4,
			wantWarnings:   1,
			warningContain: []string{"deployment window"},
		},
		{
			name:           "Zero holding period is clamped and warns",
			moic:           2,
			period:         0,
			wantMOIC:       2,
			wantPeriod:     1,
			wantWarnings:   2,
			warningContain: []string{"clamped to 1", "deployment window"},
		},
		{
			name:           "Excessive holding period is clamped",
			moic:           2,
			period:         99,
			wantMOIC:       2,
			wantPeriod:     30,
			wantWarnings:   1,
			warningContain: []string{"clamped to 30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.moic, tt.period)

			assert.Equal(t, tt.wantMOIC, result.AdjustedTargetMOIC)
			assert.Equal(t, tt.wantPeriod, result.AdjustedHoldingPeriod)
			assert.Len(t, result.Warnings, tt.wantWarnings)
			for i, substr := range tt.warningContain {
				assert.Contains(t, result.Warnings[i], substr)
			}
		})
	}
}

func TestValidate_NonFiniteMOIC(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		result := Validate(v, 10)

		assert.Equal(t, DefaultTargetMOIC, result.AdjustedTargetMOIC)
		assert.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "not a finite number")
	}
}

func TestValidate_WarningOrder(t *testing.T) {
	// MOIC warnings always precede holding period warnings
	result := Validate(0.5, 3)

	assert.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "MOIC")
	assert.Contains(t, result.Warnings[1], "holding period")
}

func TestValidate_Deterministic(t *testing.T) {
	first := Validate(12, -3)
	second := Validate(12, -3)

	assert.Equal(t, first, second)
}
