package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected AlertSeverity
	}{
		{name: "critical at threshold", score: 90, expected: AlertSeverityCritical},
		{name: "critical above threshold", score: 97.5, expected: AlertSeverityCritical},
		{name: "critical above scale", score: 150, expected: AlertSeverityCritical},
		{name: "high just below critical", score: 89.9, expected: AlertSeverityHigh},
		{name: "high at threshold", score: 80, expected: AlertSeverityHigh},
		{name: "elevated just below high", score: 79.9, expected: AlertSeverityElevated},
		{name: "elevated at zero", score: 0, expected: AlertSeverityElevated},
		{name: "elevated negative", score: -5, expected: AlertSeverityElevated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifySeverity(tt.score))
		})
	}
}

func TestAlertSeverity_Valid(t *testing.T) {
	assert.True(t, AlertSeverityCritical.Valid())
	assert.True(t, AlertSeverityHigh.Valid())
	assert.True(t, AlertSeverityElevated.Valid())
	assert.False(t, AlertSeverity("MEDIUM").Valid())
	assert.False(t, AlertSeverity("").Valid())
}

func TestDispatchStatus_Valid(t *testing.T) {
	assert.True(t, DispatchStatusRecorded.Valid())
	assert.True(t, DispatchStatusSkipped.Valid())
	assert.True(t, DispatchStatusFailed.Valid())
	assert.False(t, DispatchStatus("pending").Valid())
}

func TestDispatchResult_Delivered(t *testing.T) {
	assert.True(t, DispatchResult{Status: DispatchStatusRecorded}.Delivered())
	assert.False(t, DispatchResult{Status: DispatchStatusSkipped}.Delivered())
	assert.False(t, DispatchResult{Status: DispatchStatusFailed}.Delivered())
}
