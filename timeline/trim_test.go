package timeline

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrimWindow(t *testing.T) {
	tests := []struct {
		name          string
		startTime     float64
		sourceDur     float64
		targetDur     float64
		wantEffective float64
		wantOK        bool
	}{
		{"fits entirely", 0, 10, 30, 10, true},
		{"ends exactly at target", 2, 3, 5, 3, true},
		{"overhang trimmed to remaining room", 2, 10, 5, 3, true},
		{"starts at target", 5, 10, 5, 0, false},
		{"starts past target", 7, 10, 5, 0, false},
		{"tiny remainder dropped", 4.995, 10, 5, 0, false},
		{"remainder exactly at threshold dropped", 4.99, 10, 5, 0, false},
		{"remainder just above threshold kept", 4.98, 10, 5, 0.02, true},
		{"zero start full overhang", 0, 60, 30, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effective, ok := TrimWindow(tt.startTime, tt.sourceDur, tt.targetDur)
			if ok != tt.wantOK {
				t.Fatalf("TrimWindow(%v, %v, %v) ok = %v, want %v",
					tt.startTime, tt.sourceDur, tt.targetDur, ok, tt.wantOK)
			}
			if ok && !approxEqual(effective, tt.wantEffective) {
				t.Fatalf("TrimWindow(%v, %v, %v) effective = %v, want %v",
					tt.startTime, tt.sourceDur, tt.targetDur, effective, tt.wantEffective)
			}
		})
	}
}

func TestTrimWindowNeverExtendsOutput(t *testing.T) {
	// A trimmed track must end at or before the target duration.
	for _, start := range []float64{0, 1.5, 4, 4.5, 4.98} {
		effective, ok := TrimWindow(start, 10, 5)
		if !ok {
			continue
		}
		if end := start + effective; end > 5+1e-9 {
			t.Fatalf("track at %v trimmed to %v ends at %v, past target 5", start, effective, end)
		}
	}
}
