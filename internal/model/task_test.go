package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     StepStatus
		to       StepStatus
		explicit bool
		want     bool
	}{
		{"pending to processing", StepPending, StepProcessing, false, true},
		{"failed to processing (retry)", StepFailed, StepProcessing, false, true},
		{"processing to completed", StepProcessing, StepCompleted, false, true},
		{"processing to failed", StepProcessing, StepFailed, false, true},

		{"processing to processing blocked", StepProcessing, StepProcessing, false, false},
		{"completed to processing blocked", StepCompleted, StepProcessing, false, false},
		{"completed to processing explicit", StepCompleted, StepProcessing, true, true},
		{"pending to completed blocked", StepPending, StepCompleted, false, false},
		{"pending to failed blocked", StepPending, StepFailed, false, false},
		{"failed to completed blocked", StepFailed, StepCompleted, false, false},
		{"completed to pending blocked", StepCompleted, StepPending, false, false},
		{"anything to pending blocked", StepFailed, StepPending, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to, tt.explicit); got != tt.want {
				t.Errorf("CanTransition(%s, %s, %v) = %v, want %v",
					tt.from, tt.to, tt.explicit, got, tt.want)
			}
		})
	}
}

func TestStepOrderCoversAllSteps(t *testing.T) {
	want := []string{
		StepCategorization,
		StepSocialBlade,
		StepRecentVideos,
		StepTrendingVideos,
		StepOutlierAnalysis,
	}
	if len(StepOrder) != len(want) {
		t.Fatalf("StepOrder has %d steps, want %d", len(StepOrder), len(want))
	}
	for i, step := range want {
		if StepOrder[i] != step {
			t.Errorf("StepOrder[%d] = %s, want %s", i, StepOrder[i], step)
		}
	}
}
