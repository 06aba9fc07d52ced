package process

import "testing"

// Real kills are covered by the browser integration tests; signalling an
// arbitrary live pid here is unsafe.
func TestKillProcessGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pid  int
		want bool
	}{
		{"zero would hit own group", 0, false},
		{"negative", -5, false},
		{"init", 1, false},
		{"nonexistent", 999999999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := KillProcessGroup(tt.pid); got != tt.want {
				t.Errorf("KillProcessGroup(%d) = %v, want %v", tt.pid, got, tt.want)
			}
		})
	}
}
