package mash

import "testing"

func TestClosestBPM(t *testing.T) {
	tests := []struct {
		name   string
		bpm    float64
		target float64
		want   float64
	}{
		{"equal stays put", 100, 100, 100},
		{"doubles toward faster target", 80, 150, 160},
		{"stays when already close", 140, 150, 140},
		{"halves toward slower target", 128, 70, 64},
		{"stays when doubling overshoots", 90, 120, 90},
		{"stays when halving undershoots", 100, 80, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestBPM(tt.bpm, tt.target)
			if got != tt.want {
				t.Errorf("ClosestBPM(%v, %v) = %v, want %v", tt.bpm, tt.target, got, tt.want)
			}
		})
	}
}

func TestClosestKeyShift(t *testing.T) {
	tests := []struct {
		name                     string
		key1, mode1, key2, mode2 int
		want                     int
	}{
		{"same key same mode", 0, ModeMajor, 0, ModeMajor, 0},
		{"C major down to G major", 0, ModeMajor, 7, ModeMajor, -5},
		{"D major up to E major", 2, ModeMajor, 4, ModeMajor, 2},
		{"B major wraps up to C major", 11, ModeMajor, 0, ModeMajor, 1},
		{"A minor is relative of C major", 9, ModeMinor, 0, ModeMajor, 0},
		{"C major is relative of A minor", 0, ModeMajor, 9, ModeMinor, 0},
		{"F sharp minor is relative of A major", 6, ModeMinor, 9, ModeMajor, 0},
		{"C minor parallel beats E flat relative", 0, ModeMinor, 0, ModeMajor, 0},
		{"D minor to C major prefers parallel", 2, ModeMinor, 0, ModeMajor, -2},
		{"no key detected", -1, ModeMajor, 5, ModeMajor, 0},
		{"target has no key", 4, ModeMinor, -1, ModeMajor, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestKeyShift(tt.key1, tt.mode1, tt.key2, tt.mode2)
			if got != tt.want {
				t.Errorf("ClosestKeyShift(%d,%d -> %d,%d) = %d, want %d",
					tt.key1, tt.mode1, tt.key2, tt.mode2, got, tt.want)
			}
		})
	}
}

func TestClosestKeyShiftStaysInRange(t *testing.T) {
	for k1 := 0; k1 < 12; k1++ {
		for k2 := 0; k2 < 12; k2++ {
			for m1 := 0; m1 <= 1; m1++ {
				for m2 := 0; m2 <= 1; m2++ {
					got := ClosestKeyShift(k1, m1, k2, m2)
					if got < -6 || got > 6 {
						t.Fatalf("ClosestKeyShift(%d,%d -> %d,%d) = %d, outside [-6,6]",
							k1, m1, k2, m2, got)
					}
				}
			}
		}
	}
}

func TestShiftedKey(t *testing.T) {
	tests := []struct {
		key, shift, want int
	}{
		{0, 0, 0},
		{0, -5, 7},
		{11, 1, 0},
		{7, 6, 1},
		{-1, 3, -1},
	}

	for _, tt := range tests {
		if got := ShiftedKey(tt.key, tt.shift); got != tt.want {
			t.Errorf("ShiftedKey(%d, %d) = %d, want %d", tt.key, tt.shift, got, tt.want)
		}
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		key, mode int
		want      string
	}{
		{0, ModeMajor, "C major"},
		{9, ModeMinor, "A minor"},
		{6, ModeMajor, "F# major"},
		{-1, ModeMajor, "unknown"},
	}

	for _, tt := range tests {
		if got := KeyName(tt.key, tt.mode); got != tt.want {
			t.Errorf("KeyName(%d, %d) = %q, want %q", tt.key, tt.mode, got, tt.want)
		}
	}
}
