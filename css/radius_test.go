package css

import "testing"

func TestResolveRadius(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		w, h      float64
		wantPx    float64
		wantRound bool
	}{
		{"empty", "", 200, 100, 0, false},
		{"zero", "0px", 200, 100, 0, false},
		{"pixels", "8px", 200, 100, 8, false},
		{"pixels at half shorter side", "50px", 200, 100, 0, true},
		{"pixels beyond half shorter side", "80px", 200, 100, 0, true},
		{"percent fully round", "50%", 200, 100, 0, true},
		{"percent above fifty", "75%", 200, 100, 0, true},
		{"percent scales shorter side", "10%", 200, 100, 10, false},
		{"per-corner uses first", "8px 16px", 200, 100, 8, false},
		{"elliptical uses first", "12px / 24px", 200, 100, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ResolveRadius(tt.value, tt.w, tt.h)
			if err != nil {
				t.Fatalf("ResolveRadius(%q): %v", tt.value, err)
			}
			if r.FullyRound != tt.wantRound {
				t.Errorf("FullyRound = %v, want %v", r.FullyRound, tt.wantRound)
			}
			if !tt.wantRound && r.Px != tt.wantPx {
				t.Errorf("Px = %v, want %v", r.Px, tt.wantPx)
			}
		})
	}
}

func TestResolveRadiusInvalid(t *testing.T) {
	if _, err := ResolveRadius("2em", 100, 100); err == nil {
		t.Error("ResolveRadius(\"2em\") succeeded, want error")
	}
}
