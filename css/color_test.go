package css

import (
	"math"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantHex   string
		wantAlpha float64
		wantErr   bool
	}{
		{"rgb", "rgb(255, 0, 0)", "FF0000", 1, false},
		{"rgb no spaces", "rgb(0,128,255)", "0080FF", 1, false},
		{"rgba", "rgba(0, 0, 0, 0.5)", "000000", 0.5, false},
		{"rgba zero alpha", "rgba(10, 20, 30, 0)", "0A141E", 0, false},
		{"hex short", "#fff", "FFFFFF", 1, false},
		{"hex long", "#1a2b3c", "1A2B3C", 1, false},
		{"hex with alpha", "#00000080", "000000", 128.0 / 255, false},
		{"named", "red", "FF0000", 1, false},
		{"transparent keyword", "transparent", "000000", 0, false},
		{"case insensitive", "RGB(255, 255, 255)", "FFFFFF", 1, false},
		{"empty", "", "", 0, true},
		{"garbage", "blurple", "", 0, true},
		{"malformed rgb", "rgb(1,2)", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseColor(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.input, err)
			}
			if c.Hex != tt.wantHex {
				t.Errorf("Hex = %q, want %q", c.Hex, tt.wantHex)
			}
			if math.Abs(c.Alpha-tt.wantAlpha) > 0.005 {
				t.Errorf("Alpha = %v, want %v", c.Alpha, tt.wantAlpha)
			}
		})
	}
}

func TestColorTransparency(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		want  float64
	}{
		{"opaque", 1, 0},
		{"half", 0.5, 50},
		{"transparent", 0, 100},
		{"rounded", 0.333, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Color{Hex: "000000", Alpha: tt.alpha}
			if got := c.Transparency(); got != tt.want {
				t.Errorf("Transparency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTransparent(t *testing.T) {
	if !(Color{Hex: "000000", Alpha: 0}).IsTransparent() {
		t.Error("zero alpha should be transparent")
	}
	if (Color{Hex: "000000", Alpha: 0.01}).IsTransparent() {
		t.Error("non-zero alpha should not be transparent")
	}
}
