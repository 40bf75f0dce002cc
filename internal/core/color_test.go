package core

import (
	"encoding/json"
	"testing"
)

func TestColorHex(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{ColorBlack, "#000000"},
		{ColorOrange, "#ffa500"},
		{Color{R: 255, G: 0, B: 0, A: 128}, "#ff000080"},
		{ColorTransparent, "#00000000"},
	}

	for _, tc := range tests {
		if got := tc.c.Hex(); got != tc.want {
			t.Errorf("Hex() = %q, expected %q", got, tc.want)
		}
		parsed, err := ParseHex(tc.want)
		if err != nil {
			t.Errorf("ParseHex(%q) failed: %v", tc.want, err)
			continue
		}
		if parsed != tc.c {
			t.Errorf("ParseHex(%q) = %+v, expected %+v", tc.want, parsed, tc.c)
		}
	}
}

func TestParseHexErrors(t *testing.T) {
	for _, s := range []string{"", "red", "#fff", "#gggggg", "#ff0000zz"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q) should fail", s)
		}
	}
}

func TestColorLerp(t *testing.T) {
	if got := ColorBlack.Lerp(ColorWhite, 0); got != ColorBlack {
		t.Errorf("Lerp(0) = %v, expected black", got)
	}
	if got := ColorBlack.Lerp(ColorWhite, 1); got != ColorWhite {
		t.Errorf("Lerp(1) = %v, expected white", got)
	}
	mid := ColorBlack.Lerp(ColorWhite, 0.5)
	if mid.R < 126 || mid.R > 129 || mid.R != mid.G || mid.G != mid.B || !mid.Opaque() {
		t.Errorf("Lerp(0.5) = %v, expected opaque mid gray", mid)
	}
	if got := ColorRed.Lerp(ColorBlue, 7); got != ColorBlue {
		t.Errorf("Lerp beyond 1 = %v, expected clamped to blue", got)
	}
}

func TestColorJSON(t *testing.T) {
	type palette struct {
		Wall Color `json:"wall"`
	}
	data, err := json.Marshal(palette{Wall: ColorDarkGreen})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"wall":"#006400"}` {
		t.Errorf("Marshal = %s", data)
	}

	var p palette
	if err := json.Unmarshal([]byte(`{"wall":"#40404080"}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Wall != (Color{R: 64, G: 64, B: 64, A: 128}) {
		t.Errorf("Unmarshal wall = %+v", p.Wall)
	}
}
