package uci

import (
	"errors"
	"strings"
	"testing"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

func testRegistry() *registry {
	return newRegistry(map[string]chessmcp.OptionMetadata{
		"Hash": {
			Name: "Hash", Type: chessmcp.OptionSpin,
			Default: 16, Min: intPtr(1), Max: intPtr(33554432),
		},
		"Ponder": {Name: "Ponder", Type: chessmcp.OptionCheck, Default: false},
		"Style": {
			Name: "Style", Type: chessmcp.OptionCombo,
			Default: "Normal", Vars: []string{"Solid", "Normal", "Risky"},
		},
		"Clear Hash": {Name: "Clear Hash", Type: chessmcp.OptionButton},
		"SyzygyPath": {Name: "SyzygyPath", Type: chessmcp.OptionString, Default: ""},
	})
}

func TestValidate_SpinBounds(t *testing.T) {
	r := testRegistry()

	if _, err := r.validate("Hash", 64); err != nil {
		t.Errorf("Hash=64: %v, want nil", err)
	}

	_, err := r.validate("Hash", 33554432+1000000)
	if !errors.Is(err, chessmcp.ErrInvalidOptionValue) {
		t.Fatalf("Hash over max: error = %v, want ErrInvalidOptionValue", err)
	}
	if !strings.Contains(err.Error(), "above maximum") {
		t.Errorf("error %q should mention %q", err.Error(), "above maximum")
	}

	_, err = r.validate("Hash", 0)
	if err == nil || !strings.Contains(err.Error(), "below minimum") {
		t.Errorf("Hash=0: error = %v, want mention of %q", err, "below minimum")
	}
}

func TestValidate_SpinAcceptsJSONAndConfigShapes(t *testing.T) {
	r := testRegistry()
	// float64 is what JSON tool arguments decode to; strings come from
	// -o flags and YAML edge cases.
	for _, value := range []any{64, int64(64), float64(64), "64", " 64 "} {
		got, err := r.validate("Hash", value)
		if err != nil {
			t.Errorf("Hash=%#v: %v, want nil", value, err)
			continue
		}
		if got != 64 {
			t.Errorf("Hash=%#v normalized to %#v, want 64", value, got)
		}
	}
	for _, value := range []any{64.5, "sixty-four", true, nil} {
		if _, err := r.validate("Hash", value); !errors.Is(err, chessmcp.ErrInvalidOptionValue) {
			t.Errorf("Hash=%#v: error = %v, want ErrInvalidOptionValue", value, err)
		}
	}
}

func TestValidate_Check(t *testing.T) {
	r := testRegistry()
	if got, err := r.validate("Ponder", true); err != nil || got != true {
		t.Errorf("Ponder=true: (%v, %v), want (true, nil)", got, err)
	}
	if _, err := r.validate("Ponder", "true"); !errors.Is(err, chessmcp.ErrInvalidOptionValue) {
		t.Errorf("Ponder=\"true\": error = %v, want ErrInvalidOptionValue", err)
	}
}

func TestValidate_ComboMembership(t *testing.T) {
	r := testRegistry()
	if _, err := r.validate("Style", "Risky"); err != nil {
		t.Errorf("Style=Risky: %v, want nil", err)
	}
	_, err := r.validate("Style", "Reckless")
	if !errors.Is(err, chessmcp.ErrInvalidOptionValue) {
		t.Fatalf("Style=Reckless: error = %v, want ErrInvalidOptionValue", err)
	}
	if !strings.Contains(err.Error(), "Solid, Normal, Risky") {
		t.Errorf("error %q should list the allowed values", err.Error())
	}
}

func TestValidate_ButtonIgnoresValue(t *testing.T) {
	r := testRegistry()
	got, err := r.validate("Clear Hash", "anything")
	if err != nil {
		t.Fatalf("button: %v, want nil", err)
	}
	if got != nil {
		t.Errorf("button normalized value = %#v, want nil", got)
	}
}

func TestValidate_StringAndAbsent(t *testing.T) {
	r := testRegistry()
	if got, err := r.validate("SyzygyPath", "/tb/path"); err != nil || got != "/tb/path" {
		t.Errorf("SyzygyPath: (%v, %v)", got, err)
	}
	if got, err := r.validate("SyzygyPath", nil); err != nil || got != "" {
		t.Errorf("SyzygyPath=nil: (%v, %v), want (\"\", nil)", got, err)
	}
}

func TestValidate_UnknownName(t *testing.T) {
	r := testRegistry()
	_, err := r.validate("NoSuchOption", 1)
	if !errors.Is(err, chessmcp.ErrUnsupportedOption) {
		t.Fatalf("error = %v, want ErrUnsupportedOption", err)
	}
}

func TestFormatSetOption(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"Hash", 64, "setoption name Hash value 64"},
		{"Ponder", false, "setoption name Ponder value false"},
		{"Style", "Risky", "setoption name Style value Risky"},
		{"Clear Hash", nil, "setoption name Clear Hash"},
	}
	for _, tt := range tests {
		if got := formatSetOption(tt.name, tt.value); got != tt.want {
			t.Errorf("formatSetOption(%q, %#v) = %q, want %q", tt.name, tt.value, got, tt.want)
		}
	}
}
