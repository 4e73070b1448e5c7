package mypyllant

import "testing"

func TestParseVentilationOperationMode(t *testing.T) {
	for _, mode := range VentilationOperationModes {
		parsed, err := ParseVentilationOperationMode(mode.String())
		if err != nil {
			t.Errorf("ParseVentilationOperationMode(%q): %v", mode, err)
		}
		if parsed != mode {
			t.Errorf("ParseVentilationOperationMode(%q) = %v", mode, parsed)
		}
	}
}

func TestParseVentilationOperationModeInvalid(t *testing.T) {
	for _, s := range []string{"", "off", "Normal", "AUTO"} {
		if _, err := ParseVentilationOperationMode(s); err == nil {
			t.Errorf("ParseVentilationOperationMode(%q) succeeded", s)
		}
	}
}
