package validation

import (
	"strings"
	"testing"
)

func TestValidateGaugeLabel(t *testing.T) {
	tests := []struct {
		name    string
		gauge   string
		wantErr bool
	}{
		// Valid labels
		{"branch circuit", "12", false},
		{"lighting minimum", "14", false},
		{"single digit", "8", false},
		{"size one", "1", false},
		{"one aught", "1/0", false},
		{"four aught", "4/0", false},
		{"two digit", "10", false},

		// Invalid labels
		{"empty", "", true},
		{"five aught", "5/0", true},
		{"zero aught", "0/0", true},
		{"hash prefix", "#12", true},
		{"awg prefix", "AWG 12", true},
		{"kcmil size", "250", true},
		{"negative", "-12", true},
		{"spaces", "1 2", true},
		{"trailing slash", "1/", true},
		{"metric", "2.5mm", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGaugeLabel(tt.gauge)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGaugeLabel(%q) error = %v, wantErr %v", tt.gauge, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGaugeLabels(t *testing.T) {
	tests := []struct {
		name    string
		gauges  []string
		wantErr bool
	}{
		{"all valid", []string{"14", "12", "1/0"}, false},
		{"one invalid", []string{"14", "5/0", "12"}, true},
		{"all invalid", []string{"#12", "awg"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGaugeLabels(tt.gauges)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGaugeLabels(%v) error = %v, wantErr %v", tt.gauges, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeGaugeLabel(t *testing.T) {
	tests := []struct {
		name    string
		gauge   string
		want    string
		wantErr bool
	}{
		{"bare passthrough", "12", "12", false},
		{"hash prefix stripped", "#12", "12", false},
		{"awg prefix stripped", "AWG 12", "12", false},
		{"lowercase awg prefix", "awg 1/0", "1/0", false},
		{"surrounding spaces", "  4/0  ", "4/0", false},
		{"invalid rejected", "5/0", "", true},
		{"empty rejected", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeGaugeLabel(tt.gauge)
			if (err != nil) != tt.wantErr {
				t.Errorf("NormalizeGaugeLabel(%q) error = %v, wantErr %v", tt.gauge, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("NormalizeGaugeLabel(%q) = %q, want %q", tt.gauge, got, tt.want)
			}
		})
	}
}

func TestValidateCircuitID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "panel-a-lighting", false},
		{"with digits", "circuit-42", false},
		{"uuid style", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"dotted", "building.floor2.panel", false},
		{"single char", "a", false},

		{"empty", "", true},
		{"starts with hyphen", "-panel", true},
		{"spaces", "panel a", true},
		{"slash", "panel/a", true},
		{"too long", strings.Repeat("p", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCircuitID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCircuitID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMaterial(t *testing.T) {
	tests := []struct {
		name     string
		material string
		wantErr  bool
	}{
		{"copper", "copper", false},
		{"aluminum", "aluminum", false},
		{"mixed case", "Copper", false},

		{"empty", "", true},
		{"with digits", "cu2", true},
		{"with spaces", "bare copper", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaterial(tt.material)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMaterial(%q) error = %v, wantErr %v", tt.material, err, tt.wantErr)
			}
		})
	}
}
