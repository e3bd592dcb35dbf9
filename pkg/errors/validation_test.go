package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "housing", false},
		{"valid with dash", "b-12", false},
		{"valid with dot", "theme.1", false},
		{"valid unicode", "zugänglichkeit", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"space", "a b", true},
		{"tab", "a\tb", true},
		{"control char", "foo\x01bar", true},
		{"quote", `a"b`, true},
		{"angle bracket", "a<b", true},
		{"ampersand", "a&b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDataset) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDataset)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "out/chart.svg", false},
		{"absolute file", "/tmp/chart.png", false},
		{"bare name", "chart.json", false},

		{"empty", "", true},
		{"directory", "out/", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"null byte", "a\x00.svg", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
