package errors

import (
	"strings"
	"testing"
)

func TestValidateElementName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Settings", false},
		{"reserved style", "Ser.Items", false},
		{"underscore start", "_9lives", false},
		{"with dash", "high-score", false},
		{"unicode letter", "Größe", false},

		{"empty", "", true},
		{"digit start", "9lives", true},
		{"dot start", ".hidden", true},
		{"space", "High Score", true},
		{"bracket", "Pair[int,string]", true},
		{"xml prefix", "xmlData", false},
		{"XML prefix upper", "XMLPath", false},
		{"xml", "xml", true},
		{"xmlns", "xmlns", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateElementName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "farkle.xml", false},
		{"nested", "data/farkle.xml", false},
		{"absolute", "/var/lib/stowage/farkle.xml", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "farkle\x00.xml", true},
		{"newline", "farkle\n.xml", true},
		{"directory", "data/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePackagePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"module path", "github.com/matzehuels/stowage/internal/farkle", false},
		{"stdlib", "time", false},
		{"with dash", "example.com/my-pkg", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"traversal", "example.com/../pkg", true},
		{"double slash", "example.com//pkg", true},
		{"backslash", "example.com\\pkg", true},
		{"trailing slash", "example.com/pkg/", true},
		{"space", "example.com/my pkg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackagePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackagePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
