package errors

import (
	"testing"
)

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"toml", "maps/act1.toml", false},
		{"yaml", "act1.yaml", false},
		{"yml upper", "ACT1.YML", false},
		{"json", "/etc/runmap/config.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)) + ".toml", true},
		{"no extension", "config", true},
		{"unknown extension", "config.ini", true},
		{"null byte", "foo\x00.toml", true},
		{"newline", "foo\n.toml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfigPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfigPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateConfigPath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestParseSeed(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"0xff", 255, false},
		{"18446744073709551615", 1<<64 - 1, false},

		{"", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"18446744073709551616", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeed(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeed(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSeed) {
				t.Errorf("ParseSeed(%q) returned wrong error code: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSeed(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if got, err := ValidateFormat(" DOT", "json", "dot"); err != nil || got != "dot" {
		t.Errorf("ValidateFormat(DOT) = %q, %v", got, err)
	}
	if _, err := ValidateFormat("png", "json", "dot"); !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(png) error = %v, want INVALID_FORMAT", err)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidMap,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidSeed,
		ErrCodeConfigConflict,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
