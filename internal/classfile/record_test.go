package classfile

import (
	"testing"

	"classlens/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"nil", nil, false},
		{"empty", []byte{}, false},
		{"magic only", []byte{0xCA, 0xFE, 0xBA, 0xBE}, false},
		{"short of version fields", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00}, false},
		{"wrong magic", []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00, 0x00, 0x3D}, false},
		{"minimal header", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x3D}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.data); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	header, err := ParseHeader([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x03, 0x00, 0x3D})
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if header.Minor != 3 {
		t.Errorf("Minor = %d, want 3", header.Minor)
	}
	if header.Major != 61 {
		t.Errorf("Major = %d, want 61", header.Major)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", []byte{0xCA, 0xFE}},
		{"bad magic", []byte{0x00, 0x01, 0x02, 0x03, 0x00, 0x00, 0x00, 0x34}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.data)
			if err == nil {
				t.Fatal("ParseHeader() expected error")
			}
			if !errors.IsCode(err, errors.CodeParsing) {
				t.Errorf("error code = %v, want %s", err, errors.CodeParsing)
			}
		})
	}
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		major int
		want  string
	}{
		{52, "Platform 8"},
		{55, "Platform 11"},
		{61, "Platform 17"},
		{65, "Platform 21"},
		{45, "Platform 1.1"},
		{99, "Platform 55"},
	}

	for _, tt := range tests {
		if got := FormatVersion(tt.major); got != tt.want {
			t.Errorf("FormatVersion(%d) = %q, want %q", tt.major, got, tt.want)
		}
	}
}
