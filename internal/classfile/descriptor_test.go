package classfile

import (
	"reflect"
	"testing"
)

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"I", "int"},
		{"J", "long"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[I", "int[]"},
		{"[[Ljava/util/List;", "java.util.List[][]"},
	}

	for _, tt := range tests {
		name, consumed, err := parseFieldDescriptor(tt.desc)
		if err != nil {
			t.Errorf("parseFieldDescriptor(%q) error = %v", tt.desc, err)
			continue
		}
		if name != tt.want {
			t.Errorf("parseFieldDescriptor(%q) = %q, want %q", tt.desc, name, tt.want)
		}
		if consumed != len(tt.desc) {
			t.Errorf("parseFieldDescriptor(%q) consumed %d of %d bytes", tt.desc, consumed, len(tt.desc))
		}
	}
}

func TestParseFieldDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "[", "Ljava/lang/String", "Q"} {
		if _, _, err := parseFieldDescriptor(desc); err == nil {
			t.Errorf("parseFieldDescriptor(%q) expected error", desc)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc       string
		wantParams []string
		wantRet    string
	}{
		{"()V", nil, "void"},
		{"(Ljava/lang/String;I)V", []string{"java.lang.String", "int"}, "void"},
		{"(JD)Ljava/util/List;", []string{"long", "double"}, "java.util.List"},
		{"([Ljava/lang/String;)V", []string{"java.lang.String[]"}, "void"},
	}

	for _, tt := range tests {
		params, ret, err := parseMethodDescriptor(tt.desc)
		if err != nil {
			t.Errorf("parseMethodDescriptor(%q) error = %v", tt.desc, err)
			continue
		}
		if !reflect.DeepEqual(params, tt.wantParams) {
			t.Errorf("parseMethodDescriptor(%q) params = %v, want %v", tt.desc, params, tt.wantParams)
		}
		if ret != tt.wantRet {
			t.Errorf("parseMethodDescriptor(%q) return = %q, want %q", tt.desc, ret, tt.wantRet)
		}
	}
}

func TestParseMethodDescriptorErrors(t *testing.T) {
	for _, desc := range []string{"", "V", "(I", "(I)VX"} {
		if _, _, err := parseMethodDescriptor(desc); err == nil {
			t.Errorf("parseMethodDescriptor(%q) expected error", desc)
		}
	}
}

func TestSlotWidth(t *testing.T) {
	if got := slotWidth("long"); got != 2 {
		t.Errorf("slotWidth(long) = %d, want 2", got)
	}
	if got := slotWidth("double"); got != 2 {
		t.Errorf("slotWidth(double) = %d, want 2", got)
	}
	if got := slotWidth("java.lang.String"); got != 1 {
		t.Errorf("slotWidth(String) = %d, want 1", got)
	}
}
