package classfile

import (
	"fmt"
	"strings"
)

var primitiveNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// parseFieldDescriptor decodes one type descriptor starting at the front of
// desc and returns the source-form type name plus the number of descriptor
// bytes consumed. "[Ljava/lang/String;" becomes "java.lang.String[]".
func parseFieldDescriptor(desc string) (name string, consumed int, err error) {
	if desc == "" {
		return "", 0, fmt.Errorf("empty type descriptor")
	}

	dims := 0
	for consumed < len(desc) && desc[consumed] == '[' {
		dims++
		consumed++
	}
	if consumed >= len(desc) {
		return "", 0, fmt.Errorf("truncated array descriptor %q", desc)
	}

	switch c := desc[consumed]; c {
	case 'L':
		end := strings.IndexByte(desc[consumed:], ';')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated object descriptor %q", desc)
		}
		name = dottedName(desc[consumed+1 : consumed+end])
		consumed += end + 1
	default:
		prim, ok := primitiveNames[c]
		if !ok {
			return "", 0, fmt.Errorf("unknown descriptor tag %q in %q", c, desc)
		}
		name = prim
		consumed++
	}

	return name + strings.Repeat("[]", dims), consumed, nil
}

// parseMethodDescriptor splits "(Ljava/lang/String;I)V" into parameter type
// names and the return type name.
func parseMethodDescriptor(desc string) (params []string, ret string, err error) {
	if len(desc) < 3 || desc[0] != '(' {
		return nil, "", fmt.Errorf("malformed method descriptor %q", desc)
	}

	rest := desc[1:]
	for len(rest) > 0 && rest[0] != ')' {
		name, n, err := parseFieldDescriptor(rest)
		if err != nil {
			return nil, "", fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		params = append(params, name)
		rest = rest[n:]
	}
	if len(rest) == 0 || rest[0] != ')' {
		return nil, "", fmt.Errorf("method descriptor %q missing ')'", desc)
	}

	ret, n, err := parseFieldDescriptor(rest[1:])
	if err != nil {
		return nil, "", fmt.Errorf("method descriptor %q return: %w", desc, err)
	}
	if n != len(rest[1:]) {
		return nil, "", fmt.Errorf("method descriptor %q has trailing bytes", desc)
	}
	return params, ret, nil
}

// annotationTypeName converts an annotation type descriptor ("Lcom/ex/Ann;")
// to its dotted name.
func annotationTypeName(desc string) (string, error) {
	name, n, err := parseFieldDescriptor(desc)
	if err != nil {
		return "", err
	}
	if n != len(desc) {
		return "", fmt.Errorf("annotation descriptor %q has trailing bytes", desc)
	}
	return name, nil
}

// slotWidth is the number of local-variable slots a parameter of the given
// type occupies.
func slotWidth(typeName string) int {
	if typeName == "long" || typeName == "double" {
		return 2
	}
	return 1
}
