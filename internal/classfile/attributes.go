package classfile

import (
	"fmt"
	"sort"
)

const (
	attrRuntimeVisibleAnnotations   = "RuntimeVisibleAnnotations"
	attrRuntimeInvisibleAnnotations = "RuntimeInvisibleAnnotations"
	attrCode                        = "Code"
	attrLineNumberTable             = "LineNumberTable"
	attrLocalVariableTable          = "LocalVariableTable"
	attrMethodParameters            = "MethodParameters"
	attrRecord                      = "Record"
)

type attribute struct {
	name string
	data []byte
}

// parseAttributes reads one attributes table (class, field, method or code
// level all share the layout).
func parseAttributes(r *reader, cp *constPool) ([]attribute, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("attribute count: %w", err)
	}

	attrs := make([]attribute, 0, count)
	for i := uint16(0); i < count; i++ {
		nameIndex, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("attribute %d name index: %w", i, err)
		}
		name, err := cp.utf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("attribute %d name: %w", i, err)
		}
		length, err := r.u4()
		if err != nil {
			return nil, fmt.Errorf("attribute %q length: %w", name, err)
		}
		data, err := r.bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("attribute %q data: %w", name, err)
		}
		attrs = append(attrs, attribute{name: name, data: data})
	}
	return attrs, nil
}

func findAttribute(attrs []attribute, name string) ([]byte, bool) {
	for _, a := range attrs {
		if a.name == name {
			return a.data, true
		}
	}
	return nil, false
}

// parseAnnotations decodes a RuntimeVisibleAnnotations (or invisible)
// payload into sorted, deduplicated annotation type names. Element values
// are skipped; only the markers matter for classification.
func parseAnnotations(data []byte, cp *constPool) ([]string, error) {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("annotation count: %w", err)
	}

	seen := make(map[string]bool, count)
	for i := uint16(0); i < count; i++ {
		name, err := parseAnnotation(r, cp)
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func parseAnnotation(r *reader, cp *constPool) (string, error) {
	typeIndex, err := r.u2()
	if err != nil {
		return "", err
	}
	desc, err := cp.utf8(typeIndex)
	if err != nil {
		return "", err
	}
	name, err := annotationTypeName(desc)
	if err != nil {
		return "", err
	}

	pairs, err := r.u2()
	if err != nil {
		return "", err
	}
	for i := uint16(0); i < pairs; i++ {
		if err := r.skip(2); err != nil { // element name index
			return "", err
		}
		if err := skipElementValue(r, cp); err != nil {
			return "", err
		}
	}
	return name, nil
}

// skipElementValue advances past one element_value structure. The payload
// is irrelevant here but its variable layout must be walked to find the
// next annotation.
func skipElementValue(r *reader, cp *constPool) error {
	tag, err := r.u1()
	if err != nil {
		return err
	}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		return r.skip(2)
	case 'e':
		return r.skip(4)
	case '@':
		_, err := parseAnnotation(r, cp)
		return err
	case '[':
		count, err := r.u2()
		if err != nil {
			return err
		}
		for i := uint16(0); i < count; i++ {
			if err := skipElementValue(r, cp); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown element value tag %q", tag)
	}
}

// parseMethodParameterNames reads a MethodParameters payload into ordered
// parameter names. Unnamed (zero-index) entries yield "".
func parseMethodParameterNames(data []byte, cp *constPool) ([]string, error) {
	r := newReader(data)
	count, err := r.u1()
	if err != nil {
		return nil, fmt.Errorf("parameter count: %w", err)
	}

	names := make([]string, 0, count)
	for i := uint8(0); i < count; i++ {
		nameIndex, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("parameter %d name index: %w", i, err)
		}
		if err := r.skip(2); err != nil { // access flags
			return nil, err
		}
		name := ""
		if nameIndex != 0 {
			name, err = cp.utf8(nameIndex)
			if err != nil {
				return nil, fmt.Errorf("parameter %d name: %w", i, err)
			}
		}
		names = append(names, name)
	}
	return names, nil
}
