package classfile

import (
	"fmt"
	"strings"

	"classlens/internal/errors"
	"classlens/internal/metadata"
)

// Class access and member flags.
const (
	accPublic       = 0x0001
	accPrivate      = 0x0002
	accProtected    = 0x0004
	accStatic       = 0x0008
	accFinal        = 0x0010
	accSynchronized = 0x0020
	accVolatile     = 0x0040
	accTransient    = 0x0080
	accNative       = 0x0100
	accInterface    = 0x0200
	accAbstract     = 0x0400
	accAnnotation   = 0x2000
	accEnum         = 0x4000
)

// Extract decodes one raw class record into its full metadata value. It is a
// pure function: safe to call concurrently for independent records. A record
// failing header validation gets a PARSING_ERROR; a record that validates
// but whose deeper structure is inconsistent gets an ANALYSIS_ERROR.
func Extract(data []byte) (*metadata.Class, error) {
	if _, err := ParseHeader(data); err != nil {
		return nil, err
	}

	r := newReader(data)
	if err := r.skip(headerLen); err != nil {
		return nil, errors.Wrap(err, errors.CodeParsing, "record header")
	}

	cp, err := parseConstPool(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAnalysis, "constant pool")
	}

	c, err := extractBody(r, cp)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAnalysis, "class structure")
	}
	return c, nil
}

func extractBody(r *reader, cp *constPool) (*metadata.Class, error) {
	accessFlags, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("access flags: %w", err)
	}

	thisClass, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("this class index: %w", err)
	}
	fqn, err := cp.className(thisClass)
	if err != nil {
		return nil, fmt.Errorf("this class: %w", err)
	}

	superIndex, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("super class index: %w", err)
	}
	superClass := ""
	if superIndex != 0 {
		superClass, err = cp.className(superIndex)
		if err != nil {
			return nil, fmt.Errorf("super class: %w", err)
		}
	}

	interfaceCount, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("interface count: %w", err)
	}
	interfaces := make([]string, 0, interfaceCount)
	for i := uint16(0); i < interfaceCount; i++ {
		index, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("interface %d index: %w", i, err)
		}
		name, err := cp.className(index)
		if err != nil {
			return nil, fmt.Errorf("interface %d: %w", i, err)
		}
		interfaces = append(interfaces, name)
	}

	fields, err := extractFields(r, cp)
	if err != nil {
		return nil, err
	}
	methods, err := extractMethods(r, cp)
	if err != nil {
		return nil, err
	}

	classAttrs, err := parseAttributes(r, cp)
	if err != nil {
		return nil, fmt.Errorf("class attributes: %w", err)
	}
	annotations, err := memberAnnotations(classAttrs, cp)
	if err != nil {
		return nil, fmt.Errorf("class annotations: %w", err)
	}

	pkg, simple := splitClassName(fqn)
	c := &metadata.Class{
		FullyQualifiedName: fqn,
		ClassName:          simple,
		PackageName:        pkg,
		Kind:               classKind(accessFlags, classAttrs),
		SuperClass:         superClass,
		Interfaces:         interfaces,
		Annotations:        annotations,
		AccessModifiers:    classModifiers(accessFlags),
		Fields:             fields,
		Methods:            methods,
	}
	for i := range c.Methods {
		c.Methods[i].Category = categorize(&c.Methods[i])
	}
	return c, nil
}

func extractFields(r *reader, cp *constPool) ([]metadata.Field, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("field count: %w", err)
	}

	fields := make([]metadata.Field, 0, count)
	for i := uint16(0); i < count; i++ {
		flags, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("field %d flags: %w", i, err)
		}
		nameIndex, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("field %d name index: %w", i, err)
		}
		name, err := cp.utf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("field %d name: %w", i, err)
		}
		descIndex, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("field %q descriptor index: %w", name, err)
		}
		desc, err := cp.utf8(descIndex)
		if err != nil {
			return nil, fmt.Errorf("field %q descriptor: %w", name, err)
		}
		typeName, consumed, err := parseFieldDescriptor(desc)
		if err != nil || consumed != len(desc) {
			return nil, fmt.Errorf("field %q has malformed descriptor %q", name, desc)
		}

		attrs, err := parseAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("field %q attributes: %w", name, err)
		}
		annotations, err := memberAnnotations(attrs, cp)
		if err != nil {
			return nil, fmt.Errorf("field %q annotations: %w", name, err)
		}

		fields = append(fields, metadata.Field{
			Name:            name,
			Type:            typeName,
			AccessModifiers: fieldModifiers(flags),
			Annotations:     annotations,
			Static:          flags&accStatic != 0,
			Final:           flags&accFinal != 0,
		})
	}
	return fields, nil
}

func extractMethods(r *reader, cp *constPool) ([]metadata.Method, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("method count: %w", err)
	}

	methods := make([]metadata.Method, 0, count)
	for i := uint16(0); i < count; i++ {
		flags, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("method %d flags: %w", i, err)
		}
		nameIndex, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("method %d name index: %w", i, err)
		}
		name, err := cp.utf8(nameIndex)
		if err != nil {
			return nil, fmt.Errorf("method %d name: %w", i, err)
		}
		descIndex, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("method %q descriptor index: %w", name, err)
		}
		desc, err := cp.utf8(descIndex)
		if err != nil {
			return nil, fmt.Errorf("method %q descriptor: %w", name, err)
		}
		paramTypes, returnType, err := parseMethodDescriptor(desc)
		if err != nil {
			return nil, fmt.Errorf("method %q: %w", name, err)
		}

		attrs, err := parseAttributes(r, cp)
		if err != nil {
			return nil, fmt.Errorf("method %q attributes: %w", name, err)
		}
		annotations, err := memberAnnotations(attrs, cp)
		if err != nil {
			return nil, fmt.Errorf("method %q annotations: %w", name, err)
		}

		var code *codeInfo
		if data, ok := findAttribute(attrs, attrCode); ok {
			code, err = parseCode(data, cp)
			if err != nil {
				return nil, fmt.Errorf("method %q code: %w", name, err)
			}
		}

		var declaredNames []string
		if data, ok := findAttribute(attrs, attrMethodParameters); ok {
			declaredNames, err = parseMethodParameterNames(data, cp)
			if err != nil {
				return nil, fmt.Errorf("method %q parameters: %w", name, err)
			}
		}

		isStatic := flags&accStatic != 0
		method := metadata.Method{
			Name:            name,
			ReturnType:      returnType,
			Parameters:      buildParameters(paramTypes, declaredNames, code, isStatic),
			AccessModifiers: methodModifiers(flags),
			Annotations:     annotations,
			Static:          isStatic,
		}
		if code != nil {
			method.Invocations = code.calls
		}
		methods = append(methods, method)
	}
	return methods, nil
}

// buildParameters resolves parameter names with decreasing confidence:
// MethodParameters attribute, then the LocalVariableTable slots, then a
// synthetic argN fallback.
func buildParameters(types []string, declaredNames []string, code *codeInfo, isStatic bool) []metadata.Parameter {
	params := make([]metadata.Parameter, 0, len(types))

	slot := 0
	if !isStatic {
		slot = 1 // slot 0 is the receiver
	}
	for i, typeName := range types {
		name := ""
		if i < len(declaredNames) {
			name = declaredNames[i]
		}
		if name == "" && code != nil {
			name = code.slotNames[slot]
		}
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		params = append(params, metadata.Parameter{Name: name, Type: typeName, Index: i})
		slot += slotWidth(typeName)
	}
	return params
}

func memberAnnotations(attrs []attribute, cp *constPool) ([]string, error) {
	var names []string
	for _, attrName := range []string{attrRuntimeVisibleAnnotations, attrRuntimeInvisibleAnnotations} {
		if data, ok := findAttribute(attrs, attrName); ok {
			parsed, err := parseAnnotations(data, cp)
			if err != nil {
				return nil, err
			}
			names = append(names, parsed...)
		}
	}
	return names, nil
}

func classKind(flags uint16, attrs []attribute) metadata.ClassKind {
	switch {
	case flags&accAnnotation != 0:
		return metadata.KindAnnotation
	case flags&accInterface != 0:
		return metadata.KindInterface
	case flags&accEnum != 0:
		return metadata.KindEnum
	default:
		if _, ok := findAttribute(attrs, attrRecord); ok {
			return metadata.KindRecord
		}
		return metadata.KindClass
	}
}

func splitClassName(fqn string) (pkg, simple string) {
	idx := strings.LastIndex(fqn, ".")
	if idx < 0 {
		return "", fqn
	}
	return fqn[:idx], fqn[idx+1:]
}

func classModifiers(flags uint16) []string {
	var mods []string
	if flags&accPublic != 0 {
		mods = append(mods, "public")
	}
	if flags&accFinal != 0 {
		mods = append(mods, "final")
	}
	if flags&accAbstract != 0 && flags&accInterface == 0 {
		mods = append(mods, "abstract")
	}
	return mods
}

func fieldModifiers(flags uint16) []string {
	mods := visibilityModifiers(flags)
	if flags&accStatic != 0 {
		mods = append(mods, "static")
	}
	if flags&accFinal != 0 {
		mods = append(mods, "final")
	}
	if flags&accVolatile != 0 {
		mods = append(mods, "volatile")
	}
	if flags&accTransient != 0 {
		mods = append(mods, "transient")
	}
	return mods
}

func methodModifiers(flags uint16) []string {
	mods := visibilityModifiers(flags)
	if flags&accStatic != 0 {
		mods = append(mods, "static")
	}
	if flags&accFinal != 0 {
		mods = append(mods, "final")
	}
	if flags&accAbstract != 0 {
		mods = append(mods, "abstract")
	}
	if flags&accSynchronized != 0 {
		mods = append(mods, "synchronized")
	}
	if flags&accNative != 0 {
		mods = append(mods, "native")
	}
	return mods
}

func visibilityModifiers(flags uint16) []string {
	switch {
	case flags&accPublic != 0:
		return []string{"public"}
	case flags&accProtected != 0:
		return []string{"protected"}
	case flags&accPrivate != 0:
		return []string{"private"}
	default:
		return nil
	}
}
