package classfile

import (
	"fmt"
	"strings"
)

// Constant pool tags from the class file format.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type constEntry struct {
	tag uint8

	// tagUtf8
	str string

	// index operands; meaning depends on tag:
	// Class/String/MethodType/Module/Package use ref1 only,
	// member refs use ref1 (class) + ref2 (name-and-type),
	// NameAndType uses ref1 (name) + ref2 (descriptor).
	ref1 uint16
	ref2 uint16
}

// constPool is the decoded constant pool, 1-indexed like the format itself.
// Long and double entries occupy two slots; the second slot stays nil.
type constPool struct {
	entries []*constEntry
}

func parseConstPool(r *reader) (*constPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("constant pool count: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("constant pool count must be at least 1")
	}

	cp := &constPool{entries: make([]*constEntry, count)}
	for i := uint16(1); i < count; i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, fmt.Errorf("constant pool entry %d tag: %w", i, err)
		}

		entry := &constEntry{tag: tag}
		switch tag {
		case tagUtf8:
			length, err := r.u2()
			if err != nil {
				return nil, fmt.Errorf("utf8 entry %d length: %w", i, err)
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return nil, fmt.Errorf("utf8 entry %d data: %w", i, err)
			}
			// Modified UTF-8 differs from standard UTF-8 only for NUL and
			// supplementary characters, neither of which occurs in the
			// identifiers and descriptors this analyzer reads.
			entry.str = string(raw)
		case tagInteger, tagFloat:
			if err := r.skip(4); err != nil {
				return nil, fmt.Errorf("numeric entry %d: %w", i, err)
			}
		case tagLong, tagDouble:
			if err := r.skip(8); err != nil {
				return nil, fmt.Errorf("wide numeric entry %d: %w", i, err)
			}
			cp.entries[i] = entry
			i++ // second slot is unusable by definition
			continue
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			ref, err := r.u2()
			if err != nil {
				return nil, fmt.Errorf("ref entry %d: %w", i, err)
			}
			entry.ref1 = ref
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			ref1, err := r.u2()
			if err != nil {
				return nil, fmt.Errorf("pair entry %d: %w", i, err)
			}
			ref2, err := r.u2()
			if err != nil {
				return nil, fmt.Errorf("pair entry %d: %w", i, err)
			}
			entry.ref1 = ref1
			entry.ref2 = ref2
		case tagMethodHandle:
			if err := r.skip(3); err != nil {
				return nil, fmt.Errorf("method handle entry %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at entry %d", tag, i)
		}
		cp.entries[i] = entry
	}
	return cp, nil
}

func (cp *constPool) entry(index uint16) (*constEntry, error) {
	if index == 0 || int(index) >= len(cp.entries) || cp.entries[index] == nil {
		return nil, fmt.Errorf("constant pool index %d out of range", index)
	}
	return cp.entries[index], nil
}

// utf8 resolves a Utf8 entry.
func (cp *constPool) utf8(index uint16) (string, error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	if e.tag != tagUtf8 {
		return "", fmt.Errorf("constant pool index %d is tag %d, expected utf8", index, e.tag)
	}
	return e.str, nil
}

// className resolves a Class entry to a dotted fully-qualified name.
// Array descriptors appearing as class entries keep their element name.
func (cp *constPool) className(index uint16) (string, error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", err
	}
	if e.tag != tagClass {
		return "", fmt.Errorf("constant pool index %d is tag %d, expected class", index, e.tag)
	}
	internal, err := cp.utf8(e.ref1)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(internal, "[") {
		name, _, err := parseFieldDescriptor(internal)
		if err != nil {
			return "", err
		}
		return name, nil
	}
	return dottedName(internal), nil
}

// methodRef resolves a Methodref/InterfaceMethodref entry to the owner
// class name and method name.
func (cp *constPool) methodRef(index uint16) (owner, name string, err error) {
	e, err := cp.entry(index)
	if err != nil {
		return "", "", err
	}
	if e.tag != tagMethodref && e.tag != tagInterfaceMethodref {
		return "", "", fmt.Errorf("constant pool index %d is tag %d, expected method ref", index, e.tag)
	}
	owner, err = cp.className(e.ref1)
	if err != nil {
		return "", "", err
	}
	nat, err := cp.entry(e.ref2)
	if err != nil {
		return "", "", err
	}
	if nat.tag != tagNameAndType {
		return "", "", fmt.Errorf("constant pool index %d is tag %d, expected name-and-type", e.ref2, nat.tag)
	}
	name, err = cp.utf8(nat.ref1)
	if err != nil {
		return "", "", err
	}
	return owner, name, nil
}

// dottedName converts the internal slash form to source form.
func dottedName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}
