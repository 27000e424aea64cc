// Package classfiletest synthesizes minimal, well-formed class records for
// tests. Builders emit the real binary layout (constant pool, members,
// attributes) so parser tests exercise the production decode path instead
// of fixtures checked in as opaque blobs.
package classfiletest

import (
	"encoding/binary"
	"strings"
)

// Member access flags, mirroring the class file format.
const (
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
	AccProtected = 0x0004
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccEnum      = 0x4000
)

type buf struct{ b []byte }

func (w *buf) u1(v uint8)     { w.b = append(w.b, v) }
func (w *buf) u2(v uint16)    { w.b = binary.BigEndian.AppendUint16(w.b, v) }
func (w *buf) u4(v uint32)    { w.b = binary.BigEndian.AppendUint32(w.b, v) }
func (w *buf) raw(data []byte) { w.b = append(w.b, data...) }

// constant pool under construction, with dedup per tag+key.
type pool struct {
	entries []poolEntry
	index   map[string]uint16
}

type poolEntry struct {
	tag  uint8
	str  string
	ref1 uint16
	ref2 uint16
}

func newPool() *pool {
	return &pool{index: make(map[string]uint16)}
}

func (p *pool) add(key string, e poolEntry) uint16 {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	p.entries = append(p.entries, e)
	idx := uint16(len(p.entries)) // pool is 1-indexed
	p.index[key] = idx
	return idx
}

func (p *pool) utf8(s string) uint16 {
	return p.add("u:"+s, poolEntry{tag: 1, str: s})
}

func (p *pool) class(dotted string) uint16 {
	internal := strings.ReplaceAll(dotted, ".", "/")
	nameIdx := p.utf8(internal)
	return p.add("c:"+internal, poolEntry{tag: 7, ref1: nameIdx})
}

func (p *pool) nameAndType(name, desc string) uint16 {
	n := p.utf8(name)
	d := p.utf8(desc)
	return p.add("nt:"+name+":"+desc, poolEntry{tag: 12, ref1: n, ref2: d})
}

func (p *pool) methodref(owner, name, desc string) uint16 {
	c := p.class(owner)
	nt := p.nameAndType(name, desc)
	return p.add("mr:"+owner+":"+name+":"+desc, poolEntry{tag: 10, ref1: c, ref2: nt})
}

func (p *pool) write(w *buf) {
	w.u2(uint16(len(p.entries)) + 1)
	for _, e := range p.entries {
		w.u1(e.tag)
		switch e.tag {
		case 1:
			w.u2(uint16(len(e.str)))
			w.raw([]byte(e.str))
		case 7:
			w.u2(e.ref1)
		case 10, 12:
			w.u2(e.ref1)
			w.u2(e.ref2)
		}
	}
}

// TypeDescriptor converts a source-form type name to its descriptor form:
// "java.lang.String[]" -> "[Ljava/lang/String;".
func TypeDescriptor(name string) string {
	dims := 0
	for strings.HasSuffix(name, "[]") {
		dims++
		name = strings.TrimSuffix(name, "[]")
	}

	var desc string
	switch name {
	case "byte":
		desc = "B"
	case "char":
		desc = "C"
	case "double":
		desc = "D"
	case "float":
		desc = "F"
	case "int":
		desc = "I"
	case "long":
		desc = "J"
	case "short":
		desc = "S"
	case "boolean":
		desc = "Z"
	case "void":
		desc = "V"
	default:
		desc = "L" + strings.ReplaceAll(name, ".", "/") + ";"
	}
	return strings.Repeat("[", dims) + desc
}

// MethodDescriptor builds "(<params>)<ret>" from source-form type names.
func MethodDescriptor(ret string, params ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(TypeDescriptor(p))
	}
	b.WriteByte(')')
	b.WriteString(TypeDescriptor(ret))
	return b.String()
}

// ClassBuilder assembles one synthetic class record.
type ClassBuilder struct {
	name        string
	super       string
	interfaces  []string
	flags       uint16
	major       uint16
	annotations []string
	fields      []fieldSpec
	methods     []*MethodBuilder
}

type fieldSpec struct {
	name        string
	typeName    string
	flags       uint16
	annotations []string
}

func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{
		name:  name,
		super: "java.lang.Object",
		flags: AccPublic,
		major: 61,
	}
}

func (b *ClassBuilder) Super(name string) *ClassBuilder {
	b.super = name
	return b
}

func (b *ClassBuilder) Implements(names ...string) *ClassBuilder {
	b.interfaces = append(b.interfaces, names...)
	return b
}

func (b *ClassBuilder) Flags(flags uint16) *ClassBuilder {
	b.flags = flags
	return b
}

func (b *ClassBuilder) Major(major uint16) *ClassBuilder {
	b.major = major
	return b
}

func (b *ClassBuilder) Annotate(fqns ...string) *ClassBuilder {
	b.annotations = append(b.annotations, fqns...)
	return b
}

func (b *ClassBuilder) Field(name, typeName string, flags uint16, annotations ...string) *ClassBuilder {
	b.fields = append(b.fields, fieldSpec{name: name, typeName: typeName, flags: flags, annotations: annotations})
	return b
}

// Method starts a method with source-form return and parameter types.
func (b *ClassBuilder) Method(name, ret string, params ...string) *MethodBuilder {
	m := &MethodBuilder{
		class:  b,
		name:   name,
		desc:   MethodDescriptor(ret, params...),
		flags:  AccPublic,
		params: len(params),
	}
	b.methods = append(b.methods, m)
	return m
}

type MethodBuilder struct {
	class       *ClassBuilder
	name        string
	desc        string
	flags       uint16
	params      int
	annotations []string
	calls       []callSpec
	withCode    bool
}

type callSpec struct {
	owner  string
	method string
	desc   string
	line   int
}

func (m *MethodBuilder) Flags(flags uint16) *MethodBuilder {
	m.flags = flags
	return m
}

func (m *MethodBuilder) Annotate(fqns ...string) *MethodBuilder {
	m.annotations = append(m.annotations, fqns...)
	return m
}

// Call records an invokevirtual site in the generated method body.
func (m *MethodBuilder) Call(owner, method string, line int) *MethodBuilder {
	m.withCode = true
	m.calls = append(m.calls, callSpec{owner: owner, method: method, desc: "()V", line: line})
	return m
}

// WithCode forces an (empty) Code attribute even without calls.
func (m *MethodBuilder) WithCode() *MethodBuilder {
	m.withCode = true
	return m
}

// Done returns to the class builder for chaining.
func (m *MethodBuilder) Done() *ClassBuilder {
	return m.class
}

// Bytes assembles the record.
func (b *ClassBuilder) Bytes() []byte {
	cp := newPool()

	thisIdx := cp.class(b.name)
	superIdx := uint16(0)
	if b.super != "" {
		superIdx = cp.class(b.super)
	}
	ifaceIdxs := make([]uint16, 0, len(b.interfaces))
	for _, name := range b.interfaces {
		ifaceIdxs = append(ifaceIdxs, cp.class(name))
	}

	var body buf
	body.u2(b.flags)
	body.u2(thisIdx)
	body.u2(superIdx)
	body.u2(uint16(len(ifaceIdxs)))
	for _, idx := range ifaceIdxs {
		body.u2(idx)
	}

	body.u2(uint16(len(b.fields)))
	for _, f := range b.fields {
		body.u2(f.flags)
		body.u2(cp.utf8(f.name))
		body.u2(cp.utf8(TypeDescriptor(f.typeName)))
		writeAttributes(&body, cp, memberAttrs(cp, f.annotations, nil))
	}

	body.u2(uint16(len(b.methods)))
	for _, m := range b.methods {
		body.u2(m.flags)
		body.u2(cp.utf8(m.name))
		body.u2(cp.utf8(m.desc))
		writeAttributes(&body, cp, memberAttrs(cp, m.annotations, m.codeAttr(cp)))
	}

	writeAttributes(&body, cp, memberAttrs(cp, b.annotations, nil))

	var out buf
	out.u4(0xCAFEBABE)
	out.u2(0) // minor
	out.u2(b.major)
	cp.write(&out)
	out.raw(body.b)
	return out.b
}

type attrSpec struct {
	nameIdx uint16
	data    []byte
}

func memberAttrs(cp *pool, annotations []string, extra *attrSpec) []attrSpec {
	var attrs []attrSpec
	if len(annotations) > 0 {
		var data buf
		data.u2(uint16(len(annotations)))
		for _, fqn := range annotations {
			data.u2(cp.utf8(TypeDescriptor(fqn)))
			data.u2(0) // no element-value pairs
		}
		attrs = append(attrs, attrSpec{nameIdx: cp.utf8("RuntimeVisibleAnnotations"), data: data.b})
	}
	if extra != nil {
		attrs = append(attrs, *extra)
	}
	return attrs
}

func writeAttributes(w *buf, cp *pool, attrs []attrSpec) {
	w.u2(uint16(len(attrs)))
	for _, a := range attrs {
		w.u2(a.nameIdx)
		w.u4(uint32(len(a.data)))
		w.raw(a.data)
	}
}

// codeAttr generates a Code attribute containing one invokevirtual per
// recorded call followed by a return, plus a LineNumberTable when any call
// carries a line.
func (m *MethodBuilder) codeAttr(cp *pool) *attrSpec {
	if !m.withCode {
		return nil
	}

	var code buf
	type lineMapping struct{ pc, line int }
	var lines []lineMapping
	for _, c := range m.calls {
		if c.line > 0 {
			lines = append(lines, lineMapping{pc: len(code.b), line: c.line})
		}
		code.u1(0xb6) // invokevirtual
		code.u2(cp.methodref(c.owner, c.method, c.desc))
	}
	code.u1(0xb1) // return

	var data buf
	data.u2(8)                    // max_stack
	data.u2(uint16(m.params) + 1) // max_locals
	data.u4(uint32(len(code.b)))
	data.raw(code.b)
	data.u2(0) // exception table

	if len(lines) > 0 {
		var table buf
		table.u2(uint16(len(lines)))
		for _, l := range lines {
			table.u2(uint16(l.pc))
			table.u2(uint16(l.line))
		}
		data.u2(1)
		data.u2(cp.utf8("LineNumberTable"))
		data.u4(uint32(len(table.b)))
		data.raw(table.b)
	} else {
		data.u2(0)
	}

	return &attrSpec{nameIdx: cp.utf8("Code"), data: data.b}
}
