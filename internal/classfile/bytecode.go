package classfile

import (
	"fmt"
	"sort"

	"classlens/internal/metadata"
)

const (
	opIinc            = 0x84
	opTableswitch     = 0xaa
	opLookupswitch    = 0xab
	opInvokevirtual   = 0xb6
	opInvokespecial   = 0xb7
	opInvokestatic    = 0xb8
	opInvokeinterface = 0xb9
	opInvokedynamic   = 0xba
	opWide            = 0xc4
)

// operandBytes holds the fixed operand size per opcode; -1 marks the
// variable-length switch instructions and wide, -2 marks gaps in the
// instruction set.
var operandBytes = buildOperandTable()

func buildOperandTable() [256]int {
	var t [256]int
	for i := range t {
		t[i] = -2
	}

	set := func(lo, hi int, n int) {
		for op := lo; op <= hi; op++ {
			t[op] = n
		}
	}

	set(0x00, 0x0f, 0) // nop, consts
	t[0x10] = 1        // bipush
	t[0x11] = 2        // sipush
	t[0x12] = 1        // ldc
	t[0x13] = 2        // ldc_w
	t[0x14] = 2        // ldc2_w
	set(0x15, 0x19, 1) // loads with index
	set(0x1a, 0x35, 0) // load_<n>, array loads
	set(0x36, 0x3a, 1) // stores with index
	set(0x3b, 0x56, 0) // store_<n>, array stores
	set(0x57, 0x5f, 0) // stack ops
	set(0x60, 0x83, 0) // arithmetic, logic
	t[opIinc] = 2
	set(0x85, 0x98, 0)            // conversions, comparisons
	set(0x99, 0xa8, 2)            // branches, goto, jsr
	t[0xa9] = 1                   // ret
	t[opTableswitch] = -1
	t[opLookupswitch] = -1
	set(0xac, 0xb1, 0)            // returns
	set(0xb2, 0xb8, 2)            // field access, invokevirtual/special/static
	t[opInvokeinterface] = 4
	t[opInvokedynamic] = 4
	t[0xbb] = 2 // new
	t[0xbc] = 1 // newarray
	t[0xbd] = 2 // anewarray
	set(0xbe, 0xbf, 0)
	t[0xc0] = 2 // checkcast
	t[0xc1] = 2 // instanceof
	set(0xc2, 0xc3, 0)
	t[opWide] = -1
	t[0xc5] = 3 // multianewarray
	t[0xc6] = 2 // ifnull
	t[0xc7] = 2 // ifnonnull
	t[0xc8] = 4 // goto_w
	t[0xc9] = 4 // jsr_w
	return t
}

// codeInfo carries everything the extractor needs out of one Code attribute.
type codeInfo struct {
	calls     []metadata.Call
	slotNames map[int]string // local-variable slot -> declared name
}

// parseCode walks a Code attribute: it scans the bytecode stream for invoke
// instructions, then resolves source lines from the LineNumberTable and
// parameter names from the LocalVariableTable when present.
func parseCode(data []byte, cp *constPool) (*codeInfo, error) {
	r := newReader(data)
	if err := r.skip(4); err != nil { // max_stack, max_locals
		return nil, fmt.Errorf("code preamble: %w", err)
	}
	codeLen, err := r.u4()
	if err != nil {
		return nil, fmt.Errorf("code length: %w", err)
	}
	code, err := r.bytes(int(codeLen))
	if err != nil {
		return nil, fmt.Errorf("code body: %w", err)
	}

	sites, err := scanInvocations(code, cp)
	if err != nil {
		return nil, err
	}

	exceptionCount, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("exception table count: %w", err)
	}
	if err := r.skip(int(exceptionCount) * 8); err != nil {
		return nil, fmt.Errorf("exception table: %w", err)
	}

	attrs, err := parseAttributes(r, cp)
	if err != nil {
		return nil, fmt.Errorf("code attributes: %w", err)
	}

	info := &codeInfo{slotNames: make(map[int]string)}

	var lines lineTable
	if data, ok := findAttribute(attrs, attrLineNumberTable); ok {
		lines, err = parseLineNumberTable(data)
		if err != nil {
			return nil, err
		}
	}
	for _, site := range sites {
		info.calls = append(info.calls, metadata.Call{
			Owner:  site.owner,
			Method: site.method,
			Line:   lines.lineFor(site.pc),
		})
	}

	if data, ok := findAttribute(attrs, attrLocalVariableTable); ok {
		if err := parseLocalVariableNames(data, cp, info.slotNames); err != nil {
			return nil, err
		}
	}
	return info, nil
}

type invocationSite struct {
	pc     int
	owner  string
	method string
}

// scanInvocations walks the instruction stream collecting invoke sites.
// invokedynamic sites are skipped: their call target is a bootstrap method,
// not a named class member.
func scanInvocations(code []byte, cp *constPool) ([]invocationSite, error) {
	var sites []invocationSite

	pc := 0
	for pc < len(code) {
		op := code[pc]
		switch op {
		case opInvokevirtual, opInvokespecial, opInvokestatic, opInvokeinterface:
			if pc+2 >= len(code) {
				return nil, fmt.Errorf("truncated invoke at pc %d", pc)
			}
			index := uint16(code[pc+1])<<8 | uint16(code[pc+2])
			owner, method, err := cp.methodRef(index)
			if err != nil {
				return nil, fmt.Errorf("invoke at pc %d: %w", pc, err)
			}
			sites = append(sites, invocationSite{pc: pc, owner: owner, method: method})
		}

		width, err := instructionWidth(code, pc)
		if err != nil {
			return nil, err
		}
		pc += width
	}
	return sites, nil
}

func instructionWidth(code []byte, pc int) (int, error) {
	op := code[pc]
	switch op {
	case opWide:
		if pc+1 >= len(code) {
			return 0, fmt.Errorf("truncated wide at pc %d", pc)
		}
		if code[pc+1] == opIinc {
			return 6, nil
		}
		return 4, nil
	case opTableswitch:
		// 0-3 alignment pad, then default + low + high, then jump table.
		base := pc + 1 + padTo4(pc+1)
		if base+12 > len(code) {
			return 0, fmt.Errorf("truncated tableswitch at pc %d", pc)
		}
		low := int32(be32(code[base+4:]))
		high := int32(be32(code[base+8:]))
		if high < low {
			return 0, fmt.Errorf("tableswitch at pc %d has high %d < low %d", pc, high, low)
		}
		return base + 12 + int(high-low+1)*4 - pc, nil
	case opLookupswitch:
		base := pc + 1 + padTo4(pc+1)
		if base+8 > len(code) {
			return 0, fmt.Errorf("truncated lookupswitch at pc %d", pc)
		}
		npairs := int32(be32(code[base+4:]))
		if npairs < 0 {
			return 0, fmt.Errorf("lookupswitch at pc %d has negative pair count", pc)
		}
		return base + 8 + int(npairs)*8 - pc, nil
	}

	operands := operandBytes[op]
	if operands < 0 {
		return 0, fmt.Errorf("unknown opcode 0x%02x at pc %d", op, pc)
	}
	return 1 + operands, nil
}

func padTo4(offset int) int {
	return (4 - offset%4) % 4
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// lineTable maps bytecode offsets to source lines. Entries are kept sorted
// by start pc; a lookup picks the greatest start at or below the pc.
type lineTable []lineEntry

type lineEntry struct {
	startPC uint16
	line    uint16
}

func parseLineNumberTable(data []byte) (lineTable, error) {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return nil, fmt.Errorf("line table count: %w", err)
	}
	table := make(lineTable, 0, count)
	for i := uint16(0); i < count; i++ {
		startPC, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("line entry %d: %w", i, err)
		}
		line, err := r.u2()
		if err != nil {
			return nil, fmt.Errorf("line entry %d: %w", i, err)
		}
		table = append(table, lineEntry{startPC: startPC, line: line})
	}
	sort.Slice(table, func(i, j int) bool { return table[i].startPC < table[j].startPC })
	return table, nil
}

// lineFor returns the source line covering pc, 0 when no line data exists.
func (t lineTable) lineFor(pc int) int {
	line := 0
	for _, e := range t {
		if int(e.startPC) > pc {
			break
		}
		line = int(e.line)
	}
	return line
}

// parseLocalVariableNames records slot -> name for variables that start at
// pc 0, which covers method parameters.
func parseLocalVariableNames(data []byte, cp *constPool, slots map[int]string) error {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return fmt.Errorf("local variable count: %w", err)
	}
	for i := uint16(0); i < count; i++ {
		startPC, err := r.u2()
		if err != nil {
			return fmt.Errorf("local variable %d: %w", i, err)
		}
		if err := r.skip(2); err != nil { // length
			return err
		}
		nameIndex, err := r.u2()
		if err != nil {
			return fmt.Errorf("local variable %d name index: %w", i, err)
		}
		if err := r.skip(2); err != nil { // descriptor index
			return err
		}
		slot, err := r.u2()
		if err != nil {
			return fmt.Errorf("local variable %d slot: %w", i, err)
		}
		if startPC != 0 {
			continue
		}
		name, err := cp.utf8(nameIndex)
		if err != nil {
			return fmt.Errorf("local variable %d name: %w", i, err)
		}
		slots[int(slot)] = name
	}
	return nil
}
