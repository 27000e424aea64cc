package classfile

import (
	"encoding/binary"
	"fmt"

	"classlens/internal/errors"
)

const (
	// Magic is the fixed marker every class record starts with.
	Magic uint32 = 0xCAFEBABE

	// headerLen covers magic (4) + minor (2) + major (2).
	headerLen = 8

	// Major version 44 corresponds to the (hypothetical) Java 0; the
	// platform release is always major-44.
	majorVersionBase = 44
)

// Header is the minimal structural descriptor read from the fixed-size
// record prefix.
type Header struct {
	Minor uint16
	Major uint16
}

// Validate reports whether data looks like a class record: the magic marker
// is present and the minor/major version fields exist. It never errors and
// does not require the deeper structure to decode.
func Validate(data []byte) bool {
	if len(data) < headerLen {
		return false
	}
	return binary.BigEndian.Uint32(data[:4]) == Magic
}

// ParseHeader decodes the fixed-size prefix. A stream shorter than the
// header or carrying the wrong magic fails with a PARSING_ERROR.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerLen {
		return Header{}, errors.Newf(errors.CodeParsing, "record too short: %d bytes, header needs %d", len(data), headerLen)
	}
	if binary.BigEndian.Uint32(data[:4]) != Magic {
		return Header{}, errors.Newf(errors.CodeParsing, "bad magic 0x%08X", binary.BigEndian.Uint32(data[:4]))
	}
	return Header{
		Minor: binary.BigEndian.Uint16(data[4:6]),
		Major: binary.BigEndian.Uint16(data[6:8]),
	}, nil
}

var knownVersions = map[int]string{
	45: "Platform 1.1",
	46: "Platform 1.2",
	47: "Platform 1.3",
	48: "Platform 1.4",
	49: "Platform 5",
	50: "Platform 6",
	51: "Platform 7",
	52: "Platform 8",
	53: "Platform 9",
	54: "Platform 10",
	55: "Platform 11",
	56: "Platform 12",
	57: "Platform 13",
	58: "Platform 14",
	59: "Platform 15",
	60: "Platform 16",
	61: "Platform 17",
	62: "Platform 18",
	63: "Platform 19",
	64: "Platform 20",
	65: "Platform 21",
}

// FormatVersion maps a major class-file version to a platform label.
// Unknown majors get a generic label instead of failing.
func FormatVersion(major int) string {
	if label, ok := knownVersions[major]; ok {
		return label
	}
	return fmt.Sprintf("Platform %d", major-majorVersionBase)
}
