// Package sfntcodec provides typed big-endian read/write access to the
// sfnt scalar types used throughout the font container codec: u8, i8,
// u16, i16, u24, u32, i32, u64, i64, Tag (4 ASCII bytes), Fixed
// (16.16), F2Dot14, and LongDateTime (seconds since 1904-01-01).
package sfntcodec

import "fmt"

// Tag is a 4-byte table/feature tag, e.g. "head", "OS/2", "cvt ".
type Tag [4]byte

func MakeTag(s string) Tag {
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string { return string(t[:]) }

// Fixed is a 16.16 fixed-point number.
type Fixed int32

func (f Fixed) Float64() float64 { return float64(f) / 65536.0 }

func FixedFromFloat64(v float64) Fixed { return Fixed(v * 65536.0) }

// F2Dot14 is a 2.14 fixed-point number.
type F2Dot14 int16

func (f F2Dot14) Float64() float64 { return float64(f) / 16384.0 }

// LongDateTime is seconds since 1904-01-01 00:00:00 UTC (the sfnt/Mac
// epoch).
type LongDateTime int64

const macEpochOffsetSeconds = 2082844800 // 1904-01-01 -> 1970-01-01

// UnixSeconds converts to a Unix timestamp.
func (d LongDateTime) UnixSeconds() int64 { return int64(d) - macEpochOffsetSeconds }

func LongDateTimeFromUnixSeconds(unix int64) LongDateTime {
	return LongDateTime(unix + macEpochOffsetSeconds)
}

// ErrOutOfBounds is returned by Reader accessors when a read would
// exceed the buffer.
type ErrOutOfBounds struct {
	Op     string
	Offset int
	Need   int
	Len    int
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("sfntcodec: %s out of bounds at offset %d (need %d bytes, have %d)",
		e.Op, e.Offset, e.Need, e.Len)
}
