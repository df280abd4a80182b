package emulator

import "fmt"

// Register names used by the debugger and diagnostic panics.
var registerNames = []string{
	"r0", "at", "v0", "v1", "a0", "a1", "a2", "a3", // 00
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", // 08
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", // 10
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra", // 18
}

func registerName(index uint32) string {
	return registerNames[index]
}

func panicFmt(format string, a ...interface{}) {
	panic(fmt.Sprintf(format, a...))
}

func oneIfTrue(val bool) uint32 {
	if val {
		return 1
	}
	return 0
}

func oneIfTrue8(val bool) uint8 {
	if val {
		return 1
	}
	return 0
}

// AccessSize is the width in bytes of a bus transaction.
type AccessSize uint32

const (
	AccessByte     AccessSize = 1
	AccessHalfword AccessSize = 2
	AccessWord     AccessSize = 4
)

// accessSizeFromU32 narrows a raw 32-bit load result down to the width the
// bus transaction asked for, boxed as the matching Go type so callers can
// type-assert on AccessSize the way the MIPS LB/LH/LW family demands.
func accessSizeFromU32(size AccessSize, raw uint32) interface{} {
	switch size {
	case AccessByte:
		return byte(raw)
	case AccessHalfword:
		return uint16(raw)
	default:
		return raw
	}
}

func accessSizeFromU16(size AccessSize, raw uint16) interface{} {
	switch size {
	case AccessByte:
		return byte(raw)
	default:
		return raw
	}
}

func accessSizeToU32(size AccessSize, val interface{}) uint32 {
	switch size {
	case AccessByte:
		return uint32(val.(byte))
	case AccessHalfword:
		return uint32(val.(uint16))
	default:
		return val.(uint32)
	}
}

func accessSizeToU16(size AccessSize, val interface{}) uint16 {
	switch size {
	case AccessByte:
		return uint16(val.(byte))
	case AccessHalfword:
		return val.(uint16)
	default:
		return uint16(val.(uint32))
	}
}

func accessSizeToU8(size AccessSize, val interface{}) uint8 {
	switch size {
	case AccessByte:
		return val.(byte)
	case AccessHalfword:
		return uint8(val.(uint16))
	default:
		return uint8(val.(uint32))
	}
}

func countLeadingZeroesU16(val uint16) uint16 {
	var r uint16
	for (val&0x8000) == 0 && r < 16 {
		val <<= 1
		r++
	}
	return r
}

func countLeadingZeroesU32(x uint32) uint32 {
	var n uint32 = 32
	y := x >> 16
	if y != 0 {
		n -= 16
		x = y
	}
	y = x >> 8
	if y != 0 {
		n -= 8
		x = y
	}
	y = x >> 4
	if y != 0 {
		n -= 4
		x = y
	}
	y = x >> 2
	if y != 0 {
		n -= 2
		x = y
	}
	y = x >> 1
	if y != 0 {
		return n - 2
	}
	return n - x
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt64(x, y int64) int64 {
	if x > y {
		return x
	}
	return y
}

func minInt64(x, y int64) int64 {
	if x < y {
		return x
	}
	return y
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func signExtend11(v uint32) int32 {
	return int32(v<<21) >> 21
}
