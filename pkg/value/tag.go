package value

// Bit layout of a packed (non-float) Value.
//
// A Value is a raw uint64. If the top 13 bits match the quiet-NaN-with-sign
// pattern below, the next 3 bits are a type tag and the low 48 bits are the
// payload; any other bit pattern is an ordinary IEEE-754 double.
const (
	packedMask  uint64 = 0xFFF8_0000_0000_0000
	payloadMask uint64 = 0x0000_FFFF_FFFF_FFFF
	tagBitsMask uint64 = 0x0007_0000_0000_0000

	// safeNaNBits is the canonical quiet NaN every NaN float is rewritten to
	// on ingress, so no float ever collides with a packed tag pattern.
	safeNaNBits uint64 = 0x7FF8_0000_0000_0000
)

// tag identifies what kind of inline value is packed into a Value's low 51
// bits, once we know it's not a float.
type tag uint64

const (
	tagUnit     tag = 0x0000_0000_0000_0000
	tagBool     tag = 0x0001_0000_0000_0000
	tagChar     tag = 0x0002_0000_0000_0000
	tagNat      tag = 0x0003_0000_0000_0000
	tagInt      tag = 0x0004_0000_0000_0000
	tagReserved0 tag = 0x0005_0000_0000_0000
	tagReserved1 tag = 0x0006_0000_0000_0000
	tagObject   tag = 0x0007_0000_0000_0000
)

func isPacked(bits uint64) bool {
	return bits&packedMask == packedMask
}

func tagOf(bits uint64) tag {
	return tag(bits & tagBitsMask)
}

func payloadOf(bits uint64) uint64 {
	return bits & payloadMask
}
