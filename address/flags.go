package address

const (
	tagBounceable    byte = 0x11
	tagNonBounceable byte = 0x51

	// testnet only marker in tag byte
	testnetBit uint = 7
)

type flags struct {
	bounceable bool
	testnet    bool
}

// parseFlags decodes a friendly form tag byte, ok is false for unknown tags.
func parseFlags(tag byte) (f flags, ok bool) {
	if hasBit(tag, testnetBit) {
		f.testnet = true
		clearBit(&tag, testnetBit)
	}

	switch tag {
	case tagBounceable:
		f.bounceable = true
	case tagNonBounceable:
	default:
		return flags{}, false
	}
	return f, true
}

func (f flags) toByte() byte {
	tag := tagNonBounceable
	if f.bounceable {
		tag = tagBounceable
	}
	if f.testnet {
		setBit(&tag, testnetBit)
	}
	return tag
}

func setBit(n *byte, pos uint) {
	*n |= 1 << pos
}

func clearBit(n *byte, pos uint) {
	*n &^= 1 << pos
}

func hasBit(n byte, pos uint) bool {
	return n&(1<<pos) > 0
}
