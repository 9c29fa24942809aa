package cell

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	MaxBits = 1023
	MaxRefs = 4
)

var (
	ErrTooBigValue             = errors.New("too big value")
	ErrNegative                = errors.New("value should be non negative")
	ErrTooBigSize              = errors.New("too big size")
	ErrSmallSlice              = errors.New("too small slice for this size")
	ErrTooMuchRefs             = errors.New("too much refs")
	ErrNotFit1023              = errors.New("cell data size should fit into 1023 bits")
	ErrNoMoreRefs              = errors.New("no more refs exists")
	ErrRefCannotBeNil          = errors.New("ref cannot be nil")
	ErrNotEnoughData           = errors.New("not enough data in cell")
	ErrAddressTypeNotSupported = errors.New("address type is not supported")
)

// Cell is an immutable bit string of up to 1023 bits with up to 4 references.
type Cell struct {
	bitsSz uint
	data   []byte

	refs []*Cell

	hash  []byte
	depth uint16
}

func (c *Cell) BeginParse() *Slice {
	return &Slice{
		bitsSz: c.bitsSz,
		data:   append([]byte{}, c.data...),
		refs:   append([]*Cell{}, c.refs...),
	}
}

func (c *Cell) ToBuilder() *Builder {
	return &Builder{
		bitsSz: c.bitsSz,
		data:   append([]byte{}, c.data...),
		refs:   append([]*Cell{}, c.refs...),
	}
}

func (c *Cell) BitsSize() uint {
	return c.bitsSz
}

func (c *Cell) RefsNum() int {
	return len(c.refs)
}

func (c *Cell) PeekRef(i int) (*Cell, error) {
	if i < 0 || i >= len(c.refs) {
		return nil, ErrNoMoreRefs
	}
	return c.refs[i], nil
}

func (c *Cell) Dump() string {
	return c.dump(0, false)
}

func (c *Cell) DumpBits() string {
	return c.dump(0, true)
}

func (c *Cell) dump(deep int, bin bool) string {
	var val string
	if bin {
		var sb strings.Builder
		for _, n := range c.data {
			sb.WriteString(fmt.Sprintf("%08b", n))
		}
		val = sb.String()[:c.bitsSz]
	} else {
		val = hex.EncodeToString(c.data)
	}

	str := strings.Repeat("  ", deep) + fmt.Sprint(c.bitsSz) + "[" + val + "]"
	if len(c.refs) > 0 {
		str += " -> {"
		for i, ref := range c.refs {
			str += "\n" + ref.dump(deep+1, bin)
			if i == len(c.refs)-1 {
				str += "\n"
			} else {
				str += ","
			}
		}
		str += strings.Repeat("  ", deep)
		return str + "}"
	}
	return str
}

// Hash is the representation hash of the cell.
func (c *Cell) Hash() []byte {
	if c.hash == nil {
		c.calculateHashes()
	}
	return append([]byte{}, c.hash...)
}

// Depth is the length of the longest path to a leaf.
func (c *Cell) Depth() uint16 {
	if c.hash == nil {
		c.calculateHashes()
	}
	return c.depth
}

// calculateHashes fills hash and depth, refs must already have them.
func (c *Cell) calculateHashes() {
	data := append(c.descriptors(), c.paddedData()...)

	var depth uint16
	for _, ref := range c.refs {
		d := ref.Depth()
		data = binary.BigEndian.AppendUint16(data, d)
		if d+1 > depth {
			depth = d + 1
		}
	}
	for _, ref := range c.refs {
		data = append(data, ref.hash...)
	}

	hash := sha256.Sum256(data)
	c.hash = hash[:]
	c.depth = depth
}

func (c *Cell) descriptors() []byte {
	ceilBytes := c.bitsSz / 8
	if c.bitsSz%8 != 0 {
		ceilBytes++
	}

	// refs num, ordinary cell of level 0
	d1 := byte(len(c.refs))
	d2 := byte(ceilBytes + c.bitsSz/8)

	return []byte{d1, d2}
}

// paddedData appends completion tag when data is not byte aligned.
func (c *Cell) paddedData() []byte {
	payload := append([]byte{}, c.data...)

	if unused := 8 - (c.bitsSz % 8); unused != 8 {
		payload[len(payload)-1] |= 1 << (unused - 1)
	}
	return payload
}
