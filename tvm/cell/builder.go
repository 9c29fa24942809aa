package cell

import (
	"encoding/binary"
	"math/big"

	"github.com/tonbot-team/tonkit/address"
)

type Builder struct {
	bitsSz uint
	data   []byte

	refs []*Cell
}

func BeginCell() *Builder {
	return &Builder{}
}

func (b *Builder) EndCell() *Cell {
	c := &Cell{
		bitsSz: b.bitsSz,
		data:   append([]byte{}, b.data...),
		refs:   append([]*Cell{}, b.refs...),
	}
	c.calculateHashes()
	return c
}

func (b *Builder) MustStoreCoins(value uint64) *Builder {
	err := b.StoreCoins(value)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreCoins(value uint64) error {
	return b.StoreBigCoins(new(big.Int).SetUint64(value))
}

func (b *Builder) MustStoreBigCoins(value *big.Int) *Builder {
	err := b.StoreBigCoins(value)
	if err != nil {
		panic(err)
	}
	return b
}

// StoreBigCoins stores value as VarUInteger 16: 4 bits of byte length, then the
// minimal big endian bytes of the value.
func (b *Builder) StoreBigCoins(value *big.Int) error {
	if value.Sign() < 0 {
		return ErrNegative
	}

	ln := uint((value.BitLen() + 7) >> 3)
	if ln >= 16 {
		return ErrTooBigValue
	}

	if b.bitsSz+4+ln*8 > MaxBits {
		return ErrNotFit1023
	}

	b.MustStoreUInt(uint64(ln), 4)
	return b.StoreBigUInt(value, ln*8)
}

func (b *Builder) MustStoreUInt(value uint64, sz uint) *Builder {
	err := b.StoreUInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreUInt(value uint64, sz uint) error {
	if sz > 64 {
		return b.StoreBigUInt(new(big.Int).SetUint64(value), sz)
	}

	if sz < 64 && value>>sz != 0 {
		return ErrTooBigValue
	}
	if sz == 0 {
		return nil
	}

	value <<= 64 - sz
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value)

	return b.StoreSlice(buf, sz)
}

func (b *Builder) MustStoreInt(value int64, sz uint) *Builder {
	err := b.StoreInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

// StoreInt stores value in two's complement form of sz bits.
func (b *Builder) StoreInt(value int64, sz uint) error {
	if sz == 0 || sz > 64 {
		return ErrTooBigSize
	}

	if sz < 64 {
		limit := int64(1) << (sz - 1)
		if value < -limit || value >= limit {
			return ErrTooBigValue
		}
		return b.StoreUInt(uint64(value)&(1<<sz-1), sz)
	}
	return b.StoreUInt(uint64(value), sz)
}

func (b *Builder) MustStoreBoolBit(value bool) *Builder {
	err := b.StoreBoolBit(value)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBoolBit(value bool) error {
	var i uint64
	if value {
		i = 1
	}
	return b.StoreUInt(i, 1)
}

func (b *Builder) MustStoreBigUInt(value *big.Int, sz uint) *Builder {
	err := b.StoreBigUInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBigUInt(value *big.Int, sz uint) error {
	if value.Sign() == -1 {
		return ErrNegative
	}

	if sz > 256 {
		return ErrTooBigSize
	}

	if uint(value.BitLen()) > sz {
		return ErrTooBigValue
	}

	if sz == 0 {
		return nil
	}

	ln := (sz + 7) / 8
	// move value to the left side of bytes to fit into size
	aligned := new(big.Int).Lsh(value, ln*8-sz)

	return b.StoreSlice(aligned.FillBytes(make([]byte, ln)), sz)
}

func (b *Builder) MustStoreAddr(addr *address.Address) *Builder {
	err := b.StoreAddr(addr)
	if err != nil {
		panic(err)
	}
	return b
}

// StoreAddr stores addr as MsgAddressInt std, nil is stored as addr_none.
func (b *Builder) StoreAddr(addr *address.Address) error {
	if addr == nil {
		if b.bitsSz+2 > MaxBits {
			return ErrNotFit1023
		}
		return b.StoreUInt(0, 2)
	}

	if b.bitsSz+2+1+8+256 > MaxBits {
		return ErrNotFit1023
	}

	// addr std, no anycast
	b.MustStoreUInt(0b10, 2)
	b.MustStoreBoolBit(false)

	if err := b.StoreInt(int64(addr.Workchain()), 8); err != nil {
		return err
	}
	return b.StoreSlice(addr.Data(), 256)
}

func (b *Builder) MustStoreStringSnake(str string) *Builder {
	err := b.StoreStringSnake(str)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) MustStoreBinarySnake(data []byte) *Builder {
	err := b.StoreBinarySnake(data)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreStringSnake(str string) error {
	return b.StoreBinarySnake([]byte(str))
}

// StoreBinarySnake stores data into this builder, continuing in a chain of
// refs with 127 bytes each when it does not fit.
func (b *Builder) StoreBinarySnake(data []byte) error {
	var f func(space int) (*Builder, error)
	f = func(space int) (*Builder, error) {
		if len(data) < space {
			space = len(data)
		}

		c := BeginCell()
		err := c.StoreSlice(data, uint(space)*8)
		if err != nil {
			return nil, err
		}

		data = data[space:]

		if len(data) > 0 {
			ref, err := f(127)
			if err != nil {
				return nil, err
			}

			err = c.StoreRef(ref.EndCell())
			if err != nil {
				return nil, err
			}
		}

		return c, nil
	}

	snake, err := f(int(b.BitsLeft() / 8))
	if err != nil {
		return err
	}

	return b.StoreBuilder(snake)
}

func (b *Builder) MustStoreMaybeRef(ref *Cell) *Builder {
	err := b.StoreMaybeRef(ref)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreMaybeRef(ref *Cell) error {
	if ref == nil {
		return b.StoreUInt(0, 1)
	}

	// early checks to do 2 stores atomically
	if len(b.refs) >= MaxRefs {
		return ErrTooMuchRefs
	}
	if b.bitsSz+1 > MaxBits {
		return ErrNotFit1023
	}

	b.MustStoreUInt(1, 1).MustStoreRef(ref)
	return nil
}

func (b *Builder) MustStoreRef(ref *Cell) *Builder {
	err := b.StoreRef(ref)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreRef(ref *Cell) error {
	if len(b.refs) >= MaxRefs {
		return ErrTooMuchRefs
	}

	if ref == nil {
		return ErrRefCannotBeNil
	}

	b.refs = append(b.refs, ref)

	return nil
}

func (b *Builder) MustStoreSlice(bytes []byte, sz uint) *Builder {
	err := b.StoreSlice(bytes, sz)
	if err != nil {
		panic(err)
	}
	return b
}

// StoreSlice stores first sz bits of bytes.
func (b *Builder) StoreSlice(bytes []byte, sz uint) error {
	if sz == 0 {
		return nil
	}

	if uint(len(bytes)) < (sz+7)/8 {
		return ErrSmallSlice
	}

	if b.bitsSz+sz > MaxBits {
		return ErrNotFit1023
	}

	leftSz := sz
	unusedBits := 8 - (b.bitsSz % 8)

	offset := 0
	for leftSz > 0 {
		bits := uint(8)
		if leftSz < 8 {
			bits = leftSz
		}
		leftSz -= bits

		// clear unused part of byte
		v := bytes[offset] & (0xFF << (8 - bits))
		offset++

		// if previous byte was not filled, we need to move bits to fill it
		if unusedBits != 8 {
			b.data[len(b.data)-1] |= v >> (8 - unusedBits)
			if bits > unusedBits {
				b.data = append(b.data, v<<unusedBits)
			}
			continue
		}

		b.data = append(b.data, v)
	}

	b.bitsSz += sz

	return nil
}

func (b *Builder) MustStoreBuilder(builder *Builder) *Builder {
	err := b.StoreBuilder(builder)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBuilder(builder *Builder) error {
	if len(b.refs)+len(builder.refs) > MaxRefs {
		return ErrTooMuchRefs
	}

	if b.bitsSz+builder.bitsSz > MaxBits {
		return ErrNotFit1023
	}

	b.MustStoreSlice(builder.data, builder.bitsSz)
	b.refs = append(b.refs, builder.refs...)

	return nil
}

func (b *Builder) RefsUsed() int {
	return len(b.refs)
}

func (b *Builder) BitsUsed() uint {
	return b.bitsSz
}

func (b *Builder) BitsLeft() uint {
	return MaxBits - b.bitsSz
}

func (b *Builder) RefsLeft() uint {
	return MaxRefs - uint(len(b.refs))
}

func (b *Builder) Copy() *Builder {
	return &Builder{
		bitsSz: b.bitsSz,
		data:   append([]byte{}, b.data...),
		refs:   append([]*Cell{}, b.refs...),
	}
}
