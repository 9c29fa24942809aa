package cell

import (
	"fmt"
	"math/big"

	"github.com/tonbot-team/tonkit/address"
)

// Slice reads a cell sequentially.
type Slice struct {
	bitsSz   uint
	loadedSz uint
	data     []byte

	refs []*Cell
}

func (c *Slice) MustLoadRef() *Slice {
	r, err := c.LoadRef()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadRef() (*Slice, error) {
	ref, err := c.LoadRefCell()
	if err != nil {
		return nil, err
	}
	return ref.BeginParse(), nil
}

func (c *Slice) LoadRefCell() (*Cell, error) {
	if len(c.refs) == 0 {
		return nil, ErrNoMoreRefs
	}
	ref := c.refs[0]
	c.refs = c.refs[1:]

	return ref, nil
}

// LoadMaybeRef returns nil slice when the maybe bit is 0.
func (c *Slice) LoadMaybeRef() (*Slice, error) {
	has, err := c.LoadBoolBit()
	if err != nil {
		return nil, err
	}

	if !has {
		return nil, nil
	}
	return c.LoadRef()
}

func (c *Slice) RefsNum() int {
	return len(c.refs)
}

func (c *Slice) MustLoadCoins() uint64 {
	r, err := c.LoadCoins()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadCoins() (uint64, error) {
	value, err := c.LoadBigCoins()
	if err != nil {
		return 0, err
	}
	if !value.IsUint64() {
		return 0, ErrTooBigValue
	}
	return value.Uint64(), nil
}

func (c *Slice) MustLoadBigCoins() *big.Int {
	r, err := c.LoadBigCoins()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadBigCoins() (*big.Int, error) {
	ln, err := c.LoadUInt(4)
	if err != nil {
		return nil, err
	}

	return c.LoadBigUInt(uint(ln * 8))
}

func (c *Slice) MustLoadUInt(sz uint) uint64 {
	res, err := c.LoadUInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadUInt(sz uint) (uint64, error) {
	if sz > 64 {
		return 0, ErrTooBigSize
	}

	res, err := c.LoadBigUInt(sz)
	if err != nil {
		return 0, err
	}
	return res.Uint64(), nil
}

func (c *Slice) MustLoadInt(sz uint) int64 {
	res, err := c.LoadInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadInt(sz uint) (int64, error) {
	if sz == 0 || sz > 64 {
		return 0, ErrTooBigSize
	}

	u, err := c.LoadUInt(sz)
	if err != nil {
		return 0, err
	}

	// sign extend from sz bits
	shift := 64 - sz
	return int64(u<<shift) >> shift, nil
}

func (c *Slice) MustLoadBoolBit() bool {
	r, err := c.LoadBoolBit()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadBoolBit() (bool, error) {
	res, err := c.LoadUInt(1)
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (c *Slice) MustLoadBigUInt(sz uint) *big.Int {
	res, err := c.LoadBigUInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadBigUInt(sz uint) (*big.Int, error) {
	if sz > 256 {
		return nil, ErrTooBigSize
	}

	b, err := c.LoadSlice(sz)
	if err != nil {
		return nil, err
	}

	// bits are on the left side of bytes
	v := new(big.Int).SetBytes(b)
	return v.Rsh(v, uint(len(b))*8-sz), nil
}

func (c *Slice) MustLoadSlice(sz uint) []byte {
	s, err := c.LoadSlice(sz)
	if err != nil {
		panic(err)
	}
	return s
}

// LoadSlice returns next sz bits aligned to the left of the returned bytes.
func (c *Slice) LoadSlice(sz uint) ([]byte, error) {
	if c.BitsLeft() < sz {
		return nil, fmt.Errorf("%w: need %d bits, has %d", ErrNotEnoughData, sz, c.BitsLeft())
	}

	res := make([]byte, (sz+7)/8)

	pos := c.loadedSz
	if pos%8 == 0 {
		copy(res, c.data[pos/8:])
		if tail := sz % 8; tail != 0 {
			res[len(res)-1] &= 0xFF << (8 - tail)
		}
	} else {
		for i := uint(0); i < sz; i++ {
			bit := (c.data[(pos+i)/8] >> (7 - (pos+i)%8)) & 1
			res[i/8] |= bit << (7 - i%8)
		}
	}

	c.loadedSz += sz
	return res, nil
}

func (c *Slice) MustLoadAddr() *address.Address {
	a, err := c.LoadAddr()
	if err != nil {
		panic(err)
	}
	return a
}

// LoadAddr loads MsgAddressInt std, nil address is returned for addr_none.
func (c *Slice) LoadAddr() (*address.Address, error) {
	typ, err := c.LoadUInt(2)
	if err != nil {
		return nil, err
	}

	switch typ {
	case 0b00:
		return nil, nil
	case 0b10:
		anycast, err := c.LoadBoolBit()
		if err != nil {
			return nil, fmt.Errorf("failed to load anycast bit: %w", err)
		}
		if anycast {
			return nil, fmt.Errorf("%w: anycast", ErrAddressTypeNotSupported)
		}

		wc, err := c.LoadInt(8)
		if err != nil {
			return nil, fmt.Errorf("failed to load workchain: %w", err)
		}

		data, err := c.LoadSlice(256)
		if err != nil {
			return nil, fmt.Errorf("failed to load address data: %w", err)
		}

		// std address in a message is bounceable by default
		return address.NewAddress(0x11, int32(wc), data)
	}

	return nil, fmt.Errorf("%w: type %02b", ErrAddressTypeNotSupported, typ)
}

func (c *Slice) MustLoadStringSnake() string {
	s, err := c.LoadStringSnake()
	if err != nil {
		panic(err)
	}
	return s
}

func (c *Slice) LoadStringSnake() (string, error) {
	a, err := c.LoadBinarySnake()
	if err != nil {
		return "", err
	}
	return string(a), nil
}

// LoadBinarySnake reads remaining whole bytes of this slice and of its ref chain.
func (c *Slice) LoadBinarySnake() ([]byte, error) {
	var data []byte

	ref := c
	for ref != nil {
		b, err := ref.LoadSlice(ref.BitsLeft() / 8 * 8)
		if err != nil {
			return nil, err
		}
		data = append(data, b...)

		if ref.RefsNum() > 1 {
			return nil, fmt.Errorf("more than one ref, it is not snake string")
		}

		if ref.RefsNum() == 1 {
			ref = ref.MustLoadRef()
			continue
		}
		ref = nil
	}

	return data, nil
}

func (c *Slice) BitsLeft() uint {
	return c.bitsSz - c.loadedSz
}

func (c *Slice) RestBits() (uint, []byte, error) {
	left := c.BitsLeft()
	data, err := c.LoadSlice(left)
	return left, data, err
}
