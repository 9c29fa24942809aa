package tlb

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/tonbot-team/tonkit/tvm/cell"
)

var (
	ErrInvalidDecimal = errors.New("invalid decimal amount")
	ErrTooBigCoins    = errors.New("too big number for coins")
	ErrNegativeCoins  = errors.New("coins should be non negative")
)

// Coins is a non negative amount in the smallest units of a token with the given decimals.
type Coins struct {
	decimals int
	val      *big.Int
}

var ZeroCoins = MustFromTON("0")

func (g Coins) String() string {
	if g.val == nil {
		return "0"
	}

	a := g.val.String()
	if a == "0" {
		return a
	}

	if g.decimals <= 0 {
		return a
	}

	splitter := len(a) - g.decimals
	if splitter <= 0 {
		a = "0." + strings.Repeat("0", g.decimals-len(a)) + a
	} else {
		// set . between lo and hi
		a = a[:splitter] + "." + a[splitter:]
	}

	a = strings.TrimRight(a, "0")
	return strings.TrimSuffix(a, ".")
}

// Nano returns amount in the smallest units.
func (g Coins) Nano() *big.Int {
	if g.val == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(g.val)
}

func (g Coins) Decimals() int {
	return g.decimals
}

func (g Coins) IsZero() bool {
	return g.val == nil || g.val.Sign() == 0
}

func MustFromDecimal(val string, decimals int) Coins {
	v, err := FromDecimal(val, decimals)
	if err != nil {
		panic(err)
	}
	return v
}

func MustFromTON(val string) Coins {
	v, err := FromTON(val)
	if err != nil {
		panic(err)
	}
	return v
}

func MustFromNano(val *big.Int, decimals int) Coins {
	v, err := FromNano(val, decimals)
	if err != nil {
		panic(err)
	}
	return v
}

func FromNano(val *big.Int, decimals int) (Coins, error) {
	if val == nil || val.Sign() < 0 {
		return Coins{}, ErrNegativeCoins
	}
	if uint((val.BitLen()+7)>>3) >= 16 {
		return Coins{}, ErrTooBigCoins
	}

	return Coins{
		decimals: decimals,
		val:      new(big.Int).Set(val),
	}, nil
}

func FromNanoTONU(val uint64) Coins {
	return Coins{
		decimals: 9,
		val:      new(big.Int).SetUint64(val),
	}
}

// FromTON parses amount of native coins, 1 TON is 10^9 nano.
func FromTON(val string) (Coins, error) {
	return FromDecimal(val, 9)
}

// FromDecimal converts human readable amount like "1.23" to the smallest units,
// fraction digits beyond decimals are truncated.
func FromDecimal(val string, decimals int) (Coins, error) {
	if decimals < 0 || decimals >= 128 {
		return Coins{}, fmt.Errorf("invalid decimals %d", decimals)
	}

	hi, lo, hasDot := strings.Cut(val, ".")
	if !isDigits(hi) || (hasDot && !isDigits(lo)) {
		return Coins{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, val)
	}

	// lo can have max {decimals} digits
	if len(lo) > decimals {
		lo = lo[:decimals]
	}
	lo += strings.Repeat("0", decimals-len(lo))

	amt, ok := new(big.Int).SetString(hi+lo, 10)
	if !ok {
		return Coins{}, fmt.Errorf("%w: %q", ErrInvalidDecimal, val)
	}

	if uint((amt.BitLen()+7)>>3) >= 16 {
		return Coins{}, ErrTooBigCoins
	}

	return Coins{
		decimals: decimals,
		val:      amt,
	}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// LoadFromCell reads VarUInteger 16 amount, decimals are set to 9.
func (g *Coins) LoadFromCell(loader *cell.Slice) error {
	coins, err := loader.LoadBigCoins()
	if err != nil {
		return err
	}
	g.decimals = 9
	g.val = coins
	return nil
}

func (g Coins) ToCell() (*cell.Cell, error) {
	c := cell.BeginCell()
	if err := c.StoreBigCoins(g.Nano()); err != nil {
		return nil, err
	}
	return c.EndCell(), nil
}

func (g Coins) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(g.Nano().String())), nil
}

// UnmarshalJSON accepts quoted amount in the smallest units, decimals are set to 9.
func (g *Coins) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("failed to unquote coins: %w", err)
	}

	if !isDigits(str) {
		return fmt.Errorf("%w: %q", ErrInvalidDecimal, str)
	}

	v, ok := new(big.Int).SetString(str, 10)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDecimal, str)
	}

	c, err := FromNano(v, 9)
	if err != nil {
		return err
	}
	*g = c
	return nil
}
