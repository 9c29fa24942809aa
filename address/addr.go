package address

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sigurn/crc16"
)

const (
	friendlyLen   = 48
	friendlyBytes = 36
	hashLen       = 32
)

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Logger is called on unexpected conditions, set it to log.Println to see them.
var Logger = func(v ...any) {}

type Address struct {
	flags     flags
	workchain int32
	data      []byte

	userFriendly bool
	urlSafe      bool
}

// FormatOptions controls how Format renders an address.
type FormatOptions struct {
	UserFriendly bool
	URLSafe      bool
	Bounceable   bool
	TestOnly     bool
}

func NewAddress(flags byte, workchain int32, data []byte) (*Address, error) {
	f, ok := parseFlags(flags)
	if !ok {
		return nil, ErrUnknownTag
	}
	if workchain != 0 && workchain != -1 {
		return nil, ErrInvalidWorkchain
	}
	if len(data) != hashLen {
		return nil, ErrInvalidHashLength
	}

	return &Address{
		flags:        f,
		workchain:    workchain,
		data:         append([]byte{}, data...),
		userFriendly: true,
		urlSafe:      true,
	}, nil
}

func MustParseAddr(addr string) *Address {
	a, err := ParseAddr(addr)
	if err != nil {
		panic(err)
	}
	return a
}

func MustParseRawAddr(addr string) *Address {
	a, err := ParseRawAddr(addr)
	if err != nil {
		panic(err)
	}
	return a
}

// IsValid reports whether addr is accepted by ParseAddr.
func IsValid(addr string) bool {
	_, err := ParseAddr(addr)
	if err == nil {
		return true
	}

	var fe *FormatError
	if !errors.As(err, &fe) {
		Logger("unexpected address parse error:", err)
	}
	return false
}

// ParseAddr accepts both raw (workchain:hex) and user-friendly forms.
func ParseAddr(addr string) (*Address, error) {
	if strings.Contains(addr, ":") {
		return ParseRawAddr(addr)
	}
	return parseFriendlyAddr(addr)
}

func ParseRawAddr(addr string) (*Address, error) {
	parts := strings.Split(addr, ":")
	if len(parts) != 2 {
		return nil, formatErr(addr, ErrInvalidRawFormat)
	}

	var wc int32
	switch parts[0] {
	case "0":
	case "-1":
		wc = -1
	default:
		return nil, formatErr(addr, ErrInvalidWorkchain)
	}

	if len(parts[1]) != hashLen*2 {
		return nil, formatErr(addr, ErrInvalidHashLength)
	}

	data, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, formatErr(addr, fmt.Errorf("%w: %s", ErrInvalidHex, err.Error()))
	}

	return &Address{
		workchain: wc,
		data:      data,
	}, nil
}

func parseFriendlyAddr(addr string) (*Address, error) {
	if len(addr) != friendlyLen {
		return nil, formatErr(addr, ErrInvalidLength)
	}

	urlSafe := strings.ContainsAny(addr, "-_")
	std := addr
	if urlSafe {
		std = strings.NewReplacer("-", "+", "_", "/").Replace(addr)
	}

	buf, err := base64.StdEncoding.DecodeString(std)
	if err != nil || len(buf) != friendlyBytes {
		return nil, formatErr(addr, ErrInvalidByteLength)
	}

	data, sum := buf[:34], buf[34:]
	if crc16.Checksum(data, crcTable) != binary.BigEndian.Uint16(sum) {
		return nil, formatErr(addr, ErrChecksumMismatch)
	}

	f, ok := parseFlags(data[0])
	if !ok {
		return nil, formatErr(addr, ErrUnknownTag)
	}

	wc := int32(data[1])
	if data[1] == 0xFF {
		wc = -1
	}
	if wc != 0 && wc != -1 {
		return nil, formatErr(addr, fmt.Errorf("%w %d", ErrInvalidWorkchain, wc))
	}

	return &Address{
		flags:        f,
		workchain:    wc,
		data:         append([]byte{}, data[2:]...),
		userFriendly: true,
		urlSafe:      urlSafe,
	}, nil
}

// FormatOptions returns the presentation the address was parsed with.
func (a *Address) FormatOptions() FormatOptions {
	return FormatOptions{
		UserFriendly: a.userFriendly,
		URLSafe:      a.urlSafe,
		Bounceable:   a.flags.bounceable,
		TestOnly:     a.flags.testnet,
	}
}

func (a *Address) Format(opts FormatOptions) string {
	if !opts.UserFriendly {
		return strconv.FormatInt(int64(a.workchain), 10) + ":" + hex.EncodeToString(a.data)
	}

	f := flags{bounceable: opts.Bounceable, testnet: opts.TestOnly}

	buf := make([]byte, friendlyBytes)
	copy(buf, a.prepareChecksumData(f))
	binary.BigEndian.PutUint16(buf[34:], crc16.Checksum(buf[:34], crcTable))

	if opts.URLSafe {
		return base64.URLEncoding.EncodeToString(buf)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func (a *Address) String() string {
	return a.Format(a.FormatOptions())
}

func (a *Address) StringRaw() string {
	return a.Format(FormatOptions{})
}

func (a *Address) Dump() string {
	return fmt.Sprintf("human-readable address: %s isBounceable: %t, isTestnetOnly: %t, data.len: %d",
		a.String(), a.IsBounceable(), a.IsTestnetOnly(), len(a.data))
}

// Checksum of the address in its stored flags.
func (a *Address) Checksum() uint16 {
	return crc16.Checksum(a.prepareChecksumData(a.flags), crcTable)
}

func (a *Address) prepareChecksumData(f flags) []byte {
	buf := make([]byte, 0, 34)
	buf = append(buf, f.toByte(), byte(int8(a.workchain)))
	return append(buf, a.data...)
}

func (a *Address) FlagsToByte() byte {
	return a.flags.toByte()
}

func (a *Address) IsBounceable() bool {
	return a.flags.bounceable
}

func (a *Address) IsTestnetOnly() bool {
	return a.flags.testnet
}

func (a *Address) IsUserFriendly() bool {
	return a.userFriendly
}

func (a *Address) IsURLSafe() bool {
	return a.urlSafe
}

func (a *Address) Workchain() int32 {
	return a.workchain
}

// Data returns a copy of the 32 byte hash part.
func (a *Address) Data() []byte {
	return append([]byte{}, a.data...)
}

// Equals compares account identity, presentation flags are ignored.
func (a *Address) Equals(b *Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.workchain == b.workchain && string(a.data) == string(b.data)
}

func (a *Address) Copy() *Address {
	cp := *a
	cp.data = append([]byte{}, a.data...)
	return &cp
}

func (a *Address) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Address) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("failed to unquote address: %w", err)
	}

	addr, err := ParseAddr(s)
	if err != nil {
		return err
	}

	*a = *addr
	return nil
}
