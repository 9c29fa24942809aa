package cell

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestCell_ToBOC(t *testing.T) {
	tests := []struct {
		name string
		cell *Cell
		want string
	}{
		{"empty", BeginCell().EndCell(), "b5ee9c724101010100020000004cacb9cd"},
		{"uint32", BeginCell().MustStoreUInt(0x12345678, 32).EndCell(), "b5ee9c7241010101000600000812345678aedac804"},
		{"3 bits", BeginCell().MustStoreUInt(0b101, 3).EndCell(), "b5ee9c72410101010003000001b083bd2ec7"},
		{"same refs", BeginCell().MustStoreUInt(1, 8).
			MustStoreRef(BeginCell().MustStoreUInt(2, 8).EndCell()).
			MustStoreRef(BeginCell().MustStoreUInt(2, 8).EndCell()).
			EndCell(), "b5ee9c724101020100080002020101010002021fe811d9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hex.EncodeToString(tt.cell.ToBOC()); got != tt.want {
				t.Errorf("ToBOC() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCell_ToBOCWithFlags(t *testing.T) {
	c := BeginCell().MustStoreUInt(0x12345678, 32).EndCell()

	boc := c.ToBOCWithFlags(false)
	if hex.EncodeToString(boc) != "b5ee9c7201010101000600000812345678" {
		t.Fatal("boc without crc incorrect, its:", hex.EncodeToString(boc))
	}

	parsed, err := FromBOC(boc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parsed.Hash(), c.Hash()) {
		t.Fatal("hash diff")
	}
}

func TestFromBOC_RoundTrip(t *testing.T) {
	shared := BeginCell().MustStoreUInt(0xDEAD, 16).EndCell()
	deep := BeginCell().MustStoreRef(shared).MustStoreUInt(1, 5).EndCell()

	cells := []*Cell{
		BeginCell().EndCell(),
		BeginCell().MustStoreSlice(data1024, 1023).EndCell(),
		BeginCell().MustStoreBinarySnake(make([]byte, 700)).EndCell(),
		BeginCell().MustStoreRef(shared).MustStoreRef(deep).MustStoreRef(shared).EndCell(),
		BeginCell().MustStoreRef(deep).MustStoreRef(shared).MustStoreBoolBit(true).EndCell(),
	}

	for i, c := range cells {
		parsed, err := FromBOC(c.ToBOC())
		if err != nil {
			t.Fatal(i, err)
		}

		if !bytes.Equal(parsed.Hash(), c.Hash()) {
			t.Fatal("hash diff for cell", i)
		}

		if parsed.Dump() != c.Dump() {
			t.Fatal("dump diff for cell", i)
		}
	}
}

func TestFromBOC_Errors(t *testing.T) {
	good := BeginCell().MustStoreUInt(0x12345678, 32).EndCell().ToBOC()

	badMagic := append([]byte{}, good...)
	badMagic[0] = 0xAA

	badCRC := append([]byte{}, good...)
	badCRC[len(badCRC)-1] ^= 0xFF

	badData := append([]byte{}, good...)
	badData[12] ^= 0xFF

	tests := []struct {
		name string
		data []byte
	}{
		{"short", good[:8]},
		{"magic", badMagic},
		{"crc", badCRC},
		{"data", badData},
		{"truncated", append(append([]byte{}, good[:13]...), good[len(good)-4:]...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromBOC(tt.data); !errors.Is(err, ErrInvalidBOC) {
				t.Errorf("FromBOC() error = %v, want %v", err, ErrInvalidBOC)
			}
		})
	}

	// child referencing its parent
	loop, _ := hex.DecodeString("b5ee9c72010102010008000102010101020200")
	if _, err := FromBOC(loop); !errors.Is(err, ErrInvalidBOC) {
		t.Fatalf("backward reference accepted: %v", err)
	}
}

func TestFromBOC_BadHeader(t *testing.T) {
	tests := []struct {
		name string
		hex  string
	}{
		{"huge cells count", "b5ee9c720401" + "7fffffff" + "00000001" + "00000000" + "02" + "00000000" + "0000"},
		{"huge cells count small size", "b5ee9c720101" + "ff" + "01" + "00" + "04" + "00" + "00000000"},
		{"roots more than cells", "b5ee9c720101" + "01" + "02" + "00" + "02" + "00" + "00" + "0000"},
		{"no roots", "b5ee9c720101" + "01" + "00" + "00" + "02" + "00" + "0000"},
		{"root index out of range", "b5ee9c720101" + "01" + "01" + "00" + "02" + "03" + "0000"},
		{"cells size exceeds data", "b5ee9c720101" + "01" + "01" + "00" + "ff" + "00" + "0000"},
		{"ref index out of range", "b5ee9c720101" + "01" + "01" + "00" + "03" + "00" + "010005"},
		{"no completion tag", "b5ee9c720101" + "01" + "01" + "00" + "03" + "00" + "000100"},
		{"special cell", "b5ee9c720101" + "01" + "01" + "00" + "02" + "00" + "0800"},
		{"ref size 0", "b5ee9c720001" + "01" + "01" + "00" + "02" + "00" + "0000"},
		{"offset size 0", "b5ee9c720100" + "01" + "01" + "00" + "02" + "00" + "0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := hex.DecodeString(tt.hex)
			if err != nil {
				t.Fatal(err)
			}
			if _, err = FromBOC(data); !errors.Is(err, ErrInvalidBOC) {
				t.Errorf("FromBOC() error = %v, want %v", err, ErrInvalidBOC)
			}
		})
	}

	// same layout with a valid header parses
	ok, _ := hex.DecodeString("b5ee9c720101" + "01" + "01" + "00" + "02" + "00" + "0000")
	c, err := FromBOC(ok)
	if err != nil {
		t.Fatal(err)
	}
	if c.BitsSize() != 0 || c.RefsNum() != 0 {
		t.Fatalf("unexpected cell: %s", c.Dump())
	}
}
