package cell

import (
	"encoding/binary"
	"hash/crc32"
	"math/bits"
)

var bocMagic = []byte{0xB5, 0xEE, 0x9C, 0x72}

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// ToBOC serializes the cell tree as a bag of cells with crc32c.
func (c *Cell) ToBOC() []byte {
	return c.ToBOCWithFlags(true)
}

// ToBOCWithFlags serializes a single root bag of cells without index and cache bits.
func (c *Cell) ToBOCWithFlags(withCRC bool) []byte {
	// go through cells, build hash index and store unique in order
	orderCells, index := flattenIndex([]*Cell{c})

	refSizeBytes := bytesFor(uint64(len(orderCells)))

	var payload []byte
	for _, item := range orderCells {
		payload = append(payload, item.cell.serialize(index, refSizeBytes)...)
	}

	sizeBytes := bytesFor(uint64(len(payload)))

	// has_idx 1bit, hash_crc32 1bit, has_cache_bits 1bit, flags 2bit, size_bytes 3 bit
	flags := byte(0b0_0_0_00_000)
	if withCRC {
		flags |= 0b0_1_0_00_000
	}
	flags |= byte(refSizeBytes)

	var data []byte

	data = append(data, bocMagic...)
	data = append(data, flags)

	// bytes needed to store size
	data = append(data, byte(sizeBytes))

	// cells num
	data = append(data, dynamicIntBytes(uint64(len(orderCells)), refSizeBytes)...)

	// roots num
	data = append(data, dynamicIntBytes(1, refSizeBytes)...)

	// complete BOCs, no absent cells
	data = append(data, dynamicIntBytes(0, refSizeBytes)...)

	// len of data
	data = append(data, dynamicIntBytes(uint64(len(payload)), sizeBytes)...)

	// root should have index 0
	data = append(data, dynamicIntBytes(0, refSizeBytes)...)
	data = append(data, payload...)

	if withCRC {
		data = binary.LittleEndian.AppendUint32(data, crc32.Checksum(data, crcTable))
	}

	return data
}

func (c *Cell) serialize(index map[string]*idxItem, refSizeBytes int) []byte {
	data := append(c.descriptors(), c.paddedData()...)

	for _, ref := range c.refs {
		data = append(data, dynamicIntBytes(index[string(ref.Hash())].index, refSizeBytes)...)
	}

	return data
}

// bytesFor returns how many bytes are needed to store val, at least 1.
func bytesFor(val uint64) int {
	n := (bits.Len64(val) + 7) / 8
	if n == 0 {
		return 1
	}
	return n
}

func dynamicIntBytes(val uint64, sz int) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, val)

	return data[8-sz:]
}
