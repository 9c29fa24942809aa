package cell

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math/bits"
)

var ErrInvalidBOC = errors.New("invalid boc")

// FromBOC parses a bag of cells and returns its first root.
func FromBOC(data []byte) (*Cell, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("%w: too short", ErrInvalidBOC)
	}

	r := newReader(data)

	magic, _ := r.ReadBytes(4)
	if !bytes.Equal(magic, bocMagic) {
		return nil, fmt.Errorf("%w: invalid magic header", ErrInvalidBOC)
	}

	flags, _ := r.ReadByte()
	hasIndex := flags&0b1000_0000 != 0
	hasCRC := flags&0b0100_0000 != 0
	hasCacheBits := flags&0b0010_0000 != 0
	refSizeBytes := int(flags & 0b111)

	if refSizeBytes == 0 || refSizeBytes > 4 {
		return nil, fmt.Errorf("%w: ref size %d", ErrInvalidBOC, refSizeBytes)
	}
	if hasCacheBits && !hasIndex {
		return nil, fmt.Errorf("%w: cache bits without index", ErrInvalidBOC)
	}

	sizeBytes, _ := r.ReadByte()
	if sizeBytes == 0 || sizeBytes > 8 {
		return nil, fmt.Errorf("%w: offset size %d", ErrInvalidBOC, sizeBytes)
	}

	if hasCRC {
		body := data[:len(data)-4]
		if binary.LittleEndian.Uint32(data[len(data)-4:]) != crc32.Checksum(body, crcTable) {
			return nil, fmt.Errorf("%w: checksum not matches", ErrInvalidBOC)
		}
		r = newReader(body[6:])
	}

	var header [4]uint64
	for i, sz := range []int{refSizeBytes, refSizeBytes, refSizeBytes, int(sizeBytes)} {
		v, err := r.ReadUInt(sz)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read header: %v", ErrInvalidBOC, err)
		}
		header[i] = v
	}
	cellsNum, rootsNum, dataLen := header[0], header[1], header[3]

	if rootsNum == 0 || rootsNum > cellsNum {
		return nil, fmt.Errorf("%w: roots num %d of %d cells", ErrInvalidBOC, rootsNum, cellsNum)
	}
	if dataLen > uint64(r.LeftLen()) {
		return nil, fmt.Errorf("%w: cells size %d exceeds boc size %d", ErrInvalidBOC, dataLen, r.LeftLen())
	}
	// every cell takes at least 2 descriptor bytes
	if cellsNum > dataLen/2 {
		return nil, fmt.Errorf("%w: %d cells cannot fit into %d bytes", ErrInvalidBOC, cellsNum, dataLen)
	}

	rootIndex, err := r.ReadUInt(refSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read root index: %v", ErrInvalidBOC, err)
	}
	// other roots are skipped
	if _, err = r.ReadBytes(int(rootsNum-1) * refSizeBytes); err != nil {
		return nil, fmt.Errorf("%w: failed to read roots: %v", ErrInvalidBOC, err)
	}
	if rootIndex >= cellsNum {
		return nil, fmt.Errorf("%w: root index %d out of range", ErrInvalidBOC, rootIndex)
	}

	if hasIndex {
		if _, err = r.ReadBytes(int(cellsNum) * int(sizeBytes)); err != nil {
			return nil, fmt.Errorf("%w: failed to skip index: %v", ErrInvalidBOC, err)
		}
	}

	payload, err := r.ReadBytes(int(dataLen))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read payload, want %d, has %d", ErrInvalidBOC, dataLen, r.LeftLen())
	}

	cells, err := parseCells(int(cellsNum), refSizeBytes, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse payload: %w", ErrInvalidBOC, err)
	}

	return cells[rootIndex], nil
}

func parseCells(cellsNum, refSizeBytes int, data []byte) ([]*Cell, error) {
	r := newReader(data)

	cells := make([]*Cell, cellsNum)
	for i := range cells {
		cells[i] = &Cell{}
	}

	for i := 0; i < cellsNum; i++ {
		d1, err := r.ReadByte()
		if err != nil {
			return nil, errors.New("failed to parse cell refs num, corrupted data")
		}

		// refs num + is_special * 8 + with_hashes * 16 + level * 32
		if d1&0b1000 != 0 {
			return nil, fmt.Errorf("cell %d: special cells are not supported", i)
		}
		if d1&0b10000 != 0 {
			return nil, fmt.Errorf("cell %d: stored hashes are not supported", i)
		}

		refsNum := int(d1 & 0b111)
		if refsNum > MaxRefs {
			return nil, fmt.Errorf("cell %d: %w", i, ErrTooMuchRefs)
		}

		d2, err := r.ReadByte()
		if err != nil {
			return nil, errors.New("failed to parse cell length, corrupted data")
		}

		// round to 1 byte, len in octets
		payload, err := r.ReadBytes(int(d2/2 + d2%2))
		if err != nil {
			return nil, errors.New("failed to parse cell payload, corrupted data")
		}
		payload = append([]byte{}, payload...)

		bitsSz := uint(len(payload)) * 8
		if d2%2 != 0 {
			last := payload[len(payload)-1]
			if last == 0 {
				return nil, fmt.Errorf("cell %d: no completion tag", i)
			}

			// drop completion tag
			tz := uint(bits.TrailingZeros8(last))
			payload[len(payload)-1] = last &^ (1 << tz)
			bitsSz -= tz + 1
		}

		refs := make([]*Cell, refsNum)
		for y := range refs {
			id, err := r.ReadUInt(refSizeBytes)
			if err != nil {
				return nil, errors.New("failed to parse cell references, corrupted data")
			}
			if int(id) <= i || int(id) >= cellsNum {
				return nil, fmt.Errorf("cell %d: bad reference index %d", i, id)
			}
			refs[y] = cells[id]
		}

		cells[i].bitsSz = bitsSz
		cells[i].data = payload
		cells[i].refs = refs
	}

	// refs point forward, so children are hashed first
	for i := cellsNum - 1; i >= 0; i-- {
		cells[i].calculateHashes()
	}

	return cells, nil
}
