package cell

import (
	"encoding/binary"
	"fmt"
)

type cellBytesReader struct {
	data []byte
}

func errNotEnoughBytes(has, need int) error {
	return fmt.Errorf("not enough data in reader, need %d, has %d", need, has)
}

func newReader(data []byte) *cellBytesReader {
	return &cellBytesReader{
		data: data,
	}
}

func (r *cellBytesReader) ReadBytes(num int) ([]byte, error) {
	if num < 0 || len(r.data) < num {
		return nil, errNotEnoughBytes(len(r.data), num)
	}

	ret := r.data[:num]
	r.data = r.data[num:]
	return ret, nil
}

func (r *cellBytesReader) ReadByte() (byte, error) {
	if len(r.data) < 1 {
		return 0, errNotEnoughBytes(len(r.data), 1)
	}

	ret := r.data[0]
	r.data = r.data[1:]
	return ret, nil
}

// ReadUInt reads big endian unsigned int of sz bytes.
func (r *cellBytesReader) ReadUInt(sz int) (uint64, error) {
	if sz > 8 {
		return 0, fmt.Errorf("too big int size %d", sz)
	}

	b, err := r.ReadBytes(sz)
	if err != nil {
		return 0, err
	}

	tmp := make([]byte, 8)
	copy(tmp[8-len(b):], b)

	return binary.BigEndian.Uint64(tmp), nil
}

func (r *cellBytesReader) LeftLen() int {
	return len(r.data)
}
