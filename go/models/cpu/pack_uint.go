package cpu

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

func checkUintSize(size int) error {
	switch size {
	case 1, 2, 4, 8:
		return nil
	}
	return errors.Errorf("unsupported uint size: %d", size)
}

// PackUint appends the size-byte encoding of n to buf.
func PackUint(order binary.ByteOrder, size int, buf []byte, n uint64) ([]byte, error) {
	if err := checkUintSize(size); err != nil {
		return nil, err
	}
	var tmp [8]byte
	order.PutUint64(tmp[:], n)
	if order == binary.BigEndian {
		return append(buf, tmp[8-size:]...), nil
	}
	return append(buf, tmp[:size]...), nil
}

// UnpackUint decodes the first size bytes of buf.
func UnpackUint(order binary.ByteOrder, size int, buf []byte) (uint64, error) {
	if err := checkUintSize(size); err != nil {
		return 0, err
	}
	if len(buf) < size {
		return 0, errors.Errorf("buffer too small (%d < %d)", len(buf), size)
	}
	var tmp [8]byte
	if order == binary.BigEndian {
		copy(tmp[8-size:], buf[:size])
	} else {
		copy(tmp[:], buf[:size])
	}
	return order.Uint64(tmp[:]), nil
}
