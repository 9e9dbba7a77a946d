package resfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Write encodes keyword arrays to a file, in order.
func Write(path string, keywords []*Keyword) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	if err := WriteTo(w, keywords); err != nil {
		fh.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// WriteTo encodes keyword arrays to a stream.
func WriteTo(w io.Writer, keywords []*Keyword) error {
	for _, kw := range keywords {
		if err := writeKeyword(w, kw); err != nil {
			return fmt.Errorf("keyword %s: %w", kw.Name, err)
		}
	}
	return nil
}

func writeKeyword(w io.Writer, kw *Keyword) error {
	elemSize, perRecord, err := kw.Type.elemSize()
	if err != nil {
		return err
	}

	head := make([]byte, 16)
	copy(head, fmt.Sprintf("%-8.8s", kw.Name))
	binary.BigEndian.PutUint32(head[8:], uint32(int32(kw.Len())))
	copy(head[12:], fmt.Sprintf("%-4.4s", string(kw.Type)))
	if err := writeRecord(w, head); err != nil {
		return err
	}

	count := kw.Len()
	if kw.Type == TypeMess || count == 0 {
		return nil
	}
	for start := 0; start < count; start += perRecord {
		end := start + perRecord
		if end > count {
			end = count
		}
		payload := make([]byte, 0, (end-start)*elemSize)
		for i := start; i < end; i++ {
			payload = kw.encodeElement(payload, i, elemSize)
		}
		if err := writeRecord(w, payload); err != nil {
			return err
		}
	}
	return nil
}

func (k *Keyword) encodeElement(dst []byte, i int, elemSize int) []byte {
	var scratch [8]byte
	switch {
	case k.Type == TypeInte:
		binary.BigEndian.PutUint32(scratch[:4], uint32(k.ints[i]))
		return append(dst, scratch[:4]...)
	case k.Type == TypeReal:
		binary.BigEndian.PutUint32(scratch[:4], math.Float32bits(k.reals[i]))
		return append(dst, scratch[:4]...)
	case k.Type == TypeDoub:
		binary.BigEndian.PutUint64(scratch[:8], math.Float64bits(k.doubles[i]))
		return append(dst, scratch[:8]...)
	case k.Type == TypeLogi:
		// Fortran truth value, all bits set.
		if k.bools[i] {
			binary.BigEndian.PutUint32(scratch[:4], 0xffffffff)
		}
		return append(dst, scratch[:4]...)
	default: // strings
		return append(dst, fmt.Sprintf("%-*.*s", elemSize, elemSize, k.strs[i])...)
	}
}

func writeRecord(w io.Writer, payload []byte) error {
	var marker [4]byte
	binary.BigEndian.PutUint32(marker[:], uint32(len(payload)))
	if _, err := w.Write(marker[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write(marker[:])
	return err
}
