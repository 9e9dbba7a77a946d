package resfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Read opens and decodes a binary keyword-array file.
func Read(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	file, err := ReadFrom(bufio.NewReaderSize(fh, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// ReadFrom decodes a stream of keyword arrays until EOF.
func ReadFrom(r io.Reader) (*File, error) {
	file := &File{}
	for {
		kw, err := readKeyword(r)
		if err == io.EOF {
			return file, nil
		}
		if err != nil {
			return nil, err
		}
		file.append(kw)
	}
}

// readKeyword decodes one header record plus its data records. Returns
// io.EOF cleanly when the stream ends on a record boundary.
func readKeyword(r io.Reader) (*Keyword, error) {
	head, err := readRecord(r, true)
	if err != nil {
		return nil, err
	}
	if len(head) != 16 {
		return nil, fmt.Errorf("%w: header record of %d bytes", ErrBadRecordMarker, len(head))
	}
	name := strings.TrimRight(string(head[0:8]), " ")
	count := int(int32(binary.BigEndian.Uint32(head[8:12])))
	typ := Type(head[12:16])

	elemSize, perRecord, err := typ.elemSize()
	if err != nil {
		return nil, fmt.Errorf("keyword %s: %w", name, err)
	}

	kw := &Keyword{Name: name, Type: typ}
	if typ == TypeMess || count == 0 {
		return kw, nil
	}

	remaining := count
	for remaining > 0 {
		payload, err := readRecord(r, false)
		if err != nil {
			return nil, fmt.Errorf("keyword %s: %w", name, err)
		}
		n := len(payload) / elemSize
		if n > perRecord || n*elemSize != len(payload) {
			return nil, fmt.Errorf("keyword %s: %w: %d byte data record", name, ErrBadRecordMarker, len(payload))
		}
		if err := kw.decodeElements(payload, elemSize); err != nil {
			return nil, err
		}
		remaining -= n
	}
	if remaining < 0 {
		return nil, fmt.Errorf("keyword %s: %d excess elements", name, -remaining)
	}
	return kw, nil
}

func (k *Keyword) decodeElements(payload []byte, elemSize int) error {
	switch {
	case k.Type == TypeInte:
		for off := 0; off < len(payload); off += 4 {
			k.ints = append(k.ints, int32(binary.BigEndian.Uint32(payload[off:])))
		}
	case k.Type == TypeReal:
		for off := 0; off < len(payload); off += 4 {
			bits := binary.BigEndian.Uint32(payload[off:])
			k.reals = append(k.reals, math.Float32frombits(bits))
		}
	case k.Type == TypeDoub:
		for off := 0; off < len(payload); off += 8 {
			bits := binary.BigEndian.Uint64(payload[off:])
			k.doubles = append(k.doubles, math.Float64frombits(bits))
		}
	case k.Type == TypeLogi:
		for off := 0; off < len(payload); off += 4 {
			k.bools = append(k.bools, binary.BigEndian.Uint32(payload[off:]) != 0)
		}
	case k.Type.IsString():
		for off := 0; off < len(payload); off += elemSize {
			k.strs = append(k.strs, string(payload[off:off+elemSize]))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, string(k.Type))
	}
	return nil
}

// readRecord reads one Fortran-framed record. atKeywordBoundary allows a
// clean io.EOF before the leading marker.
func readRecord(r io.Reader, atKeywordBoundary bool) ([]byte, error) {
	var lead [4]byte
	if _, err := io.ReadFull(r, lead[:]); err != nil {
		if err == io.EOF && atKeywordBoundary {
			return nil, io.EOF
		}
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: truncated marker", ErrBadRecordMarker)
		}
		return nil, err
	}
	size := int(int32(binary.BigEndian.Uint32(lead[:])))
	if size < 0 {
		return nil, fmt.Errorf("%w: negative record size %d", ErrBadRecordMarker, size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: truncated record payload", ErrBadRecordMarker)
	}
	var tail [4]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated trailing marker", ErrBadRecordMarker)
	}
	if binary.BigEndian.Uint32(tail[:]) != uint32(size) {
		return nil, fmt.Errorf("%w: %d != %d", ErrBadRecordMarker,
			int32(binary.BigEndian.Uint32(tail[:])), size)
	}
	return payload, nil
}
