package models

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"hash/crc32"
	"io/ioutil"

	"github.com/pkg/errors"
)

// savestate format, all integers big-endian:
//
// file header
// uint32(savestate format version)
// uint32(crc32 of compressed data)
// uint32(length of compressed data)
// remainder is gzip-compressed
//
// -- uncompressed data start --
// header
// uint32(length of arch name), arch name
// uint32(length of core type name), core type name
//
// registers
// uint32(number of registers)
// 1..num: uint32(register enum), uint64(register value)
//
// core extras, defined by the core type
//
// memory
// uint64(number of mapped sections)
// 1..num: uint64(addr), uint64(len), uint32(prot), <raw memory bytes of len>

const SavestateVersion = 1

var ErrBadSavestate = errors.New("corrupt savestate")

type savestateHeader struct {
	Version uint32
	Crc     uint32
	Length  uint32
}

// NewSavestate returns a stream for building an uncompressed savestate body.
func NewSavestate(buf *bytes.Buffer) *StrucStream {
	return &StrucStream{buf, binary.BigEndian}
}

// SealSavestate compresses a savestate body and prepends the file header.
func SealSavestate(body []byte) ([]byte, error) {
	var tmp bytes.Buffer
	gz := gzip.NewWriter(&tmp)
	if _, err := gz.Write(body); err != nil {
		return nil, errors.Wrap(err, "compressing savestate")
	}
	if err := gz.Close(); err != nil {
		return nil, errors.Wrap(err, "compressing savestate")
	}
	data := tmp.Bytes()

	var final bytes.Buffer
	s := NewSavestate(&final)
	hdr := &savestateHeader{SavestateVersion, crc32.ChecksumIEEE(data), uint32(len(data))}
	if err := s.Pack(hdr); err != nil {
		return nil, err
	}
	final.Write(data)
	return final.Bytes(), nil
}

// OpenSavestate checks the file header and returns the decompressed body.
func OpenSavestate(state []byte) ([]byte, error) {
	var hdr savestateHeader
	s := NewSavestate(bytes.NewBuffer(state))
	if err := s.Unpack(&hdr); err != nil {
		return nil, errors.Wrap(ErrBadSavestate, "short header")
	}
	if hdr.Version != SavestateVersion {
		return nil, errors.Wrapf(ErrBadSavestate, "unsupported version %d", hdr.Version)
	}
	data := state[12:]
	if uint32(len(data)) != hdr.Length {
		return nil, errors.Wrapf(ErrBadSavestate, "length %d, header says %d", len(data), hdr.Length)
	}
	if crc32.ChecksumIEEE(data) != hdr.Crc {
		return nil, errors.Wrap(ErrBadSavestate, "checksum mismatch")
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrBadSavestate, err.Error())
	}
	body, err := ioutil.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrap(ErrBadSavestate, err.Error())
	}
	return body, nil
}
