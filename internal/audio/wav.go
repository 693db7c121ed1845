// Package audio merges encoded WAV payloads into a single playable
// container by rewriting the size fields of a template header and
// concatenating the raw sample data.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrFormatMismatch is returned when payloads being merged disagree on
// sample rate, channel count, or bit depth. The merge only rewrites size
// fields, so mismatched formats would produce a corrupt container.
var ErrFormatMismatch = errors.New("audio payloads have mismatched formats")

// headerSize is the canonical RIFF/WAVE preamble length.
const headerSize = 44

// header is the fixed 44-byte RIFF/WAVE container preamble. All multi-byte
// fields are little-endian.
type header struct {
	RiffID        [4]byte // "RIFF"
	RiffSize      uint32  // total container size minus 8
	WaveID        [4]byte // "WAVE"
	FmtID         [4]byte // "fmt "
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataID        [4]byte // "data"
	DataSize      uint32  // sample data length
}

var riffMagic = [4]byte{'R', 'I', 'F', 'F'}

// payload is one parsed input: an optional recognized header plus raw
// sample data.
type payload struct {
	header *header
	data   []byte
}

// parse splits a buffer into header and sample data. Buffers without the
// RIFF magic are treated as headerless: the whole buffer is data.
func parse(buf []byte) payload {
	if len(buf) < headerSize || [4]byte(buf[:4]) != riffMagic {
		return payload{data: buf}
	}

	var h header
	if err := binary.Read(bytes.NewReader(buf[:headerSize]), binary.LittleEndian, &h); err != nil {
		return payload{data: buf}
	}

	data := buf[headerSize:]
	if int(h.DataSize) < len(data) {
		data = data[:h.DataSize]
	}
	return payload{header: &h, data: data}
}

// Merge concatenates WAV payloads into one container.
//
// Zero payloads yield an empty buffer and a single payload is returned
// unchanged. Otherwise the first payload's header becomes the template for
// the result: its two size fields are recomputed for the concatenated data
// length and every other field is copied verbatim. Payloads carrying
// headers must agree on sample rate, channels, and bit depth.
func Merge(payloads [][]byte) ([]byte, error) {
	if len(payloads) == 0 {
		return []byte{}, nil
	}
	if len(payloads) == 1 {
		return payloads[0], nil
	}

	parsed := make([]payload, len(payloads))
	for i, buf := range payloads {
		parsed[i] = parse(buf)
	}

	if err := validateFormats(parsed); err != nil {
		return nil, err
	}

	totalData := 0
	for _, p := range parsed {
		totalData += len(p.data)
	}

	var out bytes.Buffer
	if template := parsed[0].header; template != nil {
		merged := *template
		merged.RiffSize = uint32(totalData + headerSize - 8)
		merged.DataSize = uint32(totalData)
		if err := binary.Write(&out, binary.LittleEndian, &merged); err != nil {
			return nil, err
		}
	}
	for _, p := range parsed {
		out.Write(p.data)
	}
	return out.Bytes(), nil
}

// validateFormats rejects mixed encoding parameters across payloads.
// Headerless payloads carry no format fields and are not compared.
func validateFormats(parsed []payload) error {
	var ref *header
	for i, p := range parsed {
		if p.header == nil {
			continue
		}
		if ref == nil {
			ref = p.header
			continue
		}
		if p.header.SampleRate != ref.SampleRate ||
			p.header.NumChannels != ref.NumChannels ||
			p.header.BitsPerSample != ref.BitsPerSample {
			return fmt.Errorf("%w: payload %d is %dHz/%dch/%dbit, expected %dHz/%dch/%dbit",
				ErrFormatMismatch, i+1,
				p.header.SampleRate, p.header.NumChannels, p.header.BitsPerSample,
				ref.SampleRate, ref.NumChannels, ref.BitsPerSample)
		}
	}
	return nil
}
