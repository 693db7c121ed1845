package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

type wavSpec struct {
	sampleRate uint32
	channels   uint16
	bits       uint16
}

func defaultSpec() wavSpec {
	return wavSpec{sampleRate: 22050, channels: 1, bits: 16}
}

func buildWav(t *testing.T, spec wavSpec, data []byte) []byte {
	t.Helper()
	h := header{
		RiffID:        [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:      uint32(len(data) + headerSize - 8),
		WaveID:        [4]byte{'W', 'A', 'V', 'E'},
		FmtID:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1,
		NumChannels:   spec.channels,
		SampleRate:    spec.sampleRate,
		ByteRate:      spec.sampleRate * uint32(spec.channels) * uint32(spec.bits) / 8,
		BlockAlign:    spec.channels * spec.bits / 8,
		BitsPerSample: spec.bits,
		DataID:        [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(len(data)),
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		t.Fatalf("failed to build header: %v", err)
	}
	buf.Write(data)
	return buf.Bytes()
}

func repeated(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestMerge_Empty(t *testing.T) {
	out, err := Merge(nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}

func TestMerge_SinglePayloadUnchanged(t *testing.T) {
	wav := buildWav(t, defaultSpec(), repeated(0xAB, 500))

	out, err := Merge([][]byte{wav})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !bytes.Equal(out, wav) {
		t.Error("single-payload merge must be byte-identical")
	}
}

func TestMerge_SizeFields(t *testing.T) {
	a := buildWav(t, defaultSpec(), repeated(0x01, 1000))
	b := buildWav(t, defaultSpec(), repeated(0x02, 2000))

	out, err := Merge([][]byte{a, b})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if len(out) != headerSize+3000 {
		t.Fatalf("len(out) = %d, want %d", len(out), headerSize+3000)
	}
	if riffSize := binary.LittleEndian.Uint32(out[4:8]); riffSize != 3036 {
		t.Errorf("riff size field = %d, want 3036", riffSize)
	}
	if dataSize := binary.LittleEndian.Uint32(out[40:44]); dataSize != 3000 {
		t.Errorf("data size field = %d, want 3000", dataSize)
	}

	// Format fields copied verbatim from the first payload.
	if sampleRate := binary.LittleEndian.Uint32(out[24:28]); sampleRate != 22050 {
		t.Errorf("sample rate = %d, want 22050", sampleRate)
	}
}

func TestMerge_DataConcatenatedInOrder(t *testing.T) {
	a := buildWav(t, defaultSpec(), repeated(0x01, 10))
	b := buildWav(t, defaultSpec(), repeated(0x02, 10))
	c := buildWav(t, defaultSpec(), repeated(0x03, 10))

	out, err := Merge([][]byte{a, b, c})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	data := out[headerSize:]
	want := append(append(repeated(0x01, 10), repeated(0x02, 10)...), repeated(0x03, 10)...)
	if !bytes.Equal(data, want) {
		t.Error("sample data not concatenated in input order")
	}
}

func TestMerge_HeaderlessPayloads(t *testing.T) {
	a := repeated(0x01, 100)
	b := repeated(0x02, 50)

	out, err := Merge([][]byte{a, b})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	// Neither payload had a recognized header, so the result is raw data.
	if len(out) != 150 {
		t.Errorf("len(out) = %d, want 150", len(out))
	}
	if !bytes.Equal(out[:100], a) || !bytes.Equal(out[100:], b) {
		t.Error("headerless payloads must concatenate verbatim")
	}
}

func TestMerge_FormatMismatchRejected(t *testing.T) {
	a := buildWav(t, defaultSpec(), repeated(0x01, 100))
	b := buildWav(t, wavSpec{sampleRate: 44100, channels: 2, bits: 16}, repeated(0x02, 100))

	_, err := Merge([][]byte{a, b})
	if !errors.Is(err, ErrFormatMismatch) {
		t.Fatalf("err = %v, want ErrFormatMismatch", err)
	}
}

func TestMerge_TrailingBytesBeyondDeclaredSizeIgnored(t *testing.T) {
	a := buildWav(t, defaultSpec(), repeated(0x01, 100))
	// Append trailer bytes the header does not account for.
	a = append(a, repeated(0xFF, 8)...)
	b := buildWav(t, defaultSpec(), repeated(0x02, 100))

	out, err := Merge([][]byte{a, b})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if dataSize := binary.LittleEndian.Uint32(out[40:44]); dataSize != 200 {
		t.Errorf("data size field = %d, want 200", dataSize)
	}
	if bytes.Contains(out, repeated(0xFF, 8)) {
		t.Error("trailer bytes beyond declared data size leaked into merge")
	}
}
