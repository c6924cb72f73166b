package huffpack

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestArtifact_MarshalBinary(t *testing.T) {
	type testRow struct {
		name   string
		input  string
		expect []byte
	}

	testData := [...]testRow{
		{
			name:   "empty",
			input:  "",
			expect: []byte("HUFP\x01\x00\x00\x00\x00"),
		},
		{
			name:   "single-symbol",
			input:  "aaaa",
			expect: []byte("HUFP\x01\x00\x00\x01a\x01\x00\x02\x04\x00"),
		},
		{
			name:  "abacabad",
			input: "abacabad",
			expect: []byte("HUFP\x01\x00\x00\x04" +
				"a\x01\x00" +
				"b\x02\x02" +
				"c\x03\x06" +
				"d\x03\x07" +
				"\x03\x02\x4c\x9c"),
		},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			a, err := CompressText([]byte(row.input))
			require.NoError(t, err)

			raw, err := a.MarshalBinary()
			require.NoError(t, err)
			require.Equal(t, row.expect, raw)

			var b Artifact
			require.NoError(t, b.UnmarshalBinary(raw))
			require.Equal(t, a.Mode, b.Mode)
			require.Equal(t, a.CodeBook.Entries(), b.CodeBook.Entries())
			require.Equal(t, a.Payload, b.Payload)
		})
	}
}

func TestArtifact_LongCodes(t *testing.T) {
	// Fibonacci frequencies produce a maximally unbalanced tree.
	var ft FrequencyTable
	x, y := uint64(1), uint64(1)
	for symbol := Symbol(0); symbol < 20; symbol++ {
		ft.Add(symbol, x)
		x, y = y, x+y
	}
	cb := NewCodeBook(BuildTree(&ft))
	require.Equal(t, byte(19), cb.MaxSize())

	a := &Artifact{Mode: ModeBinary, CodeBook: cb, Payload: []byte{0x00}}
	raw, err := a.MarshalBinary()
	require.NoError(t, err)

	var b Artifact
	require.NoError(t, b.UnmarshalBinary(raw))
	require.Equal(t, cb.Entries(), b.CodeBook.Entries())
}

func TestArtifact_Truncated(t *testing.T) {
	a, err := CompressText([]byte("abacabad"))
	require.NoError(t, err)
	raw, err := a.MarshalBinary()
	require.NoError(t, err)

	for n := 0; n < len(raw); n++ {
		var b Artifact
		err := b.UnmarshalBinary(raw[:n])
		require.ErrorIs(t, err, ErrFormat, "prefix of %d bytes", n)
	}
}

func TestArtifact_UnmarshalErrors(t *testing.T) {
	type testRow struct {
		name    string
		raw     string
		errText string
	}

	testData := [...]testRow{
		{name: "magic", raw: "HUFX\x01\x00\x00\x00\x00", errText: "invalid magic"},
		{name: "version", raw: "HUFP\x02\x00\x00\x00\x00", errText: "unsupported version"},
		{name: "mode", raw: "HUFP\x01\x00\x07\x00\x00", errText: "unknown mode"},
		{name: "trailing", raw: "HUFP\x01\x00\x00\x00\x00\x00", errText: "trailing bytes"},
		{name: "code-size", raw: "HUFP\x01\x00\x00\x01a\x00\x01\x00", errText: "code size 0"},
		{name: "binary-symbol", raw: "HUFP\x01\x00\x01\x01\x80\x02\x01\x00\x02\x04\x00", errText: "out of range"},
		{name: "not-prefix-free", raw: "HUFP\x01\x00\x00\x02a\x01\x00b\x02\x01\x02\x00\x00", errText: "is a prefix of"},
		{name: "stray-bits", raw: "HUFP\x01\x00\x00\x01a\x01\x02\x02\x04\x00", errText: "invalid code"},
		{name: "entry-count", raw: "HUFP\x01\x00\x01\x81\x02", errText: "exceeds"},
		{name: "payload-without-codebook", raw: "HUFP\x01\x00\x00\x00\x01\x00", errText: "empty codebook"},
		{name: "codebook-without-payload", raw: "HUFP\x01\x00\x00\x01a\x01\x00\x00", errText: "empty payload"},
		{name: "varint-overflow", raw: "HUFP\x01\x00\x00\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\x01", errText: "entry count"},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			var a Artifact
			err := a.UnmarshalBinary([]byte(row.raw))
			require.ErrorIs(t, err, ErrFormat)
			require.Contains(t, err.Error(), row.errText)
		})
	}
}

func TestArtifact_ReadFromExact(t *testing.T) {
	first, err := CompressText([]byte("abacabad"))
	require.NoError(t, err)
	second, err := CompressBytes([]byte{0, 1, 2, 2, 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	n1, err := first.WriteTo(&buf)
	require.NoError(t, err)
	n2, err := second.WriteTo(&buf)
	require.NoError(t, err)

	var a, b Artifact
	m1, err := a.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, n1, m1)
	m2, err := b.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, n2, m2)
	require.Equal(t, 0, buf.Len())

	require.Equal(t, ModeText, a.Mode)
	require.Equal(t, ModeBinary, b.Mode)
	data, err := DecompressToBytes(&b)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 2, 2}, data)
}

func TestArtifact_IOErrors(t *testing.T) {
	boom := errors.New("boom")

	var a Artifact
	_, err := a.ReadFrom(iotest.ErrReader(boom))
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, boom)

	b, err := CompressText([]byte("abc"))
	require.NoError(t, err)
	_, err = b.WriteTo(failingWriter{boom})
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, boom)
}

func TestArtifact_Validate(t *testing.T) {
	require.NoError(t, (&Artifact{}).Validate())
	require.ErrorIs(t, (&Artifact{Payload: []byte{0x00}}).Validate(), ErrFormat)
	require.ErrorIs(t, (&Artifact{Mode: Mode(9)}).Validate(), ErrFormat)

	a, err := CompressText([]byte("✓"))
	require.NoError(t, err)
	a.Mode = ModeBinary
	require.ErrorIs(t, a.Validate(), ErrFormat)
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write(p []byte) (int, error) {
	return 0, w.err
}
