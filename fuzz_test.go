package huffpack

import (
	"bytes"
	"testing"
)

func FuzzDecompress(f *testing.F) {
	for _, input := range []string{"", "aaaa", "abacabad", "héllo wörld"} {
		a, err := CompressText([]byte(input))
		if err != nil {
			f.Fatal(err)
		}
		raw, err := a.MarshalBinary()
		if err != nil {
			f.Fatal(err)
		}
		f.Add(raw)
	}

	f.Fuzz(func(t *testing.T, raw []byte) {
		var a Artifact
		if err := a.UnmarshalBinary(raw); err != nil {
			return
		}
		symbols, err := Decompress(&a)
		if err != nil {
			return
		}

		// Whatever decodes must re-encode under the same codebook.
		payload, err := EncodePayload(symbols, a.CodeBook)
		if err != nil {
			t.Fatalf("re-encode: %v", err)
		}
		if len(symbols) != 0 && !bytes.Equal(payload, a.Payload) {
			t.Fatalf("re-encoded payload differs:\n\texpect: %x\n\tactual: %x", a.Payload, payload)
		}
	})
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("aaaa"))
	f.Add([]byte("abacabad"))
	f.Add([]byte{0x00, 0xff, 0x00, 0x80})

	f.Fuzz(func(t *testing.T, data []byte) {
		a, err := CompressBytes(data)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		raw, err := a.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var b Artifact
		if err := b.UnmarshalBinary(raw); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		out, err := DecompressToBytes(&b)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if !bytes.Equal(data, out) {
			t.Fatalf("round trip mismatch:\n\texpect: %x\n\tactual: %x", data, out)
		}
	})
}
