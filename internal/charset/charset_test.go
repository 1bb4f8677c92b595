package charset

import (
	"errors"
	"testing"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantMode domain.Mode
	}{
		{"", "us-ascii", domain.ModeText},
		{"ASCII", "us-ascii", domain.ModeText},
		{"utf-8", "utf-8", domain.ModeText},
		{"UTF8", "utf-8", domain.ModeText},
		{"latin1", "windows-1252", domain.ModeText},
		{"binary", BinaryName, domain.ModeBinary},
		{"BINARY", BinaryName, domain.ModeBinary},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cs, err := Lookup(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cs.Name != tt.wantName || cs.Mode != tt.wantMode {
				t.Fatalf("got %s/%s, want %s/%s", cs.Name, cs.Mode, tt.wantName, tt.wantMode)
			}
		})
	}

	if _, err := Lookup("klingon-8"); !errors.Is(err, domain.ErrUnsupportedEncoding) {
		t.Fatalf("expected ErrUnsupportedEncoding, got %v", err)
	}
}

func TestASCIIReplacesHighBytes(t *testing.T) {
	cs := Default()

	dec := cs.NewDecoder()
	if got := dec.Decode([]byte{'o', 'k', 0xC3, 0xA9, '\n'}); got != "ok??\n" {
		t.Fatalf("decode: got %q", got)
	}

	out, err := cs.Encode("café")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != "caf?" {
		t.Fatalf("encode: got %q", out)
	}
}

func TestStreamDecoderJoinsSplitRunes(t *testing.T) {
	cs, err := Lookup("utf-8")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	dec := cs.NewDecoder()

	euro := []byte("€") // E2 82 AC
	first := dec.Decode(append([]byte("a"), euro[:2]...))
	if first != "a" {
		t.Fatalf("first chunk: got %q", first)
	}
	if dec.Pending() != 2 {
		t.Fatalf("expected 2 pending bytes, got %d", dec.Pending())
	}
	second := dec.Decode(append(euro[2:], 'b'))
	if second != "€b" {
		t.Fatalf("second chunk: got %q", second)
	}
	if dec.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", dec.Pending())
	}
}

func TestBinaryHasNoCodec(t *testing.T) {
	cs, _ := Lookup(BinaryName)
	if cs.NewDecoder() != nil {
		t.Fatal("binary charset should not have a decoder")
	}
	out, err := cs.Encode("\x01\x02")
	if err != nil || string(out) != "\x01\x02" {
		t.Fatalf("binary encode should pass through, got %q, %v", out, err)
	}
}
