package hexcodec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
)

func TestByteToHex(t *testing.T) {
	tests := []struct {
		in   byte
		want string
	}{
		{0, "00"},
		{10, "0A"},
		{65, "41"},
		{255, "FF"},
	}
	for _, tt := range tests {
		if got := ByteToHex(tt.in); got != tt.want {
			t.Errorf("ByteToHex(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := RenderByte(0x0A); got != " 0x0A" || len(got) != BinaryUnitWidth {
		t.Errorf("RenderByte(0x0A) = %q", got)
	}
}

func TestHexToByte(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"0xFF", 255, false},
		{"0x41", 65, false},
		{"0X0a", 10, false},
		{"&h41", 65, false},
		{"&HfF", 255, false},
		{" 0x00 ", 0, false},
		{"0xGZ", 0, true},
		{"FF", 0, true},
		{"0xF", 0, true},
		{"0x100", 0, true},
		{"", 0, true},
		{"&h", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := HexToByte(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrParse) {
					t.Fatalf("expected ErrParse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCharToByteInfo(t *testing.T) {
	b, hex, err := CharToByteInfo('A')
	if err != nil || b != 65 || hex != "41" {
		t.Fatalf("CharToByteInfo('A') = %d, %q, %v", b, hex, err)
	}
	if _, _, err := CharToByteInfo('€'); !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse for wide rune, got %v", err)
	}
}

func TestIsPrintable(t *testing.T) {
	for _, r := range []rune{'A', 'z', '7', '!', '+', ' ', '\t'} {
		if !IsPrintable(r) {
			t.Errorf("expected %q printable", r)
		}
	}
	for _, r := range []rune{0x00, 0x07, 0x1B, 0x7F} {
		if IsPrintable(r) {
			t.Errorf("expected %#x not printable", r)
		}
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{"0x41 0x42", []byte{0x41, 0x42}, false},
		{"41 42", []byte{0x41, 0x42}, false},
		{"4142", []byte{0x41, 0x42}, false},
		{"  0x0a\t0XfF ", []byte{0x0A, 0xFF}, false},
		{"", []byte{}, false},
		{"414", nil, true},
		{"0x4G", nil, true},
		{"hello", nil, true},
		{"0x410x42", []byte{0x41, 0x42}, false},
		{"4 0x1", nil, true},
		{"A0xB", nil, true},
		{"4 1", nil, true},
		{"0x", []byte{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBytes(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrParse) {
					t.Fatalf("expected ErrParse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("got % X, want % X", got, tt.want)
			}
		})
	}
}
