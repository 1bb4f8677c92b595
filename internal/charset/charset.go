// Package charset resolves the operator's encoding name into the codecs
// used on the serial link. The reserved name "binary" selects binary mode,
// where no text codec applies.
package charset

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
)

// Reserved encoding names.
const (
	BinaryName  = "binary"
	DefaultName = "ascii"
)

// Charset is a resolved encoding choice.
type Charset struct {
	// Name is the canonical name shown to the operator.
	Name string
	Mode domain.Mode
	enc  encoding.Encoding // nil in binary mode
}

// Lookup resolves an encoding name. Matching is case-insensitive and
// accepts WHATWG labels ("utf-8", "latin1", "shift_jis") as well as IANA
// names. Unknown names return domain.ErrUnsupportedEncoding.
func Lookup(name string) (Charset, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case BinaryName:
		return Charset{Name: BinaryName, Mode: domain.ModeBinary}, nil
	case "", "ascii", "us-ascii", "us_ascii", "ansi_x3.4-1968":
		// htmlindex folds ASCII into windows-1252, so it is handled here.
		return Charset{Name: "us-ascii", Mode: domain.ModeText, enc: ASCII}, nil
	}

	if enc, err := htmlindex.Get(key); err == nil {
		canon, _ := htmlindex.Name(enc)
		return Charset{Name: canon, Mode: domain.ModeText, enc: enc}, nil
	}
	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		canon, _ := ianaindex.IANA.Name(enc)
		return Charset{Name: strings.ToLower(canon), Mode: domain.ModeText, enc: enc}, nil
	}
	return Charset{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedEncoding, name)
}

// Default returns the ASCII charset.
func Default() Charset {
	cs, _ := Lookup(DefaultName)
	return cs
}

// Encode converts text for the wire. Characters the encoding cannot
// represent are replaced rather than failing the write.
func (c Charset) Encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	out, _, err := transform.Bytes(encoding.ReplaceUnsupported(c.enc.NewEncoder()), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding for %s: %w", c.Name, err)
	}
	return out, nil
}

// NewDecoder returns a streaming decoder for received bytes, or nil in
// binary mode.
func (c Charset) NewDecoder() *StreamDecoder {
	if c.enc == nil {
		return nil
	}
	return &StreamDecoder{t: c.enc.NewDecoder()}
}

// StreamDecoder decodes a byte stream that arrives in arbitrary chunks.
// A multi-byte sequence split across two chunks is held back until the
// rest of it arrives. Not safe for concurrent use.
type StreamDecoder struct {
	t       transform.Transformer
	pending []byte
}

// Decode returns the text for chunk plus any bytes held back earlier.
func (d *StreamDecoder) Decode(chunk []byte) string {
	src := make([]byte, 0, len(d.pending)+len(chunk))
	src = append(append(src, d.pending...), chunk...)
	d.pending = d.pending[:0]

	dst := make([]byte, 4*len(src)+16)
	var out []byte
	for len(src) > 0 {
		nDst, nSrc, err := d.t.Transform(dst, src, false)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]

		switch err {
		case nil:
		case transform.ErrShortSrc:
			d.pending = append(d.pending, src...)
			return string(out)
		case transform.ErrShortDst:
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		default:
			// Decoders substitute U+FFFD for bad input; skip a byte if one refuses.
			out = append(out, "\uFFFD"...)
			src = src[1:]
			d.t.Reset()
		}
	}
	return string(out)
}

// Pending reports how many bytes are held back waiting for more input.
func (d *StreamDecoder) Pending() int { return len(d.pending) }
