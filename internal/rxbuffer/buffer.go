// Package rxbuffer accumulates everything the device has sent since the
// operator last cleared it. A background [Pump] appends; foreground commands
// clear, count and snapshot. Every access goes through one mutex, held only
// for the single operation.
package rxbuffer

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/hexcodec"
)

// Decoder turns received bytes into text. It may hold back a partial
// multi-byte sequence until the next call.
type Decoder interface {
	Decode(chunk []byte) string
}

// Buffer is the receive buffer. Safe for concurrent use.
type Buffer struct {
	mode domain.Mode

	mu   sync.Mutex
	data strings.Builder
	dec  Decoder // text mode only; guarded by mu since it is stateful
}

// New creates an empty text-mode buffer decoding with dec.
func New(dec Decoder) *Buffer {
	return &Buffer{mode: domain.ModeText, dec: dec}
}

// NewBinary creates an empty binary-mode buffer. Each received byte is
// stored as its " 0xHH" rendering.
func NewBinary() *Buffer {
	return &Buffer{mode: domain.ModeBinary}
}

// Mode returns the buffer's fixed mode.
func (b *Buffer) Mode() domain.Mode { return b.mode }

// Append adds raw bytes in arrival order.
func (b *Buffer) Append(raw []byte) {
	if len(raw) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mode == domain.ModeBinary {
		b.data.Grow(len(raw) * hexcodec.BinaryUnitWidth)
		for _, c := range raw {
			b.data.WriteString(hexcodec.RenderByte(c))
		}
		return
	}
	b.data.WriteString(b.dec.Decode(raw))
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data.Reset()
}

// Units returns the number of characters received in text mode, or the
// number of bytes in binary mode. The binary count is the rendered length
// divided by hexcodec.BinaryUnitWidth, so it is only right while every
// byte renders to exactly that many characters.
func (b *Buffer) Units() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mode == domain.ModeBinary {
		return b.data.Len() / hexcodec.BinaryUnitWidth
	}
	return utf8.RuneCountInString(b.data.String())
}

// Snapshot returns a copy of the buffer contents.
func (b *Buffer) Snapshot() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Clone(b.data.String())
}
