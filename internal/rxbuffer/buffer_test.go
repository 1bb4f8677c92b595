package rxbuffer

import (
	"regexp"
	"sync"
	"testing"

	"github.com/hammamikhairi/duinoprompt/internal/charset"
	"github.com/hammamikhairi/duinoprompt/internal/domain"
)

func newTextBuffer(t *testing.T, name string) *Buffer {
	t.Helper()
	cs, err := charset.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return New(cs.NewDecoder())
}

func TestBinaryRendering(t *testing.T) {
	buf := NewBinary()
	buf.Append([]byte{0x0A, 0xFF})

	if got := buf.Snapshot(); got != " 0x0A 0xFF" {
		t.Fatalf("snapshot: got %q", got)
	}
	if got := buf.Units(); got != 2 {
		t.Fatalf("units: got %d, want 2", got)
	}
	if buf.Mode() != domain.ModeBinary {
		t.Fatalf("mode: got %s", buf.Mode())
	}
}

func TestTextUnitsCountCharacters(t *testing.T) {
	buf := newTextBuffer(t, "utf-8")
	buf.Append([]byte("héllo\r\n"))

	if got := buf.Units(); got != 7 {
		t.Fatalf("units: got %d, want 7", got)
	}
	if got := buf.Snapshot(); got != "héllo\r\n" {
		t.Fatalf("snapshot: got %q", got)
	}
}

func TestClearEmpties(t *testing.T) {
	buf := newTextBuffer(t, "ascii")
	buf.Append([]byte("abc"))
	buf.Clear()
	if buf.Units() != 0 || buf.Snapshot() != "" {
		t.Fatalf("expected empty buffer, got %q", buf.Snapshot())
	}
	buf.Append([]byte("d"))
	if buf.Snapshot() != "d" {
		t.Fatalf("expected appends after clear to land, got %q", buf.Snapshot())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	buf := newTextBuffer(t, "ascii")
	buf.Append([]byte("one"))
	snap := buf.Snapshot()
	buf.Clear()
	buf.Append([]byte("two"))
	if snap != "one" {
		t.Fatalf("snapshot changed after clear: %q", snap)
	}
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	const writers, perWriter = 8, 500

	for _, mode := range []domain.Mode{domain.ModeText, domain.ModeBinary} {
		t.Run(mode.String(), func(t *testing.T) {
			var buf *Buffer
			if mode == domain.ModeBinary {
				buf = NewBinary()
			} else {
				buf = newTextBuffer(t, "ascii")
			}

			appendAll := func(n int) {
				var wg sync.WaitGroup
				for w := 0; w < writers; w++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						for i := 0; i < n; i++ {
							buf.Append([]byte{'x'})
						}
					}()
				}
				wg.Wait()
			}

			appendAll(perWriter)
			if got := buf.Units(); got != writers*perWriter {
				t.Fatalf("before clear: got %d units, want %d", got, writers*perWriter)
			}

			buf.Clear()
			appendAll(perWriter / 2)
			if got := buf.Units(); got != writers*perWriter/2 {
				t.Fatalf("after clear: got %d units, want %d", got, writers*perWriter/2)
			}
		})
	}
}

func TestClearRacingAppends(t *testing.T) {
	buf := NewBinary()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					buf.Append([]byte{0x01, 0x02, 0x03})
				}
			}
		}()
	}

	well := regexp.MustCompile(`^( 0x[0-9A-F]{2})*$`)
	for i := 0; i < 200; i++ {
		if i%10 == 0 {
			buf.Clear()
		}
		snap := buf.Snapshot()
		if !well.MatchString(snap) {
			t.Fatalf("torn snapshot: %q", snap)
		}
	}
	close(stop)
	wg.Wait()

	// Once writers are quiet, a clear followed by known appends is exact.
	buf.Clear()
	buf.Append([]byte{0xAA})
	buf.Append([]byte{0xBB, 0xCC})
	if got := buf.Units(); got != 3 {
		t.Fatalf("got %d units after final clear, want 3", got)
	}
}
