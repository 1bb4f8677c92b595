package rxbuffer

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/hammamikhairi/duinoprompt/internal/logger"
)

// PumpOption configures a Pump.
type PumpOption func(*Pump)

// WithReadSize sets the size of each read from the link.
func WithReadSize(n int) PumpOption {
	return func(p *Pump) {
		if n > 0 {
			p.readSize = n
		}
	}
}

// WithQueueDepth sets how many received chunks may wait for the writer.
func WithQueueDepth(n int) PumpOption {
	return func(p *Pump) {
		if n >= 0 {
			p.queueDepth = n
		}
	}
}

// Pump moves bytes from the link into a Buffer. A reader goroutine pulls
// chunks off the link and hands them over a channel to a single writer
// goroutine, which is the only caller of Buffer.Append.
//
// A blocked Read cannot be interrupted; closing the link is what ends it.
type Pump struct {
	src        io.Reader
	buf        *Buffer
	log        *logger.Logger
	readSize   int
	queueDepth int

	mu      sync.Mutex
	running bool
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPump creates a pump from src into buf. Call Start to begin.
func NewPump(src io.Reader, buf *Buffer, log *logger.Logger, opts ...PumpOption) *Pump {
	p := &Pump{
		src:        src,
		buf:        buf,
		log:        log,
		readSize:   256,
		queueDepth: 64,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the reader and writer. Non-blocking. A pump runs once;
// starting it again after Stop does nothing.
func (p *Pump) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		p.log.Warn("receive pump already started")
		return
	}
	p.started = true

	childCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	chunks := make(chan []byte, p.queueDepth)
	go p.read(childCtx, chunks)
	go p.write(childCtx, chunks)

	p.log.Info("receive pump started (read=%d, queue=%d, mode=%s)", p.readSize, p.queueDepth, p.buf.Mode())
}

// Stop cancels the pump and waits for the writer to exit. Chunks still
// queued are dropped.
func (p *Pump) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	<-p.done
	p.log.Info("receive pump stopped")
}

// Done is closed once the writer has exited, either after Stop or because
// the link reported end of input.
func (p *Pump) Done() <-chan struct{} { return p.done }

func (p *Pump) read(ctx context.Context, out chan<- []byte) {
	defer close(out)

	for {
		if ctx.Err() != nil {
			return
		}

		chunk := make([]byte, p.readSize)
		n, err := p.src.Read(chunk)
		if n > 0 {
			p.log.Debug("read %d byte(s)", n)
			select {
			case out <- chunk[:n]:
			case <-ctx.Done():
				return
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			p.log.Info("link reached end of input")
			return
		default:
			if ctx.Err() == nil {
				p.log.Error("reading from link: %v", err)
			}
			return
		}
	}
}

func (p *Pump) write(ctx context.Context, in <-chan []byte) {
	defer close(p.done)

	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-in:
			if !ok {
				return
			}
			p.buf.Append(chunk)
		}
	}
}
