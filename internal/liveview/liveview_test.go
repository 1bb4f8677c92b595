package liveview

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/history"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
	"github.com/hammamikhairi/duinoprompt/internal/rxbuffer"
	"github.com/hammamikhairi/duinoprompt/internal/terminal/termtest"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestLiveViewRepaintsAndRestores(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	term := termtest.New()
	rec := history.New(term)
	buf := rxbuffer.NewBinary()

	rec.SetForeground(domain.Yellow)
	rec.WriteLine("Welcome to the serial communication prompt.")
	rec.SetForeground(domain.Red)
	rec.Replay()
	before := term.Cells()

	poller := New(buf, rec, term, log, WithPollInterval(time.Millisecond))
	done := make(chan struct{})
	go func() {
		poller.Run(context.Background())
		close(done)
	}()

	// Simulates the background notification path.
	go buf.Append([]byte{0x48, 0x49})

	waitFor(t, "repaint with received data", func() bool {
		return term.Screen() == " 0x48 0x49"
	})
	term.PressKey('q')

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("live view did not exit after keypress")
	}

	if got := term.Cells(); !reflect.DeepEqual(got, before) {
		t.Fatalf("display not restored\nwant %v\ngot  %v", before, got)
	}
	if term.KeyAvailable() {
		t.Fatal("exit key was not consumed")
	}
	if strings.Contains(rec.String(), "0x48") {
		t.Fatal("live view output leaked into history")
	}
}

func TestLiveViewSkipsRedundantRepaints(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	term := termtest.New()
	rec := history.New(term)
	buf := rxbuffer.NewBinary()
	buf.Append([]byte{0x01})

	poller := New(buf, rec, term, log, WithPollInterval(time.Millisecond))
	done := make(chan struct{})
	go func() {
		poller.Run(context.Background())
		close(done)
	}()

	waitFor(t, "several polls", func() bool { return term.Polls() >= 10 })
	// One clear on entry plus one repaint for the single snapshot.
	if got := term.Clears(); got != 2 {
		t.Fatalf("expected 2 clears while idle, got %d", got)
	}

	term.PressKey(' ')
	<-done
}

func TestLiveViewExitsOnContextCancel(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	term := termtest.New()
	rec := history.New(term)
	rec.WriteLine("history")

	ctx, cancel := context.WithCancel(context.Background())
	poller := New(rxbuffer.NewBinary(), rec, term, log, WithPollInterval(time.Millisecond))
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	waitFor(t, "first poll", func() bool { return term.Polls() > 0 })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("live view ignored cancellation")
	}
	if term.Screen() != "history\n" {
		t.Fatalf("expected replayed history, got %q", term.Screen())
	}
}
