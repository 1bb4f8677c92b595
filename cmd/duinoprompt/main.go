// duinoprompt is an interactive prompt for line-oriented serial devices.
//
// Usage:
//
//	duinoprompt [-port NAME] [-baud N] [-encoding NAME|binary] [-no-setup] [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hammamikhairi/duinoprompt/internal/config"
	"github.com/hammamikhairi/duinoprompt/internal/console"
	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/history"
	"github.com/hammamikhairi/duinoprompt/internal/liveview"
	"github.com/hammamikhairi/duinoprompt/internal/logger"
	"github.com/hammamikhairi/duinoprompt/internal/rxbuffer"
	"github.com/hammamikhairi/duinoprompt/internal/serial"
	"github.com/hammamikhairi/duinoprompt/internal/setup"
	"github.com/hammamikhairi/duinoprompt/internal/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	env, err := config.Env(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := config.Parse(filepath.Base(os.Args[0]), os.Args[1:], env, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	// Configure logger.
	logLevel := logger.LevelNormal
	if cfg.Verbose {
		logLevel = logger.LevelVerbose
	}
	if cfg.Quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file by default; the prompt owns the terminal.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)
	for _, n := range cfg.Notices {
		log.Warn("config: %s", n)
	}

	// Set up context, cancelled when the prompt returns.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ask for connection parameters.
	def := setup.Defaults{Port: cfg.Port, Baud: cfg.Baud, Encoding: cfg.Encoding}
	var settings setup.Settings
	if cfg.Setup {
		settings, err = setup.Run(ctx, def, log.Named("setup"))
		if errors.Is(err, setup.ErrCancelled) {
			log.Info("setup cancelled")
			return 0
		}
		if err != nil {
			log.Error("setup: %v", err)
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	} else {
		settings = setup.Resolve(cfg.Port, strconv.Itoa(cfg.Baud), cfg.Encoding, def)
		for _, n := range settings.Notices {
			log.Warn("config: %s", n)
		}
	}

	term, err := terminal.Open(log.Named("terminal"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer term.Close()

	rec := history.New(term)
	for _, n := range settings.Notices {
		rec.SetForeground(domain.DarkYellow)
		rec.WriteLine(n)
	}
	rec.SetForeground(domain.Gray)

	link, err := serial.Open(serial.Config{
		Name:    settings.Port,
		Baud:    settings.Baud,
		Charset: settings.Charset,
	}, log.Named("serial"))
	if err != nil {
		log.Error("%v", err)
		rec.SetForeground(domain.Red)
		rec.WriteLinef("Could not connect to %s: %v", settings.Port, err)
		rec.SetForeground(domain.Gray)
		rec.WriteLine("Press any key to exit.")
		term.ReadKey(true)
		return 1
	}

	rec.SetForeground(domain.DarkMagenta)
	rec.WriteLinef("Serial communication prompt is ready on %s (%d baud, %s). Press any key to continue.",
		settings.Port, settings.Baud, settings.Charset.Name)
	rec.SetForeground(domain.Gray)
	if _, err := term.ReadKey(true); err != nil {
		link.Close()
		return 0
	}
	rec.Clear()

	// Receive side: background pump into the shared buffer.
	var buf *rxbuffer.Buffer
	if settings.Charset.Mode == domain.ModeBinary {
		buf = rxbuffer.NewBinary()
	} else {
		buf = rxbuffer.New(settings.Charset.NewDecoder())
	}
	pump := rxbuffer.NewPump(link, buf, log.Named("pump"))
	pump.Start(ctx)
	defer pump.Stop()

	view := liveview.New(buf, rec, term, log.Named("liveview"))
	con := console.New(rec, term, link, buf, view, log.Named("console"))

	log.Info("prompt ready (port=%s, baud=%d, mode=%s)", settings.Port, settings.Baud, buf.Mode())
	con.Welcome()
	if err := con.Run(ctx); err != nil {
		log.Error("console: %v", err)
		return 1
	}
	return 0
}
