// Package config resolves startup settings from flags, the environment and
// an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/duinoprompt/internal/charset"
	"github.com/hammamikhairi/duinoprompt/internal/serial"
)

// Environment variables that provide defaults for the matching flags.
const (
	EnvPort     = "DUINO_PORT"
	EnvBaud     = "DUINO_BAUD"
	EnvEncoding = "DUINO_ENCODING"
)

// DefaultLogFile keeps logs out of the terminal.
const DefaultLogFile = ".duino-logs/duino.log"

// Config is the resolved startup configuration.
type Config struct {
	Port     string
	Baud     int
	Encoding string

	// Setup shows the interactive form before connecting.
	Setup bool

	Verbose bool
	Quiet   bool
	LogFile string

	// Notices are non-fatal problems found while resolving, such as an
	// unparsable DUINO_BAUD.
	Notices []string
}

// Env reads the DUINO_* variables, letting the process environment win over
// values from files. Missing files are skipped.
func Env(files ...string) (map[string]string, error) {
	env := make(map[string]string)
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		for _, k := range []string{EnvPort, EnvBaud, EnvEncoding} {
			if v, ok := vals[k]; ok {
				env[k] = v
			}
		}
	}
	for _, k := range []string{EnvPort, EnvBaud, EnvEncoding} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env, nil
}

// Parse resolves flags in args on top of env. Flag errors are returned; a bad
// environment value falls back to the built-in default with a notice.
func Parse(name string, args []string, env map[string]string, usage io.Writer) (*Config, error) {
	cfg := &Config{
		Port:     serial.DefaultPortName(),
		Baud:     serial.DefaultBaud,
		Encoding: charset.DefaultName,
	}

	if v := env[EnvPort]; v != "" {
		cfg.Port = v
	}
	if v := env[EnvEncoding]; v != "" {
		cfg.Encoding = v
	}
	if v := env[EnvBaud]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Baud = n
		} else {
			cfg.Notices = append(cfg.Notices,
				fmt.Sprintf("ignoring %s=%q: not a positive number", EnvBaud, v))
		}
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(usage)
	flags.StringVar(&cfg.Port, "port", cfg.Port, "serial port name (env "+EnvPort+")")
	flags.IntVar(&cfg.Baud, "baud", cfg.Baud, "baud rate (env "+EnvBaud+")")
	flags.StringVar(&cfg.Encoding, "encoding", cfg.Encoding,
		"text encoding, or \""+charset.BinaryName+"\" for hex mode (env "+EnvEncoding+")")
	noSetup := flags.Bool("no-setup", false, "skip the setup form and connect with the flag values")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose/debug logging")
	flags.BoolVar(&cfg.Quiet, "quiet", false, "disable all logging")
	flags.StringVar(&cfg.LogFile, "log-file", DefaultLogFile, "file to write logs to (use \"stderr\" to log to console)")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("invalid -baud %d: must be positive", cfg.Baud)
	}
	cfg.Setup = !*noSetup
	return cfg, nil
}
