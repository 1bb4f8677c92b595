package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrConnection          = errors.New("serial connection failed")
	ErrParse               = errors.New("parse error")
	ErrUnknownCommand      = errors.New("unknown command")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)
