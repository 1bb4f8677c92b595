package domain

// Mode selects how traffic to and from the device is interpreted.
// It is fixed for the lifetime of the process.
type Mode int

const (
	// ModeText decodes received bytes as characters and sends typed lines as text.
	ModeText Mode = iota
	// ModeBinary renders received bytes as hex and parses typed lines as hex bytes.
	ModeBinary
)

// String returns a human-readable mode.
func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeBinary:
		return "binary"
	default:
		return "unknown"
	}
}
