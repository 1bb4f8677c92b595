package domain

// Color is one of the sixteen classic console colors. The numbering follows
// the ANSI palette index so terminals can map it directly.
type Color int

const (
	Black Color = iota
	DarkRed
	DarkGreen
	DarkYellow
	DarkBlue
	DarkMagenta
	DarkCyan
	Gray
	DarkGray
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// Colors of a freshly cleared display.
const (
	DefaultForeground = Gray
	DefaultBackground = Black
)

var colorNames = [...]string{
	"black", "dark_red", "dark_green", "dark_yellow",
	"dark_blue", "dark_magenta", "dark_cyan", "gray",
	"dark_gray", "red", "green", "yellow",
	"blue", "magenta", "cyan", "white",
}

// String returns a snake_case color name.
func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "unknown"
	}
	return colorNames[c]
}
