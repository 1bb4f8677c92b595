package setup

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art centred for the given width. A width
// of zero or less uses the current terminal width.
func RenderBanner(width int) string {
	if width <= 0 {
		width = termWidth()
	}
	// Render pads every line to the widest one, so the block stays aligned.
	art := bannerStyle.Render(strings.TrimRight(bannerRaw, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, art) + "\n"
}

// termWidth returns the stdout column count, or 80.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
