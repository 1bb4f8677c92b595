package setup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/duinoprompt/internal/charset"
)

// Defaults are shown as placeholders and used for blank answers.
type Defaults struct {
	Port     string
	Baud     int
	Encoding string
}

// Settings are the validated connection parameters.
type Settings struct {
	Port    string
	Baud    int
	Charset charset.Charset

	// Notices describe answers that were replaced by a default.
	Notices []string
}

// Resolve validates raw answers. Blank answers take the default; a bad baud
// rate or unknown encoding falls back to the default with a notice.
func Resolve(port, baud, encoding string, def Defaults) Settings {
	var s Settings

	s.Port = strings.TrimSpace(port)
	if s.Port == "" {
		s.Port = def.Port
	}

	s.Baud = def.Baud
	if b := strings.TrimSpace(baud); b != "" {
		n, err := strconv.Atoi(b)
		if err != nil || n <= 0 {
			s.Notices = append(s.Notices,
				fmt.Sprintf("Invalid baud rate %q, using %d.", b, def.Baud))
		} else {
			s.Baud = n
		}
	}

	name := strings.TrimSpace(encoding)
	if name == "" {
		name = def.Encoding
	}
	cs, err := charset.Lookup(name)
	if err != nil {
		cs = charset.Default()
		s.Notices = append(s.Notices,
			fmt.Sprintf("Unsupported encoding %q, using %s.", name, cs.Name))
	}
	s.Charset = cs

	return s
}
