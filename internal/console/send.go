package console

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/hexcodec"
)

// send forwards a non-command line to the device. Text mode sends the line
// with a newline; binary mode sends the hex bytes it spells, or nothing if
// it does not parse.
func (c *Console) send(ctx context.Context, line string) {
	if c.Mode() == domain.ModeText {
		c.say(KindSerial, "Sending message to port...")
		if err := c.link.WriteLine(line); err != nil {
			c.writeFailed(err)
		}
		return
	}

	data, err := hexcodec.ParseBytes(line)
	if err != nil {
		c.log.Debug("binary message rejected: %v", err)
		c.say(KindStandard, fmt.Sprintf("Could not parse message as hex bytes: %v", err))
		return
	}
	if len(data) == 0 {
		c.say(KindStandard, "Nothing to send.")
		return
	}

	c.say(KindSerial, fmt.Sprintf("Sending %d byte(s) to port...", len(data)))
	if err := c.link.WriteBytes(data); err != nil {
		c.writeFailed(err)
	}
}

func (c *Console) writeFailed(err error) {
	c.log.Error("writing to link: %v", err)
	c.say(KindSerial, fmt.Sprintf("Write failed: %v", err))
}
