package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hammamikhairi/duinoprompt/internal/command"
	"github.com/hammamikhairi/duinoprompt/internal/domain"
	"github.com/hammamikhairi/duinoprompt/internal/hexcodec"
)

func (c *Console) registerCommands() {
	c.cmds.Register("help", "/help",
		"Displays information for all available commands.", c.help)
	if c.Mode() == domain.ModeText {
		c.cmds.Register("literal", "/literal [text]",
			"Sends a literal string, no commands or newlines, to the serial port.", c.literal)
	}
	c.cmds.Register("input", "/input <view|clear|amount>",
		"Display or clear the serial input buffer.", c.input)
	c.cmds.Register("byte2hex", "/byte2hex <decimal>",
		"Shows the hex value of a decimal byte.", c.byteToHex)
	c.cmds.Register("char2hex", "/char2hex <char>",
		"Shows the byte and hex value of a character.", c.charToHex)
	if c.Mode() == domain.ModeBinary {
		c.cmds.Register("hex2byte", "/hex2byte <0xHH|&hHH>",
			"Shows the decimal value, and character if printable, of a hex byte.", c.hexToByte)
	}
	c.cmds.Register("clear", "/clear",
		"Clears the screen and its history.", c.clear)
	c.cmds.Register("exit", "/exit", "Exits the program.",
		func(context.Context, string) command.Result { return command.ResultExit })
}

func (c *Console) help(ctx context.Context, args string) command.Result {
	c.rec.SetForeground(domain.Green)
	c.rec.WriteLine("Available commands:")
	for _, e := range c.cmds.Entries() {
		c.rec.SetForeground(domain.Magenta)
		c.rec.Write(e.Usage)
		c.rec.SetForeground(domain.Cyan)
		c.rec.Write(" - ")
		c.rec.SetForeground(domain.DarkYellow)
		c.rec.WriteLine(e.Description)
	}
	c.rec.SetForeground(domain.Gray)
	return command.ResultContinue
}

func (c *Console) literal(ctx context.Context, args string) command.Result {
	text := args
	if text == "" {
		c.say(KindPrompt, "Please input literal message to be sent to serial port.")
		line, err := c.readInput()
		if err != nil {
			c.log.Warn("literal: reading message: %v", err)
			return command.ResultContinue
		}
		text = line
	}

	c.say(KindSerial, "Sending literal message to serial port without newline...")
	if err := c.link.Write(text); err != nil {
		c.writeFailed(err)
	}
	return command.ResultContinue
}

func (c *Console) input(ctx context.Context, args string) command.Result {
	switch strings.ToUpper(strings.TrimSpace(args)) {
	case "VIEW":
		c.view.Run(ctx)
	case "CLEAR":
		c.buf.Clear()
		c.say(KindStandard, "Input buffer cleared.")
	case "AMOUNT":
		c.say(KindStandard, fmt.Sprintf("Buffer contains %d byte(s) of received data.", c.buf.Units()))
	default:
		c.say(KindStandard, "Must specify action: VIEW, CLEAR, or AMOUNT.")
	}
	return command.ResultContinue
}

func (c *Console) byteToHex(ctx context.Context, args string) command.Result {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 0 || n > 255 {
		c.say(KindStandard, fmt.Sprintf("Invalid byte %q: expected a decimal number from 0 to 255.", strings.TrimSpace(args)))
		return command.ResultContinue
	}
	c.say(KindStandard, "Hex value: 0x"+hexcodec.ByteToHex(byte(n)))
	return command.ResultContinue
}

func (c *Console) charToHex(ctx context.Context, args string) command.Result {
	s := args
	if utf8.RuneCountInString(s) != 1 {
		s = strings.TrimSpace(s)
	}
	if utf8.RuneCountInString(s) != 1 {
		c.say(KindStandard, "Must specify exactly one character.")
		return command.ResultContinue
	}

	r, _ := utf8.DecodeRuneInString(s)
	b, hex, err := hexcodec.CharToByteInfo(r)
	if err != nil {
		c.say(KindStandard, fmt.Sprintf("Character %q is not a single byte.", r))
		return command.ResultContinue
	}
	c.say(KindStandard, fmt.Sprintf("Byte value: %d, hex value: 0x%s", b, hex))
	return command.ResultContinue
}

func (c *Console) hexToByte(ctx context.Context, args string) command.Result {
	b, err := hexcodec.HexToByte(args)
	if err != nil {
		c.log.Debug("hex2byte: %v", err)
		c.say(KindStandard, fmt.Sprintf("Invalid hex byte %q: expected 0xHH or &hHH.", strings.TrimSpace(args)))
		return command.ResultContinue
	}
	c.say(KindStandard, fmt.Sprintf("Byte value: %d", b))
	if r := rune(b); hexcodec.IsPrintable(r) {
		c.say(KindStandard, fmt.Sprintf("Character value: '%c'", r))
	}
	return command.ResultContinue
}

func (c *Console) clear(ctx context.Context, args string) command.Result {
	c.rec.Clear()
	return command.ResultContinue
}
