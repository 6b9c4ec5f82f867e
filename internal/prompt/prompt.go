// Package prompt asks the user simple questions on stdin.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Config controls how prompts behave.
type Config struct {
	// NonInteractive answers every prompt with its default.
	NonInteractive bool
	// In defaults to os.Stdin.
	In io.Reader
}

func (cfg Config) reader() *bufio.Reader {
	in := cfg.In
	if in == nil {
		in = os.Stdin
	}
	return bufio.NewReader(in)
}

// Confirm asks the user a yes/no question. Non-interactive mode
// answers yes.
func Confirm(question string, cfg Config) bool {
	if cfg.NonInteractive {
		return true
	}

	fmt.Printf("%s (y/n): ", question)
	response, err := cfg.reader().ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// WaitForKey blocks until the user presses Enter.
func WaitForKey(message string, cfg Config) {
	if cfg.NonInteractive {
		return
	}
	fmt.Print(message)
	cfg.reader().ReadBytes('\n')
}
