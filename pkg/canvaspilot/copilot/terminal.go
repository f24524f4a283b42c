// Package copilot – terminal.go holds small terminal input helpers used by
// the CLI setup flow.
package copilot

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ReadPassword prompts for a secret without echoing it. Falls back to
// plain stdin reading when there is no TTY (piped input, CI).
func ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	password, err := term.ReadPassword(fd)
	if err != nil {
		var buf [1024]byte
		n, readErr := os.Stdin.Read(buf[:])
		if readErr != nil {
			return "", fmt.Errorf("reading password: %w", readErr)
		}
		password = buf[:n]
	}

	fmt.Println() // Move to next line after hidden input.

	return strings.TrimRight(string(password), "\r\n"), nil
}
