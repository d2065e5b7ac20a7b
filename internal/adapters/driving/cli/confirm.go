package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrNotConfirmed is returned when a destructive command is declined.
var ErrNotConfirmed = errors.New("cancelled")

// ErrConfirmationRequired is returned when stdin cannot answer a prompt.
var ErrConfirmationRequired = errors.New("refusing to delete without --yes when stdin is not a terminal")

// Prompt input, replaced in tests.
var (
	promptInput io.Reader = os.Stdin
	isTerminal            = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

// confirm asks question on the terminal and reports whether the user agreed.
// assumeYes skips the prompt.
func confirm(cmd *cobra.Command, question string, assumeYes bool) error {
	if assumeYes {
		return nil
	}
	if !isTerminal() {
		return ErrConfirmationRequired
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	answer, err := bufio.NewReader(promptInput).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return ErrNotConfirmed
	}
}
