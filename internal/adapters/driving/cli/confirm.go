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

	"github.com/custodia-labs/folio/internal/core/domain"
)

// errNeedsConfirmation is returned when a delete cannot be confirmed.
var errNeedsConfirmation = errors.New("not confirmed: run in a terminal or pass --yes")

// confirmer builds the delete gate for cmd. --yes approves everything.
// Otherwise the user is asked on stdin, unless stdin is a file or pipe
// that is not a terminal, in which case nothing is approved.
func confirmer(cmd *cobra.Command) domain.Confirm {
	if flagYes {
		return domain.AlwaysConfirm
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return promptConfirm(in, cmd.ErrOrStderr())
}

// promptConfirm asks on out and reads y/yes from in. Anything else,
// including end of input, is a no.
func promptConfirm(in io.Reader, out io.Writer) domain.Confirm {
	reader := bufio.NewReader(in)
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
