package adapters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"apt-warden/internal/ports"
)

// StdinConfirmAdapter asks a yes/no question on the terminal. Only the
// manual fix mode uses it; everything else in the pipeline is
// non-interactive.
type StdinConfirmAdapter struct {
	In  io.Reader
	Out io.Writer
}

func NewStdinConfirmAdapter() StdinConfirmAdapter {
	return StdinConfirmAdapter{In: os.Stdin, Out: os.Stdout}
}

func (a StdinConfirmAdapter) Confirm(prompt string) (bool, error) {
	if _, err := fmt.Fprintf(a.Out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	reader := bufio.NewReader(a.In)
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

var _ ports.ConfirmPort = StdinConfirmAdapter{}
