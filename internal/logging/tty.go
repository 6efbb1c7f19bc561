package logging

import (
	"io"
	"os"

	"github.com/benoctopus/devflow/internal/tty"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return tty.IsTerminal(f)
}
