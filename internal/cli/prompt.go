package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauern/cusubmit/internal/export"
	"github.com/klauern/cusubmit/internal/model"
	"github.com/klauern/cusubmit/internal/ui"
	"github.com/klauern/cusubmit/internal/ui/tui"
)

// confirm asks whether operation may be applied to target. On a terminal the
// review screen is shown; otherwise the changelog is printed and a y/n answer
// is read from input.
func (e *env) confirm(cl *model.Changelog, operation, target string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}

	if e.interactive != nil && e.interactive() {
		result, err := tui.RunReview(cl, operation, target)
		if err != nil {
			return false, fmt.Errorf("review failed: %w", err)
		}
		return result.Confirmed, nil
	}

	fmt.Fprintln(e.out, ui.Changelog(strings.TrimRight(export.Text(cl), "\n")))
	fmt.Fprintf(e.out, "Confirm %s to %s? (y/N): ", operation, target)

	reader := bufio.NewReader(e.in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	fmt.Fprintln(e.out)

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes", "o", "oui":
		return true, nil
	default:
		return false, nil
	}
}
