package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultCLITimeout bounds short diagnostic invocations like version checks.
const DefaultCLITimeout = 30 * time.Second

// errCommandTimeout marks an invocation killed by its deadline.
var errCommandTimeout = errors.New("command timed out")

// execCommandWithTimeout executes a command with a timeout derived from the
// caller's context, so a client disconnect also cancels the process.
func execCommandWithTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("%w after %v", errCommandTimeout, timeout)
	}

	if err != nil {
		return output, err
	}

	return output, nil
}
