package httpx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Command shells out to curl as the secondary transport. Some upstreams
// reject the Go TLS stack or hang on the direct client; curl gets through.
type Command struct {
	bin  string
	args []string
}

var _ Strategy = (*Command)(nil)

// NewCommand builds the curl-backed strategy. Extra args (such as --resolve
// pins) are appended before the URL on every invocation.
func NewCommand(extraArgs ...string) *Command {
	return &Command{bin: "curl", args: extraArgs}
}

// Name identifies the strategy in logs.
func (c *Command) Name() string {
	return "curl"
}

// Fetch runs curl -L -sS --fail with the configured timeout.
func (c *Command) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	args := []string{"-L", "-sS", "--fail", "--max-time", strconv.Itoa(int(timeout.Seconds()))}
	args = append(args, c.args...)
	args = append(args, rawURL)

	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("curl %s: %s", rawURL, msg)
	}

	return stdout.Bytes(), nil
}
