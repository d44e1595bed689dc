package supervisor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/Project-OSRM/osrm-contract-tests/framework"
)

const maxReportedOutputLines = 20

// RunTool runs a preprocessing tool to completion. Its combined output is sent to the logger,
// and the last lines of it are included in the error if the tool fails.
func RunTool(ctx context.Context, logger framework.Logger, executable string, args ...string) error {
	if logger == nil {
		logger = framework.NullLogger()
	}
	cmd := exec.CommandContext(ctx, executable, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = outputDrainDelay

	commandLine := shellescape.QuoteCommand(cmd.Args)
	logger.Printf("running %s", commandLine)
	started := time.Now()
	err := cmd.Run()

	lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
	for _, line := range lines {
		if line != "" {
			logger.Printf("%s", line)
		}
	}
	if err != nil {
		if len(lines) > maxReportedOutputLines {
			lines = lines[len(lines)-maxReportedOutputLines:]
		}
		return fmt.Errorf("%s failed: %w\n%s", commandLine, err, strings.Join(lines, "\n"))
	}
	logger.Printf("%s finished in %s", commandLine, time.Since(started).Round(time.Millisecond))
	return nil
}
