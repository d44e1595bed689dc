package supervisor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alessio/shellescape"
	"golang.org/x/sys/unix"

	"github.com/Project-OSRM/osrm-contract-tests/framework"
)

const (
	// DefaultReadyToken is the text that the server prints once it has loaded its dataset.
	DefaultReadyToken = "running and waiting for requests"

	DefaultReadyTimeout = 30 * time.Second
	DefaultStopTimeout  = 5 * time.Second

	maxLineLength    = 1024 * 1024
	outputDrainDelay = time.Second
)

var (
	// ErrSpawnFailed means the server process could not be started at all.
	ErrSpawnFailed = errors.New("could not start server")
	// ErrReadinessTimeout means the server did not print its readiness token in time.
	ErrReadinessTimeout = errors.New("timed out waiting for server to become ready")
	// ErrExitedBeforeReady means the server exited before printing its readiness token.
	ErrExitedBeforeReady = errors.New("server exited before it was ready")
)

type Config struct {
	ReadyToken   string
	ReadyTimeout time.Duration
	StopTimeout  time.Duration
	// Logger receives every line the server writes to stdout or stderr.
	Logger framework.Logger
}

// Supervisor runs at most one server process at a time. It is owned by a single scenario, which
// must call Stop before another scenario starts a server on the same port.
type Supervisor struct {
	config Config

	lock    sync.Mutex
	cmd     *exec.Cmd
	ready   chan struct{}
	exited  chan struct{}
	exitErr error
}

func New(config Config) *Supervisor {
	if config.ReadyToken == "" {
		config.ReadyToken = DefaultReadyToken
	}
	if config.ReadyTimeout <= 0 {
		config.ReadyTimeout = DefaultReadyTimeout
	}
	if config.StopTimeout <= 0 {
		config.StopTimeout = DefaultStopTimeout
	}
	if config.Logger == nil {
		config.Logger = framework.NullLogger()
	}
	return &Supervisor{config: config}
}

// EnsureRunning starts the server with the dataset as its only argument and blocks until it is
// ready to serve requests. If a server started by an earlier call is already ready and still
// running, it returns immediately.
//
// If the server does not become ready within the readiness timeout, or ctx is cancelled first,
// the process is stopped and an error is returned. A failure to start is never retried.
func (s *Supervisor) EnsureRunning(ctx context.Context, executable, dataset string) error {
	s.lock.Lock()
	if s.cmd != nil && s.isReady() && !s.hasExited() {
		s.lock.Unlock()
		return nil
	}
	if s.cmd != nil {
		s.lock.Unlock()
		s.Stop()
		s.lock.Lock()
	}
	if err := s.start(executable, dataset); err != nil {
		s.lock.Unlock()
		return err
	}
	ready, exited := s.ready, s.exited
	s.lock.Unlock()

	timeout := time.NewTimer(s.config.ReadyTimeout)
	defer timeout.Stop()

	select {
	case <-ready:
		return nil
	case <-exited:
		return fmt.Errorf("%w: %s", ErrExitedBeforeReady, describeExit(s.exitErr))
	case <-timeout.C:
		s.Stop()
		return fmt.Errorf("%w after %s", ErrReadinessTimeout, s.config.ReadyTimeout)
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	}
}

func (s *Supervisor) start(executable, dataset string) error {
	cmd := exec.Command(executable, dataset)
	// The server gets its own process group, so that anything it leaves behind can be signalled
	// with it even after it has been reparented.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// Wait returns this long after the server exits even if a descendant still holds its output.
	cmd.WaitDelay = outputDrainDelay
	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()
	cmd.Stdout, cmd.Stderr = stdoutWriter, stderrWriter
	s.config.Logger.Printf("starting %s", shellescape.QuoteCommand(cmd.Args))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s", ErrSpawnFailed, err)
	}

	s.cmd = cmd
	s.ready = make(chan struct{})
	s.exited = make(chan struct{})
	s.exitErr = nil

	go s.scan(stdoutReader, s.ready)
	go s.scan(stderrReader, nil)
	exited := s.exited
	pgid := cmd.Process.Pid
	go func() {
		err := cmd.Wait()
		_ = stdoutWriter.Close()
		_ = stderrWriter.Close()
		// the server is gone, so nothing it started is needed any more
		_ = unix.Kill(-pgid, unix.SIGKILL)
		s.lock.Lock()
		s.exitErr = err
		s.lock.Unlock()
		s.config.Logger.Printf("server exited: %s", describeExit(err))
		close(exited)
	}()
	return nil
}

// scan forwards the lines of one output stream to the logger. If ready is not nil, it is closed
// when the first line containing the readiness token arrives.
func (s *Supervisor) scan(r io.Reader, ready chan struct{}) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := scanner.Text()
		s.config.Logger.Printf("%s", line)
		if ready != nil && strings.Contains(line, s.config.ReadyToken) {
			close(ready)
			ready = nil
		}
	}
	// keep draining if the line was too long, so the child never blocks on a full pipe
	_, _ = io.Copy(io.Discard, r)
}

// Ready returns true if the current server has printed its readiness token and is still running.
func (s *Supervisor) Ready() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.cmd != nil && s.isReady() && !s.hasExited()
}

// PID returns the process id of the current server, or 0 if none was started.
func (s *Supervisor) PID() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Stop terminates the server, its process group, and every process it started, and waits for the
// server to exit. Processes that ignore SIGTERM are killed after the stop timeout. Calling Stop
// when no server is running does nothing.
func (s *Supervisor) Stop() {
	s.lock.Lock()
	cmd, exited := s.cmd, s.exited
	s.cmd = nil
	s.lock.Unlock()
	if cmd == nil {
		return
	}

	pid := cmd.Process.Pid
	tree := processTree(int32(pid))
	terminate(tree)
	_ = unix.Kill(-pid, unix.SIGTERM)
	timeout := time.NewTimer(s.config.StopTimeout)
	defer timeout.Stop()
	select {
	case <-exited:
		return
	case <-timeout.C:
	}
	s.config.Logger.Printf("server did not exit within %s, killing it", s.config.StopTimeout)
	kill(tree)
	_ = unix.Kill(-pid, unix.SIGKILL)
	_ = cmd.Process.Kill()
	<-exited
}

func (s *Supervisor) isReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

func (s *Supervisor) hasExited() bool {
	select {
	case <-s.exited:
		return true
	default:
		return false
	}
}

func describeExit(err error) string {
	if err == nil {
		return "exit status 0"
	}
	return err.Error()
}
