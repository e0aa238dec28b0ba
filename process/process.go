// Package process is the Tube transport that drives a spawned child,
// pipeing its stdin/stdout/stderr and optionally disabling ASLR for the
// duration of the exec.
package process

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/relaysec/pwngo"
	"github.com/relaysec/pwngo/logging"
)

// ErrEmptyArgs is returned by New when argv is empty.
var ErrEmptyArgs = errors.New("process: argv was empty")

// Config controls how New spawns a child.
type Config struct {
	// ASLR, when false, disables address-space layout randomisation for
	// the spawned child by bracketing exec with personality(2). True by
	// default, matching the distilled spec's ProcessConfig.
	ASLR bool
}

// DefaultConfig returns a Config whose ASLR field is read from the
// process-wide pwngo.Settings, which leave ASLR enabled unless changed.
func DefaultConfig() Config {
	var cfg Config
	pwngo.Access(func(s *pwngo.Settings) { cfg.ASLR = s.ASLR })
	return cfg
}

// Process is a Tube transport over a spawned child's piped stdio.
type Process struct {
	*pwngo.Tube

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	stdinMu  sync.Mutex
	stdoutMu sync.Mutex
	stderrMu sync.Mutex

	exitCh     chan struct{}
	exitStatus string

	// StderrTube shares the stderr stream as a second Tube, letting
	// callers drain diagnostic output independently of stdout (see
	// SPEC_FULL.md §4.6).
	StderrTube *pwngo.Tube
}

// stderrTransport adapts Process's stderr pipe to pwngo.Transport without
// exposing it as the primary tube.
type stderrTransport struct {
	p *Process
}

func (s *stderrTransport) RecvRaw(maxHint int, deadline time.Duration) ([]byte, error) {
	return s.p.recvFrom(s.p.stderr, &s.p.stderrMu, maxHint, deadline)
}

func (s *stderrTransport) SendRaw([]byte, time.Duration) error {
	return errors.New("process: stderr tube is receive-only")
}

// New spawns argv[0] with the remaining elements as arguments. If
// cfg.ASLR is false, the calling thread's personality has
// ADDR_NO_RANDOMIZE OR'd in immediately before Start and restored
// immediately after -- the child inherits the disabled-ASLR personality at
// exec.
func New(argv []string, cfg Config) (*Process, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyArgs
	}

	var origPersonality uintptr
	var restoreNeeded bool
	if !cfg.ASLR {
		// personality(2) is per thread: keep this goroutine on one OS thread
		// so the fork in Start and the restore below see the changed value.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		orig, err := disableASLR()
		if err != nil {
			return nil, errors.Wrap(err, "process: disabling ASLR")
		}
		origPersonality = orig
		restoreNeeded = true
	}

	cmd := exec.Command(argv[0], argv[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "process: stdin pipe")
	}

	// stdout/stderr are wired through our own os.Pipe() rather than
	// cmd.StdoutPipe()/StderrPipe(): those close the parent's read end as
	// soon as Wait observes the child exit, which races the supervisor
	// goroutine against any read still in flight and can discard output a
	// short-lived child already wrote but nobody read yet. Pipes we create
	// and close ourselves are untouched by Wait.
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "process: stdout pipe")
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "process: stderr pipe")
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	startErr := cmd.Start()

	// The parent's copy of the write end must be closed regardless of
	// Start's outcome so the read end observes EOF once the child (the
	// other holder of the write end) exits.
	stdoutW.Close()
	stderrW.Close()

	if restoreNeeded {
		if err := restorePersonality(origPersonality); err != nil {
			logging.Warn(fmt.Sprintf("failed to restore personality after spawn: %v", err))
		}
	}

	if startErr != nil {
		stdoutR.Close()
		stderrR.Close()
		return nil, errors.Wrap(startErr, "process: start")
	}

	logging.Info(fmt.Sprintf("Starting local process '%s': pid %d", argv[0], cmd.Process.Pid))

	p := &Process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdoutR,
		stderr: stderrR,
		exitCh: make(chan struct{}),
	}
	p.Tube = pwngo.NewTube(p)
	p.StderrTube = pwngo.NewTube(&stderrTransport{p: p})

	go p.supervise()

	return p, nil
}

// supervise awaits the child's exit and logs the resulting status, mirroring
// the distilled spec's "Spawn a supervisor task that awaits child exit and
// prints the status."
func (p *Process) supervise() {
	err := p.cmd.Wait()
	status := p.cmd.ProcessState.String()
	if err != nil && p.cmd.ProcessState == nil {
		status = err.Error()
	}
	p.exitStatus = status
	close(p.exitCh)
	logging.Info(fmt.Sprintf("child status was: %s", status))
}

// PID returns the spawned child's process ID.
func (p *Process) PID() int { return p.cmd.Process.Pid }

// recvFrom is shared by stdout's RecvRaw and the stderr transport: read
// whatever is available within deadline, treating a timeout as "zero bytes"
// and an EOF after process exit as RecvError.
func (p *Process) recvFrom(r io.Reader, mu *sync.Mutex, maxHint int, deadline time.Duration) ([]byte, error) {
	size := maxHint
	if size <= 0 {
		size = 4096
	}
	buf := make([]byte, size)

	n, err := pwngo.RunBounded(func() (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return r.Read(buf)
	}, deadline)

	if errors.Is(err, pwngo.ErrTimeout) {
		return nil, nil
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			select {
			case <-p.exitCh:
				return nil, pwngo.NewRecvError(p.exitStatus)
			default:
				return nil, pwngo.NewRecvError("")
			}
		}
		return nil, errors.Wrap(err, "process: recv")
	}
	return buf[:n], nil
}

// RecvRaw satisfies pwngo.Transport by reading from the child's stdout.
func (p *Process) RecvRaw(maxHint int, deadline time.Duration) ([]byte, error) {
	return p.recvFrom(p.stdout, &p.stdoutMu, maxHint, deadline)
}

// SendRaw satisfies pwngo.Transport by writing all of data to the child's
// stdin. A deadline elapsing mid-write surfaces as an error rather than
// being swallowed -- see SPEC_FULL.md §9's resolved open question.
func (p *Process) SendRaw(data []byte, deadline time.Duration) error {
	_, err := pwngo.RunBounded(func() (int, error) {
		p.stdinMu.Lock()
		defer p.stdinMu.Unlock()
		return pwngo.WriteVectorised(p.stdin, data)
	}, deadline)

	if errors.Is(err, pwngo.ErrTimeout) {
		return errors.Wrap(io.ErrShortWrite, "process: send timed out")
	}
	if err != nil {
		return errors.Wrap(err, "process: send")
	}
	return nil
}
