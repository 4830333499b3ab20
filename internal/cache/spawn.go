package cache

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// UpdatedExitCode is the helper exit status meaning the cache file was
// rebuilt and should be reloaded.
const UpdatedExitCode = 33

// ExitStatus is how a helper process ended.
type ExitStatus struct {
	// Exited is true when the process exited normally with Code.
	Exited bool
	Code   int
	// Detail is a human readable description, e.g. "signal: killed".
	Detail string
}

// Updated reports whether the helper signaled a rebuilt cache.
func (s ExitStatus) Updated() bool {
	return s.Exited && s.Code == UpdatedExitCode
}

func (s ExitStatus) String() string {
	if s.Detail != "" {
		return s.Detail
	}
	if s.Exited {
		return fmt.Sprintf("exit status %d", s.Code)
	}
	return "terminated abnormally"
}

// Process is a running helper.
type Process interface {
	// Lower reduces the process scheduling priority where supported.
	Lower() error
	// Wait blocks until the process ends. It is called exactly once.
	Wait() ExitStatus
}

// Spawner launches the cache update helper.
type Spawner interface {
	Spawn(path string) (Process, error)
}

// ExecSpawner starts helpers with os/exec, detached from the daemon's
// process group and with no arguments or standard streams. Env is added
// to the inherited environment.
type ExecSpawner struct {
	Env []string
}

// Spawn starts the helper at path.
func (s ExecSpawner) Spawn(path string) (Process, error) {
	if path == "" {
		return nil, errors.New("no cache update helper configured")
	}
	cmd := exec.Command(path)
	cmd.SysProcAttr = detachedAttr()
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Lower() error {
	return lowerPriority(p.cmd.Process.Pid)
}

func (p *execProcess) Wait() ExitStatus {
	err := p.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return ExitStatus{Detail: err.Error()}
		}
	}
	return exitStatusOf(p.cmd.ProcessState)
}

func exitStatusOf(ps *os.ProcessState) ExitStatus {
	if ps == nil {
		return ExitStatus{}
	}
	return ExitStatus{
		Exited: ps.Exited(),
		Code:   ps.ExitCode(),
		Detail: ps.String(),
	}
}
