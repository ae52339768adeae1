package uci

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

// process owns the engine subprocess handle and its three pipes.
// Ownership is exclusive to one Bridge; the Bridge's stop path is the only
// code that signals or reaps it.
type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	waitOnce sync.Once
	waitErr  error
}

// startProcess spawns the engine with its standard streams redirected to
// pipes. The executable is checked up front so a missing or non-executable
// path fails with ErrSpawn before any OS spawn attempt.
func startProcess(path string) (*process, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", chessmcp.ErrSpawn, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", chessmcp.ErrSpawn, path)
	}
	if info.Mode().Perm()&0o111 == 0 {
		return nil, fmt.Errorf("%w: %s is not executable", chessmcp.ErrSpawn, path)
	}

	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", chessmcp.ErrSpawn, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", chessmcp.ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %v", chessmcp.ErrSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", chessmcp.ErrSpawn, path, err)
	}

	return &process{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// signal sends sig to the engine, returning nil if the process has
// already exited.
func (p *process) signal(sig os.Signal) error {
	err := p.cmd.Process.Signal(sig)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// kill forcefully terminates the engine. Best-effort: a process that
// already exited is not an error.
func (p *process) kill() {
	_ = p.signal(os.Kill)
}

// wait reaps the child exactly once and caches the result. Callers must
// not invoke wait until the stdout pump has finished reading — cmd.Wait
// closes the pipes.
func (p *process) wait() error {
	p.waitOnce.Do(func() {
		p.waitErr = p.cmd.Wait()
	})
	return p.waitErr
}
