package synth

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/secrethelper/secrethelper/envconfig"
)

// Process supervises a locally spawned model runner: the Python sidecar
// started out of the venv that `secrethelper setup` provisioned.
type Process struct {
	cmd    *exec.Cmd
	Runner *Runner
}

// StartProcess launches the runner from dir and waits until it answers
// health checks. The caller owns the process and must Close it.
func StartProcess(ctx context.Context, dir string) (*Process, error) {
	python := venvPython(dir)
	if _, err := os.Stat(python); err != nil {
		return nil, fmt.Errorf("no venv in %s, run: secrethelper setup", dir)
	}

	cmd := exec.Command(python, runnerArgs(dir)...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "SECRETHELPER_DEVICE="+envconfig.Device)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start model runner: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			slog.Debug("runner", "line", scanner.Text())
		}
	}()

	p := &Process{cmd: cmd, Runner: NewRunner()}
	if err := p.waitUntilHealthy(ctx); err != nil {
		p.Close()
		return nil, err
	}
	slog.Info("model runner started", "pid", cmd.Process.Pid, "host", envconfig.RunnerHost)
	return p, nil
}

func venvPython(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "venv", "Scripts", "python.exe")
	}
	return filepath.Join(dir, "venv", "bin", "python")
}

func runnerArgs(dir string) []string {
	return []string{
		filepath.Join(dir, "runner.py"),
		"--host", envconfig.RunnerHost,
		"--music-model", envconfig.MusicModel,
		"--vocal-model", envconfig.VocalModel,
	}
}

// waitUntilHealthy polls the runner until it responds. Model loading on
// first start can take a while, so the window is generous.
func (p *Process) waitUntilHealthy(ctx context.Context) error {
	deadline := time.Now().Add(2 * time.Minute)
	for time.Now().Before(deadline) {
		if ok, _ := p.Runner.Ping(ctx); ok {
			return nil
		}
		if p.cmd.ProcessState != nil {
			return fmt.Errorf("model runner exited during startup: %s", p.cmd.ProcessState)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("model runner did not become healthy in time")
}

// Close stops the runner process.
func (p *Process) Close() error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil {
		return err
	}
	p.cmd.Wait()
	return nil
}
