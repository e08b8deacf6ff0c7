// Package setup provisions the Python environment the model runner needs:
// a virtual environment, a torch build matching the device, and the rest
// of the runner's requirements.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const (
	cpuIndexURL  = "https://download.pytorch.org/whl/cpu"
	cudaIndexURL = "https://download.pytorch.org/whl/cu121"
)

var ErrPythonNotFound = errors.New("python not found, install Python 3.10 or newer and make sure it is on your PATH")

// CommandRunner abstracts the process invocations so the install flow can
// be tested without a real interpreter.
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands for real, streaming their output through.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

type Options struct {
	GPU bool
	Dir string // repo root holding venv/ and requirements.txt; default "."
}

// Run performs the install. A missing interpreter or a failed venv creation
// aborts before any package installs; the installs themselves are attempted
// unconditionally and their failures are logged rather than fatal.
func Run(ctx context.Context, runner CommandRunner, w io.Writer, opts Options) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	python, err := findPython(runner)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Creating virtual environment...")
	venv := filepath.Join(dir, "venv")
	if err := runner.Run(ctx, python, "-m", "venv", venv); err != nil {
		return fmt.Errorf("could not create virtual environment: %w", err)
	}

	index := cpuIndexURL
	build := "CPU"
	if opts.GPU {
		index = cudaIndexURL
		build = "CUDA"
	}

	pip := pipPath(venv)
	fmt.Fprintf(w, "Installing PyTorch (%s build)...\n", build)
	if err := runner.Run(ctx, pip, "install", "torch", "torchvision", "torchaudio", "--index-url", index); err != nil {
		slog.Warn("torch install failed", "error", err)
	}

	requirements := filepath.Join(dir, "requirements.txt")
	if err := writeRequirements(requirements); err != nil {
		slog.Warn("could not write requirements file", "error", err)
	}
	fmt.Fprintln(w, "Installing requirements...")
	if err := runner.Run(ctx, pip, "install", "-r", requirements); err != nil {
		slog.Warn("requirements install failed", "error", err)
	}

	banner(w, opts.GPU)
	return nil
}

func findPython(runner CommandRunner) (string, error) {
	for _, name := range []string{"python", "python3"} {
		if path, err := runner.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrPythonNotFound
}

func pipPath(venv string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venv, "Scripts", "pip.exe")
	}
	return filepath.Join(venv, "bin", "pip")
}

// banner prints next steps. CPU and GPU output differ only in the device
// configuration lines.
func banner(w io.Writer, gpu bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Setup complete.")
	if gpu {
		fmt.Fprintln(w, "Set SECRETHELPER_DEVICE=cuda to run the models on your GPU.")
	} else {
		fmt.Fprintln(w, "No device configuration needed, CPU is the default.")
	}
	fmt.Fprintln(w, "Start the server with: secrethelper serve")
	fmt.Fprintln(w, "Then open http://127.0.0.1:7860")
}

// runnerRequirements is everything the model runner imports beyond torch.
const runnerRequirements = `transformers>=4.39
accelerate
scipy
soundfile
flask
requests
`

// writeRequirements materializes the runner's requirements next to the venv
// unless the user already maintains their own copy.
func writeRequirements(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(runnerRequirements), 0o644)
}
