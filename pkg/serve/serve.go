package serve

import (
	"context"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
)

// New resolves the flow at source and returns the helper matching its
// runtime language.
func New(source string, opts ...Option) (AppHelper, error) {
	flowDir, flowFileName, err := resolveFlowPath(source)
	if err != nil {
		return nil, err
	}

	manifest, err := readManifest(filepath.Join(flowDir, flowFileName))
	if err != nil {
		return nil, err
	}

	switch manifest.Language {
	case LanguagePython:
		return NewPythonAppHelper(flowDir, manifest.Entry, opts...)
	case LanguageCSharp:
		return NewCSharpAppHelper(flowDir, flowFileName, opts...)
	default:
		return nil, errors.Errorf("unsupported flow language %s", manifest.Language)
	}
}

// FindAvailablePort returns a port that was free on localhost at the
// time of the call.
func FindAvailablePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, errors.Wrap(err, "unable to find an available port")
	}
	defer l.Close()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, errors.Errorf("unexpected listener address %s", l.Addr())
	}

	return addr.Port, nil
}

func resolvePort(set *settings) error {
	if set.port != 0 {
		return nil
	}

	port, err := FindAvailablePort()
	if err != nil {
		return err
	}

	set.port = port

	return nil
}

// terminateProcess asks a serve app to stop and waits for it. The app
// exiting because of the signal is the expected outcome, not an error.
func terminateProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	err := cmd.Process.Signal(syscall.SIGTERM)
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.Wrap(err, "unable to signal serve app")
	}

	var exitErr *exec.ExitError

	err = cmd.Wait()
	if err != nil && !errors.As(err, &exitErr) {
		return errors.Wrap(err, "unable to wait for serve app")
	}

	return nil
}

// runForeground runs a serve app until it exits. Cancellation is how a
// foreground app is stopped, so it does not surface as an error.
func runForeground(ctx context.Context, cmd *exec.Cmd) error {
	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}

	return errors.Wrap(err, "serve app failed")
}
