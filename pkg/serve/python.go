package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// initEnvVar carries the init configuration to the python app as JSON.
const initEnvVar = "EVALFLOW_INIT"

// PythonAppHelper serves a python flow by running its entry script with
// host and port flags. The process inherits stdout and stderr.
type PythonAppHelper struct {
	flowDir string
	entry   string
	set     *settings

	cmd *exec.Cmd
}

// NewPythonAppHelper creates a helper for the flow in flowDir, served
// by the given entry script.
func NewPythonAppHelper(flowDir, entry string, opts ...Option) (*PythonAppHelper, error) {
	if entry == "" {
		return nil, ErrEntryMustBeSet
	}

	set := newSettings(opts...)

	err := resolvePort(set)
	if err != nil {
		return nil, err
	}

	return &PythonAppHelper{
		flowDir: flowDir,
		entry:   entry,
		set:     set,
	}, nil
}

// Port returns the port the app binds to.
func (h *PythonAppHelper) Port() int {
	return h.set.port
}

func (h *PythonAppHelper) command(ctx context.Context) (*exec.Cmd, error) {
	cmd := exec.CommandContext(ctx, "python", h.entry, "--host", h.set.host, "--port", strconv.Itoa(h.set.port))
	cmd.Dir = h.flowDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	env := os.Environ()

	if len(h.set.init) > 0 {
		payload, err := json.Marshal(h.set.init)
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode init configuration")
		}

		env = append(env, initEnvVar+"="+string(payload))
	}

	keys := make([]string, 0, len(h.set.env))
	for k := range h.set.env {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+h.set.env[k])
	}

	cmd.Env = env

	return cmd, nil
}

// StartInMain runs the app in the foreground, opening the system
// browser on it first unless disabled.
func (h *PythonAppHelper) StartInMain(ctx context.Context) error {
	cmd, err := h.command(ctx)
	if err != nil {
		return err
	}

	if !h.set.skipOpenBrowser {
		target := fmt.Sprintf("http://%s:%d", h.set.host, h.set.port)
		h.set.log.Info("opening browser", "url", target)

		err := openBrowser(target)
		if err != nil {
			h.set.log.Warn("unable to open browser", "error", err)
		}
	}

	h.set.log.Info("serving python flow", "dir", h.flowDir, "entry", h.entry, "host", h.set.host, "port", h.set.port)

	return runForeground(ctx, cmd)
}

// Start spawns the app in the background.
func (h *PythonAppHelper) Start(ctx context.Context) error {
	cmd, err := h.command(ctx)
	if err != nil {
		return err
	}

	err = cmd.Start()
	if err != nil {
		return errors.Wrap(err, "unable to start serve app")
	}

	h.cmd = cmd

	return nil
}

// Terminate stops a background app and waits for it.
func (h *PythonAppHelper) Terminate() error {
	err := terminateProcess(h.cmd)
	h.cmd = nil

	return err
}

// openBrowser points the default system browser at url.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

var _ AppHelper = (*PythonAppHelper)(nil)
