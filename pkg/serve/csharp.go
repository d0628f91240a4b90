package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	executorServiceDLL = "Evalflow.ExecutorService.dll"

	// flowDirName is the working directory the serving layer keeps
	// inside a flow, holding generated init files.
	flowDirName = ".evalflow"
)

// CSharpAppHelper serves a csharp flow through the dotnet executor
// service. A non-empty init configuration is written to a json file
// inside the flow directory and removed again when the app stops.
type CSharpAppHelper struct {
	flowDir      string
	flowFileName string
	set          *settings

	cmd     *exec.Cmd
	cleanup func()
}

// NewCSharpAppHelper creates a helper for the flow manifest
// flowFileName in flowDir.
func NewCSharpAppHelper(flowDir, flowFileName string, opts ...Option) (*CSharpAppHelper, error) {
	set := newSettings(opts...)

	err := resolvePort(set)
	if err != nil {
		return nil, err
	}

	return &CSharpAppHelper{
		flowDir:      flowDir,
		flowFileName: flowFileName,
		set:          set,
	}, nil
}

// Port returns the port the app binds to.
func (h *CSharpAppHelper) Port() int {
	return h.set.port
}

// writeInitFile persists the init configuration for the executor
// service and returns how to remove it again.
func (h *CSharpAppHelper) writeInitFile() (string, func(), error) {
	if len(h.set.init) == 0 {
		return "", func() {}, nil
	}

	dir := filepath.Join(h.flowDir, flowDirName)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", nil, errors.Wrapf(err, "unable to create %s", dir)
	}

	payload, err := json.Marshal(h.set.init)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to encode init configuration")
	}

	path := filepath.Join(dir, fmt.Sprintf("init-%s.json", uuid.NewString()))

	err = os.WriteFile(path, payload, 0o644)
	if err != nil {
		return "", nil, errors.Wrapf(err, "unable to write init file %s", path)
	}

	cleanup := func() {
		err := os.Remove(path)
		if err != nil {
			h.set.log.Warn("unable to remove init file", "path", path, "error", err)
		}
	}

	return path, cleanup, nil
}

func (h *CSharpAppHelper) command(ctx context.Context, initPath string) *exec.Cmd {
	args := []string{
		executorServiceDLL,
		"--port", strconv.Itoa(h.set.port),
		"--yaml_path", h.flowFileName,
		"--assembly_folder", ".",
		"--serving",
	}

	if initPath != "" {
		args = append(args, "--init", initPath)
	}

	cmd := exec.CommandContext(ctx, "dotnet", args...)
	cmd.Dir = h.flowDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd
}

// StartInMain runs the executor service in the foreground.
func (h *CSharpAppHelper) StartInMain(ctx context.Context) error {
	initPath, cleanup, err := h.writeInitFile()
	if err != nil {
		return err
	}
	defer cleanup()

	h.set.log.Info("serving csharp flow", "dir", h.flowDir, "manifest", h.flowFileName, "port", h.set.port)

	return runForeground(ctx, h.command(ctx, initPath))
}

// Start spawns the executor service in the background.
func (h *CSharpAppHelper) Start(ctx context.Context) error {
	initPath, cleanup, err := h.writeInitFile()
	if err != nil {
		return err
	}

	cmd := h.command(ctx, initPath)

	err = cmd.Start()
	if err != nil {
		cleanup()

		return errors.Wrap(err, "unable to start serve app")
	}

	h.cmd = cmd
	h.cleanup = cleanup

	return nil
}

// Terminate stops a background executor service, waits for it and
// removes the generated init file.
func (h *CSharpAppHelper) Terminate() error {
	err := terminateProcess(h.cmd)
	h.cmd = nil

	if h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}

	return err
}

var _ AppHelper = (*CSharpAppHelper)(nil)
