package scripts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the configuration for the Runner
type Config struct {
	PythonRunner string        // launcher for helper scripts, "uv" runs them as `uv run <script>`
	ScriptsPath  string        // directory holding transcribe.py / summarize.py
	Timeout      time.Duration // per-invocation limit, zero disables it
	Environment  []string      // additional environment variables
}

// Runner executes external helper tools and Python scripts that report
// their results as JSON on stdout.
type Runner struct {
	config  Config
	logger  *logrus.Entry
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewRunner(cfg Config) *Runner {
	if cfg.PythonRunner == "" {
		cfg.PythonRunner = "uv"
	}
	return &Runner{
		config:  cfg,
		logger:  logrus.WithField("component", "scripts"),
		command: exec.CommandContext,
	}
}

// Exec runs an arbitrary binary and returns its stdout.
func (r *Runner) Exec(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	const op = "Runner.Exec"

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	logger := r.logger.WithFields(logrus.Fields{
		"command": name,
		"args":    args,
		"dir":     dir,
	})
	logger.Debug("Executing command")

	cmd := r.command(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.config.Environment...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrOutput := stderr.String()
		logger.WithFields(logrus.Fields{
			"error":  err,
			"stderr": stderrOutput,
		}).Error("Command execution failed")

		return nil, &ScriptError{
			Op:      op,
			Err:     err,
			Message: "command execution failed",
			Stderr:  stderrOutput,
		}
	}

	return stdout.Bytes(), nil
}

// RunScript runs a helper script from ScriptsPath with --key=value
// arguments and --flag switches, always requesting JSON output.
func (r *Runner) RunScript(
	ctx context.Context,
	scriptName string,
	args map[string]string,
	flags []string,
) ([]byte, error) {
	const op = "Runner.RunScript"

	scriptPath, err := filepath.Abs(filepath.Join(r.config.ScriptsPath, scriptName))
	if err != nil {
		return nil, &ScriptError{Op: op, Err: err, Message: "failed to resolve script path"}
	}
	cmdArgs := buildCommandArgs(scriptPath, args, flags)
	if r.config.PythonRunner == "uv" {
		cmdArgs = append([]string{"run"}, cmdArgs...)
	}

	output, err := r.Exec(ctx, "", r.config.PythonRunner, cmdArgs...)
	if err != nil {
		return nil, err
	}

	if err := validateJSONOutput(output); err != nil {
		r.logger.WithError(err).WithField("output", string(output)).Error("Invalid JSON output")
		return nil, &ScriptError{Op: op, Err: err, Message: fmt.Sprintf("%s returned invalid output", scriptName)}
	}

	return output, nil
}

func buildCommandArgs(scriptPath string, args map[string]string, flags []string) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmdArgs := []string{scriptPath}
	for _, k := range keys {
		if v := args[k]; v != "" {
			cmdArgs = append(cmdArgs, fmt.Sprintf("--%s=%s", k, v))
		}
	}
	for _, flag := range flags {
		cmdArgs = append(cmdArgs, fmt.Sprintf("--%s", flag))
	}
	return append(cmdArgs, "--json")
}

func Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return nil
}

func validateJSONOutput(output []byte) error {
	var jsonTest interface{}
	if err := json.Unmarshal(output, &jsonTest); err != nil {
		return fmt.Errorf("invalid JSON output: %v", err)
	}
	return nil
}
