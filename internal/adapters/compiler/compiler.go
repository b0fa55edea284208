package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// CairoCompiler runs the external Cairo 0 compiler and canonicalizes its output
type CairoCompiler struct {
	log         *slog.Logger
	projectRoot string
	sourceDir   string
	buildDir    string
	command     string
	cairoPaths  []string
	debug       bool
	debugOut    io.Writer
}

// NewCairoCompiler creates a compiler adapter from runtime configuration
func NewCairoCompiler(cfg *config.RuntimeConfig, log *slog.Logger) *CairoCompiler {
	return &CairoCompiler{
		log:         log.With("component", "CairoCompiler"),
		projectRoot: cfg.ProjectRoot,
		sourceDir:   cfg.SourceDir,
		buildDir:    cfg.BuildDir,
		command:     cfg.Compiler.Command,
		cairoPaths:  cfg.Compiler.CairoPaths,
		debug:       cfg.Debug,
		debugOut:    os.Stderr,
	}
}

// ArtifactPath returns <build>/<name>.json
func (c *CairoCompiler) ArtifactPath(name string) string {
	return filepath.Join(c.buildDir, name+".json")
}

// Compile builds one contract and rewrites its artifact in canonical form
func (c *CairoCompiler) Compile(ctx context.Context, source *models.ContractSource) (string, error) {
	start := time.Now()
	output := c.ArtifactPath(source.Name)

	if err := os.MkdirAll(c.buildDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}

	args := c.buildArgs(source, output)
	c.log.Debug("running compiler", "command", c.command, "args", args)

	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Dir = c.projectRoot

	var stderr string
	var err error
	if c.debug {
		stderr, err = c.runWithPty(cmd)
	} else {
		stderr, err = c.run(cmd)
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.log.Error("compilation failed", "contract", source.Name, "error", err, "duration", time.Since(start))
		return "", &domain.CompilationError{Name: source.Name, Stderr: stderr, Err: err}
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		return "", &domain.CompilationError{Name: source.Name, Stderr: stderr, Err: fmt.Errorf("compiler produced no artifact: %w", err)}
	}
	normalized, err := NormalizeArtifact(raw)
	if err != nil {
		return "", &domain.CompilationError{Name: source.Name, Err: err}
	}
	if err := os.WriteFile(output, normalized, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	c.log.Debug("compiled contract", "contract", source.Name, "artifact", output, "duration", time.Since(start))
	return output, nil
}

// buildArgs assembles the compiler command line
func (c *CairoCompiler) buildArgs(source *models.ContractSource, output string) []string {
	src := source.Path
	if !filepath.IsAbs(src) {
		src = filepath.Join(c.projectRoot, src)
	}

	includes := append([]string{c.sourceDir}, c.cairoPaths...)
	args := []string{
		src,
		"--output", output,
		"--cairo_path", strings.Join(includes, string(os.PathListSeparator)),
		"--no_debug_info",
	}
	if domain.IsAccountContract(source.Name) {
		args = append(args, "--account_contract")
	}
	return args
}

// run executes the compiler with captured output and returns its stderr
func (c *CairoCompiler) run(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stdout.Len() > 0 {
		c.log.Debug("compiler output", "stdout", stdout.String())
	}
	return stderr.String(), err
}

// runWithPty streams the compiler output to the debug writer while capturing it
func (c *CairoCompiler) runWithPty(cmd *exec.Cmd) (string, error) {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return "", fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var captured bytes.Buffer
	// Reading a closed pty returns EIO once the child exits
	_, _ = io.Copy(io.MultiWriter(c.debugOut, &captured), ptyFile)

	return captured.String(), cmd.Wait()
}

// LoadArtifact reads and decodes <build>/<name>.json
func (c *CairoCompiler) LoadArtifact(ctx context.Context, name string) (*models.ContractArtifact, error) {
	path := c.ArtifactPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var artifact models.ContractArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if len(artifact.Program) == 0 {
		return nil, fmt.Errorf("artifact %s has no program", path)
	}
	artifact.Name = name
	artifact.Path = path
	return &artifact, nil
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactCompiler = (*CairoCompiler)(nil)
