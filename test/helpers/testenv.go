// ABOUTME: TestEnv provides isolated test environments for acceptance tests
// ABOUTME: Creates a toolset directory and runs the CLI binary end to end
package helpers

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Result captures one CLI invocation
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// TestEnv represents an isolated platform-tools installation
type TestEnv struct {
	TempDir  string // Root temp directory
	ToolsDir string // The platform-tools directory the CLI operates on
	Binary   string // Path to ptup binary
}

// NewTestEnv creates a new isolated test environment
func NewTestEnv(binary string) *TestEnv {
	tempDir := GinkgoT().TempDir()

	env := &TestEnv{
		TempDir:  tempDir,
		ToolsDir: filepath.Join(tempDir, "platform-tools"),
		Binary:   binary,
	}

	Expect(os.MkdirAll(env.ToolsDir, 0755)).To(Succeed())

	return env
}

// FastbootScript returns a shell script that answers --version the way
// the real binary does
func FastbootScript(version string) string {
	return fmt.Sprintf("#!/bin/sh\necho \"fastboot version %s\"\necho \"Installed as $0\"\n", version)
}

// InstallFastboot seeds the toolset directory with a fake version
// oracle. The install is backdated so a freshly published bundle always
// counts as newer during the merge.
func (e *TestEnv) InstallFastboot(version string) {
	Expect(os.WriteFile(e.FastbootPath(), []byte(FastbootScript(version)), 0755)).To(Succeed())

	old := time.Now().Add(-48 * time.Hour)
	Expect(os.Chtimes(e.FastbootPath(), old, old)).To(Succeed())
}

// FastbootPath returns the path of the installed version oracle
func (e *TestEnv) FastbootPath() string {
	return filepath.Join(e.ToolsDir, "fastboot")
}

// ReadFile returns the content of a file inside the toolset directory
func (e *TestEnv) ReadFile(rel string) string {
	data, err := os.ReadFile(filepath.Join(e.ToolsDir, rel))
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

// FileExists checks whether a file exists inside the toolset directory
func (e *TestEnv) FileExists(rel string) bool {
	_, err := os.Stat(filepath.Join(e.ToolsDir, rel))
	return err == nil
}

// Run executes the CLI from inside the toolset directory
func (e *TestEnv) Run(args ...string) *Result {
	return e.run(e.ToolsDir, nil, "", args)
}

// RunWithInput executes the CLI with stdin input
func (e *TestEnv) RunWithInput(input string, args ...string) *Result {
	return e.run(e.ToolsDir, nil, input, args)
}

// RunWithEnv executes the CLI with additional environment variables
func (e *TestEnv) RunWithEnv(extraEnv map[string]string, args ...string) *Result {
	return e.run(e.ToolsDir, extraEnv, "", args)
}

// RunWithEnvAndInput executes the CLI with additional env vars and stdin input
func (e *TestEnv) RunWithEnvAndInput(extraEnv map[string]string, input string, args ...string) *Result {
	return e.run(e.ToolsDir, extraEnv, input, args)
}

// RunInDir executes the CLI with a specific working directory
func (e *TestEnv) RunInDir(dir string, args ...string) *Result {
	return e.run(dir, nil, "", args)
}

func (e *TestEnv) run(dir string, extraEnv map[string]string, input string, args []string) *Result {
	cmd := exec.Command(e.Binary, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for k, v := range extraEnv {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 1
		}
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// BuildBinary builds the ptup binary and returns its path
func BuildBinary() string {
	binPath := filepath.Join(GinkgoT().TempDir(), "ptup")

	// Find the project root by looking for go.mod
	projectRoot, err := findProjectRoot()
	Expect(err).NotTo(HaveOccurred())

	// Use absolute path for source
	sourcePath := filepath.Join(projectRoot, "cmd", "ptup")

	cmd := exec.Command("go", "build", "-o", binPath, sourcePath)
	Expect(cmd.Run()).To(Succeed())
	return binPath
}

// findProjectRoot walks up the directory tree to find go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}
