// Package testutils provides scripted input, output capture and session
// doubles shared by the shell's tests.
package testutils

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Capture is an io.Writer that records everything written to it. It is safe
// for use by concurrent commands.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCapture creates an empty capture buffer.
func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns everything written so far.
func (c *Capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Lines returns the captured output split into lines, without the trailing
// empty line.
func (c *Capture) Lines() []string {
	s := strings.TrimRight(c.String(), "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

// Reset discards captured output.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
}

// ScriptedReader feeds a fixed list of lines to a shell, then reports io.EOF.
type ScriptedReader struct {
	mu      sync.Mutex
	lines   []string
	prompts []string
	pos     int
}

// NewScriptedReader creates a reader that returns lines in order.
func NewScriptedReader(lines ...string) *ScriptedReader {
	return &ScriptedReader{lines: lines}
}

// ReadLine returns the next scripted line and records the prompt it was given.
func (r *ScriptedReader) ReadLine(prompt string) (string, error) {
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt)
	if r.pos >= len(r.lines) {
		r.mu.Unlock()
		return "", io.EOF
	}
	defer r.mu.Unlock()
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

// Prompts returns every prompt passed to ReadLine.
func (r *ScriptedReader) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

// Remaining returns how many lines have not been read yet.
func (r *ScriptedReader) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines) - r.pos
}

// FileHelpers provides utilities for working with test files
type FileHelpers struct{}

// NewFileHelpers creates a new file helpers instance
func NewFileHelpers() *FileHelpers {
	return &FileHelpers{}
}

// CreateTempFile creates a temporary file with given content
func (f *FileHelpers) CreateTempFile(t *testing.T, filename, content string) string {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)

	err := os.WriteFile(filePath, []byte(content), 0644)
	require.NoError(t, err, "Should create temp file successfully")

	return filePath
}

// CreateTempDir creates a temporary directory structure
func (f *FileHelpers) CreateTempDir(t *testing.T, files map[string]string) string {
	tmpDir := t.TempDir()

	for filename, content := range files {
		filePath := filepath.Join(tmpDir, filename)

		dir := filepath.Dir(filePath)
		if dir != tmpDir {
			err := os.MkdirAll(dir, 0755)
			require.NoError(t, err, "Should create directory %s", dir)
		}

		err := os.WriteFile(filePath, []byte(content), 0644)
		require.NoError(t, err, "Should create file %s", filename)
	}

	return tmpDir
}
