// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/tls-cert-verifier/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
//
// This interface supports both CLI and [MCP] server modes, allowing seamless
// switching between human-readable output and structured logging.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package without
// timestamps, for user-facing command output.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a CLI logger writing to stderr, keeping stdout free
// for verification reports.
func NewCLILogger() *CLILogger {
	return &CLILogger{logger: log.New(os.Stderr, "", 0)}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// MCPLogger implements Logger for [MCP] server mode by writing JSON lines of
// the form {"time":...,"level":"info","component":...,"message":...}.
//
// MCPLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type MCPLogger struct {
	// mu is shared with every logger derived through WithComponent and
	// serialises writes to the common writer.
	mu        *sync.Mutex
	writer    io.Writer
	silent    bool
	component string
	now       func() time.Time
}

// NewMCPLogger creates a new [MCP] logger. A nil writer discards output.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{
		mu:     &sync.Mutex{},
		writer: writer,
		silent: silent,
		now:    time.Now,
	}
}

// WithComponent returns a logger sharing m's destination that tags every
// entry with name.
func (m *MCPLogger) WithComponent(name string) *MCPLogger {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &MCPLogger{
		mu:        m.mu,
		writer:    m.writer,
		silent:    m.silent,
		component: name,
		now:       m.now,
	}
}

type entry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

func (m *MCPLogger) write(msg string) {
	if m.silent {
		return
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	e := entry{
		Time:      m.now().UTC().Format(time.RFC3339),
		Level:     "info",
		Component: m.component,
		Message:   msg,
	}
	// json.Encoder appends the trailing newline.
	if err := json.NewEncoder(buf).Encode(e); err != nil {
		return
	}

	m.mu.Lock()
	m.writer.Write(buf.Bytes())
	m.mu.Unlock()
}

// Printf formats and logs a structured message.
// Output is suppressed if silent mode is enabled.
func (m *MCPLogger) Printf(format string, v ...any) { m.write(fmt.Sprintf(format, v...)) }

// Println logs a structured message. Operands are joined with spaces and the
// trailing newline is dropped.
func (m *MCPLogger) Println(v ...any) {
	msg := fmt.Sprintln(v...)
	m.write(msg[:len(msg)-1])
}

// SetOutput sets the output destination for the MCP logger.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}
