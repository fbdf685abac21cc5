// Package requestlog appends timestamped request/response lines to a log file.
package requestlog

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Sink accepts one log message per call.
type Sink interface {
	Append(message string) error
}

// FileSink writes each message as a single line to a file. The file is opened,
// appended to and closed on every call, so concurrent writers never share a handle.
type FileSink struct {
	path string
	now  func() time.Time
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: strings.TrimSpace(path), now: time.Now}
}

// Path returns the file the sink writes to.
func (f *FileSink) Path() string { return f.path }

// Append writes "<RFC1123Z time> <message>" followed by a newline, creating the file if absent.
func (f *FileSink) Append(message string) error {
	if f == nil || f.path == "" {
		return fmt.Errorf("request log path is empty")
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open request log: %w", err)
	}

	line := f.now().Format(time.RFC1123Z) + " " + message + "\n"
	if _, err := file.WriteString(line); err != nil {
		file.Close()
		return fmt.Errorf("write request log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close request log: %w", err)
	}
	return nil
}
