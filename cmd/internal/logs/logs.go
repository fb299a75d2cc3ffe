package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/fatih/color"
)

var (
	Info = log.New(color.Output, color.HiBlueString("[INFO] "), log.Lmsgprefix)
	Warn = log.New(color.Output, color.HiYellowString("[WARN] "), log.Lmsgprefix)
	Err  = log.New(color.Output, color.HiRedString("[ERROR] "), log.Lmsgprefix)
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// plainWriter drops color escapes and stamps every line with the local time.
type plainWriter struct {
	w io.Writer
}

func (p plainWriter) Write(b []byte) (int, error) {
	stamp := time.Now().Format("2006-01-02 15:04:05 ")
	if _, err := io.WriteString(p.w, stamp+ansiEscape.ReplaceAllString(string(b), "")); err != nil {
		return 0, err
	}
	return len(b), nil
}

// SetFile mirrors all three loggers into the file at path, creating parent
// directories as needed. The returned closer restores console-only output.
func SetFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	out := io.MultiWriter(color.Output, plainWriter{w: f})
	for _, l := range []*log.Logger{Info, Warn, Err} {
		l.SetOutput(out)
	}
	return closerFunc(func() error {
		for _, l := range []*log.Logger{Info, Warn, Err} {
			l.SetOutput(color.Output)
		}
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }
