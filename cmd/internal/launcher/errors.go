package launcher

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrBlenderNotFound = errors.New("blender executable not found")

const projectorsHint = "The Projectors add-on seems to be missing. Install and enable it: https://github.com/eliemichel/Projectors"

// ExitError reports a Blender run that ended with a nonzero status.
type ExitError struct {
	Code   int
	Stderr string
	Hint   string
}

func (e *ExitError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "blender exited with code %d", e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		sb.WriteString(": ")
		sb.WriteString(s)
	}
	if e.Hint != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Hint)
	}
	return sb.String()
}

// hintFor matches known failure signatures in the captured output.
func hintFor(code int, output string) string {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(output, "bpy.ops.projector.create") && strings.Contains(lower, "not found"):
		return projectorsHint
	case strings.Contains(lower, "projector add-on is unavailable"):
		return projectorsHint
	case code == ExitImport:
		return "The generation script could not be imported. Check advanced.script_path."
	case code == ExitMissing:
		return "The generation script lacks required functions. Point advanced.script_path at a compatible script or leave it empty to use the bundled one."
	}
	return ""
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
