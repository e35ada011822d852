package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/sma-portal-client/pkg/metrics"
)

var readPasswordFunc = term.ReadPassword // mockable

// CancelAnswer declines a prompt, as the cancel button would.
const CancelAnswer = "/cancel"

const shellUsage = `Commands:
  show [id]              print the visible page, or one element's markup
  type <id> <text>       set an input's value
  password <id>          set an input's value without echoing it
  attach <id> <path>     select a local file in a file input
  click <action>         press the control bound to action
  section <name>         switch dashboard section
  actions                list clickable controls
  metrics                summarise requests sent so far
  help                   show this text
  quit                   leave the shell`

type portalDriver interface {
	Click(ctx context.Context, key string) error
	Section(name string) error
	Type(id, text string) error
	Attach(id, path string) error
	Page(id string) string
	ActionKeys() []string
	Metrics() metrics.Snapshot
}

// ShellHandler drives a portal from line-oriented input. It doubles as the portal's
// dialog: alerts are printed and prompts read the next input line.
type ShellHandler struct {
	in     *bufio.Scanner
	out    io.Writer
	outMu  sync.Mutex
	fd     int
	logger *zap.Logger
}

// NewShellHandler constructs a shell reading from in and writing to out. Passwords are
// read without echo when in is a terminal.
func NewShellHandler(in io.Reader, out io.Writer, logger *zap.Logger) *ShellHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &ShellHandler{in: bufio.NewScanner(in), out: out, fd: fd, logger: logger}
}

// Alert prints a message box.
func (h *ShellHandler) Alert(message string) {
	h.printf("[alert] %s\n", message)
}

// Prompt asks for one line. End of input or the cancel answer declines.
func (h *ShellHandler) Prompt(_ context.Context, message string) (string, bool) {
	h.printf("[prompt] %s ", message)
	line, ok := h.readLine()
	if !ok || strings.TrimSpace(line) == CancelAnswer {
		return "", false
	}
	return line, true
}

// Run executes commands until quit or end of input.
func (h *ShellHandler) Run(ctx context.Context, portal portalDriver) error {
	h.printf("%s\n", portal.Page(""))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.printf("> ")
		line, ok := h.readLine()
		if !ok {
			h.printf("\n")
			return h.in.Err()
		}
		quit, err := h.Execute(ctx, portal, line)
		if err != nil {
			h.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs a single command line. It reports whether the shell should stop.
func (h *ShellHandler) Execute(ctx context.Context, portal portalDriver, line string) (bool, error) {
	cmd, rest := splitWord(strings.TrimSpace(line))
	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		h.printf("%s\n", shellUsage)
		return false, nil
	case "show":
		h.printf("%s\n", portal.Page(rest))
		return false, nil
	case "type":
		id, text := splitWord(rest)
		if id == "" {
			return false, errors.New("usage: type <id> <text>")
		}
		return false, portal.Type(id, text)
	case "password":
		if rest == "" {
			return false, errors.New("usage: password <id>")
		}
		secret, err := h.readSecret()
		if err != nil {
			return false, err
		}
		return false, portal.Type(rest, secret)
	case "attach":
		id, path := splitWord(rest)
		if id == "" || path == "" {
			return false, errors.New("usage: attach <id> <path>")
		}
		return false, portal.Attach(id, path)
	case "click":
		if rest == "" {
			return false, errors.New("usage: click <action>")
		}
		h.logger.Debug("shell click", zap.String("action", rest))
		err := portal.Click(ctx, rest)
		h.printf("%s\n", portal.Page(""))
		return false, err
	case "section":
		if rest == "" {
			return false, errors.New("usage: section <name>")
		}
		if err := portal.Section(rest); err != nil {
			return false, err
		}
		h.printf("%s\n", portal.Page(""))
		return false, nil
	case "actions":
		for _, key := range portal.ActionKeys() {
			h.printf("  %s\n", key)
		}
		return false, nil
	case "metrics":
		snap := portal.Metrics()
		h.printf("requests=%d failures=%d transport_errors=%d avg_ms=%.1f\n",
			snap.Requests, snap.Failures, snap.TransportError, snap.AvgRequestMs)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (h *ShellHandler) readSecret() (string, error) {
	h.printf("Enter password: ")
	if h.fd >= 0 {
		secret, err := readPasswordFunc(h.fd)
		h.printf("\n")
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	line, ok := h.readLine()
	if !ok {
		return "", io.ErrUnexpectedEOF
	}
	return line, nil
}

func (h *ShellHandler) readLine() (string, bool) {
	if !h.in.Scan() {
		return "", false
	}
	return strings.TrimRight(h.in.Text(), "\r"), true
}

func (h *ShellHandler) printf(format string, args ...interface{}) {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	fmt.Fprintf(h.out, format, args...)
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	word, rest, _ := strings.Cut(s, " ")
	return word, strings.TrimSpace(rest)
}
