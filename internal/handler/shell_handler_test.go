package handler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal-client/pkg/metrics"
)

type fakePortal struct {
	clicks   []string
	sections []string
	values   map[string]string
	attached map[string]string
	clickErr error
	page     string
}

func newFakePortal() *fakePortal {
	return &fakePortal{values: map[string]string{}, attached: map[string]string{}, page: "Portal Login"}
}

func (p *fakePortal) Click(_ context.Context, key string) error {
	p.clicks = append(p.clicks, key)
	return p.clickErr
}

func (p *fakePortal) Section(name string) error {
	p.sections = append(p.sections, name)
	return nil
}

func (p *fakePortal) Type(id, text string) error {
	p.values[id] = text
	return nil
}

func (p *fakePortal) Attach(id, path string) error {
	p.attached[id] = path
	return nil
}

func (p *fakePortal) Page(id string) string {
	if id != "" {
		return "<" + id + ">"
	}
	return p.page
}

func (p *fakePortal) ActionKeys() []string { return []string{"login", "section:academics"} }

func (p *fakePortal) Metrics() metrics.Snapshot {
	return metrics.Snapshot{Requests: 5, Failures: 1, AvgRequestMs: 2.5}
}

func TestShellRunsCommands(t *testing.T) {
	input := strings.Join([]string{
		"type usernameInput alice smith",
		"password passwordInput",
		"s3cret",
		"attach certificateFileInput /tmp/award.pdf",
		"click login",
		"section non-academics",
		"actions",
		"metrics",
		"quit",
		"click never",
	}, "\n")
	out := &bytes.Buffer{}
	portal := newFakePortal()
	shell := NewShellHandler(strings.NewReader(input), out, nil)

	require.NoError(t, shell.Run(context.Background(), portal))

	assert.Equal(t, "alice smith", portal.values["usernameInput"])
	assert.Equal(t, "s3cret", portal.values["passwordInput"])
	assert.Equal(t, "/tmp/award.pdf", portal.attached["certificateFileInput"])
	assert.Equal(t, []string{"login"}, portal.clicks)
	assert.Equal(t, []string{"non-academics"}, portal.sections)
	assert.Contains(t, out.String(), "  section:academics\n")
	assert.Contains(t, out.String(), "requests=5 failures=1 transport_errors=0 avg_ms=2.5")
	assert.NotContains(t, out.String(), "s3cret")
}

func TestShellReportsErrorsAndContinues(t *testing.T) {
	out := &bytes.Buffer{}
	portal := newFakePortal()
	portal.clickErr = errors.New("unknown action: nope")
	shell := NewShellHandler(strings.NewReader("click nope\nfrobnicate\ntype\nshow loginDiv\n"), out, nil)

	require.NoError(t, shell.Run(context.Background(), portal))

	assert.Contains(t, out.String(), "error: unknown action: nope")
	assert.Contains(t, out.String(), `error: unknown command "frobnicate"`)
	assert.Contains(t, out.String(), "error: usage: type <id> <text>")
	assert.Contains(t, out.String(), "<loginDiv>")
}

func TestShellDialog(t *testing.T) {
	out := &bytes.Buffer{}
	shell := NewShellHandler(strings.NewReader("Great work\n/cancel\n"), out, nil)

	shell.Alert("Marks saved.")
	answer, ok := shell.Prompt(context.Background(), "Enter your remarks:")
	assert.True(t, ok)
	assert.Equal(t, "Great work", answer)

	_, ok = shell.Prompt(context.Background(), "Enter your remarks:")
	assert.False(t, ok)
	_, ok = shell.Prompt(context.Background(), "Enter your remarks:")
	assert.False(t, ok, "end of input cancels")

	assert.Contains(t, out.String(), "[alert] Marks saved.\n")
	assert.Contains(t, out.String(), "[prompt] Enter your remarks: ")
}

func TestShellStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	shell := NewShellHandler(strings.NewReader("click login\n"), &bytes.Buffer{}, nil)
	portal := newFakePortal()

	assert.ErrorIs(t, shell.Run(ctx, portal), context.Canceled)
	assert.Empty(t, portal.clicks)
}

func TestShellPasswordFromTerminal(t *testing.T) {
	original := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = original })
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("hidden"), nil }

	shell := NewShellHandler(strings.NewReader(""), &bytes.Buffer{}, nil)
	shell.fd = 0
	portal := newFakePortal()

	_, err := shell.Execute(context.Background(), portal, "password passwordInput")

	require.NoError(t, err)
	assert.Equal(t, "hidden", portal.values["passwordInput"])
}
