package view

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
)

// HiddenClass marks an element as not displayed.
const HiddenClass = "hidden"

// Target is the render capability feature code writes through. Writes addressed to an
// element that does not exist are silent no-ops.
type Target interface {
	Exists(id string) bool
	SetText(id, text string)
	Replace(id string, nodes ...Node)
	Append(id string, nodes ...Node)
	Show(id string)
	Hide(id string)
	// HideGroup hides every element carrying class inside the container.
	HideGroup(containerID, class string)
	SetPageFlag(flag string, on bool)

	Value(id string) string
	SetValue(id, value string)
	SelectedFile(id string) (File, bool)
	SelectFile(id string, file File)
	ClearFile(id string)
}

// Dialog stands in for blocking alert and prompt boxes.
type Dialog interface {
	Alert(message string)
	// Prompt asks for a line of text; ok is false when the user cancelled.
	Prompt(ctx context.Context, message string) (text string, ok bool)
}

// File is a file chosen in a file input.
type File interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type bytesFile struct {
	name string
	data []byte
}

// BytesFile wraps in-memory content as a selected file.
func BytesFile(name string, data []byte) File {
	return bytesFile{name: name, data: data}
}

func (f bytesFile) Name() string { return f.name }

func (f bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type diskFile struct {
	path string
}

// DiskFile selects a file from the local filesystem.
func DiskFile(path string) File {
	return diskFile{path: path}
}

func (f diskFile) Name() string { return filepath.Base(f.path) }

func (f diskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
