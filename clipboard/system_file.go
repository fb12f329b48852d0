package clipboard

import (
	"os"
	"path/filepath"
)

// File is a System that writes each published document to Path,
// replacing the previous one. It lets hosts without a desktop session
// collect the generated RTF.
type File struct {
	Path string
}

var _ System = (*File)(nil)

func (f *File) Open() error  { return nil }
func (f *File) Empty() error { return nil }
func (f *File) Close() error { return nil }

func (f *File) RegisterFormat(string) (uint32, error) { return 0, nil }

// SetData writes data through a temporary file so that readers never see
// a partial document.
func (f *File) SetData(_ uint32, data []byte) error {
	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".fieldclip-*.rtf")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
