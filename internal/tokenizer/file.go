package tokenizer

import "unsafe"

// FileScanner is a LineScanner over a memory-mapped file.
//
// Lines returned by NextLine may share memory with the mapping and must not
// be retained after Close.
type FileScanner struct {
	*LineScanner
	release func() error
}

// OpenFile maps path into memory and returns a scanner over its lines.
//
// Example usage:
//
//	fs, err := tokenizer.OpenFile("large.csv")
//	if err != nil {
//	    return err
//	}
//	defer fs.Close()
func OpenFile(path string) (*FileScanner, error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &FileScanner{
		LineScanner: NewLineScannerFromString(bytesToString(data)),
		release:     release,
	}, nil
}

// Close releases the mapping. It is safe to call more than once.
func (f *FileScanner) Close() error {
	if f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	return release()
}

// bytesToString converts without copying; b must outlive the string.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
