package form

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// StatFile builds a RawFile from the file at path. The MIME type is declared
// from the extension; content is never read.
func StatFile(path string) (RawFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return RawFile{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return RawFile{}, fmt.Errorf("stat attachment: %s is a directory", path)
	}
	return RawFile{
		Name:     info.Name(),
		Size:     info.Size(),
		MIMEType: DeclaredType(path),
	}, nil
}

// DeclaredType maps a file extension to a bare media type, or "" if unknown.
func DeclaredType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}
