package hipchat

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// imageDataURI reads file and encodes it as data:image/<type>;base64,<data>.
// The type comes from the file contents when recognisable and from the
// extension otherwise.
func imageDataURI(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
	if kind, err := filetype.Image(data); err == nil && kind != filetype.Unknown {
		ext = kind.Extension
	}
	if ext == "" {
		return "", fmt.Errorf("read image: cannot determine type of %s", file)
	}
	return "data:image/" + ext + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
