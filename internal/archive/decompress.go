package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Metadata file variants probed per source, in order. Ubuntu mirrors
// publish gzip; some derivatives only ship xz.
var packagesFiles = []string{"Packages.gz", "Packages.xz"}

// decompress expands downloaded metadata based on the file extension.
func decompress(filename string, data []byte) (string, error) {
	switch {
	case strings.HasSuffix(filename, ".gz"):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		text, err := io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("decompress gzip: %w", err)
		}
		return string(text), nil

	case strings.HasSuffix(filename, ".xz"):
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("open xz stream: %w", err)
		}
		text, err := io.ReadAll(xr)
		if err != nil {
			return "", fmt.Errorf("decompress xz: %w", err)
		}
		return string(text), nil

	default:
		return string(data), nil
	}
}
