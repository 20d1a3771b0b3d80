package chart

import (
	"fmt"
	"os"
)

// WriteFallback writes a plain-text placeholder at the path where the chart
// image was expected. The file keeps the image's name and extension on
// purpose: downstream steps that only check for the file's existence keep
// working, and anything that actually decodes it finds out it is not an
// image.
func WriteFallback(path, reason string) error {
	if err := os.WriteFile(path, []byte(reason), 0o644); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	return nil
}
