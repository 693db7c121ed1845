package digitize

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"papercast/pkg/models"
)

// ExtractArchiveText unpacks a job's result archive and concatenates the
// text of every entry whose name ends in the requested output-format
// extension, in archive order. Entries of other formats are ignored.
func ExtractArchiveText(archive []byte, format models.OutputFormat) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("result archive is not a valid zip: %w", err)
	}

	var text strings.Builder
	for _, entry := range reader.File {
		if !strings.HasSuffix(entry.Name, format.Extension()) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read archive entry %s: %w", entry.Name, err)
		}
		text.Write(data)
	}

	return text.String(), nil
}
