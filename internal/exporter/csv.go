package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"kpicli/internal/errors"
)

// writeCSVFile writes headers and records to a CSV file, creating parent
// directories as needed. A UTF-8 BOM is prefixed so Excel opens the file with
// the right encoding.
func writeCSVFile(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create output file", err).
			WithContext("path", path)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return errors.NewStorageError("failed to write BOM", err).
			WithContext("path", path)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return errors.NewStorageError("failed to write headers", err).
			WithContext("path", path)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError("failed to write record", err).
				WithContext("path", path)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV output", err).
			WithContext("path", path)
	}
	return nil
}
