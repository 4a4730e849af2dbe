// Package metadata persists the editable records that accompany signature
// preview images. Records are YAML documents named after their preview.
package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"esign-composer/internal/domain/entity"
)

// Extension of metadata record files
const Extension = ".yaml"

// Read decodes the record stored at path. A missing, empty or malformed file
// is reported as entity.ErrMetadataCorruptOrMissing.
func Read[T any](path string) (T, error) {
	var record T

	data, err := os.ReadFile(path)
	if err != nil {
		return record, entity.MetadataError("read", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return record, entity.MetadataError("read", path, errors.New("empty record"))
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&record); err != nil {
		return record, entity.MetadataError("decode", path, err)
	}

	return record, nil
}

// Write encodes v to path, creating parent directories and replacing any
// existing record.
func Write[T any](path string, v T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return entity.AssetIOError("create directory for", path, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode metadata record %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode metadata record %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return entity.AssetIOError("write metadata record", path, err)
	}

	return nil
}

// RecordPath maps a preview image path to its metadata record path by
// replacing the preview directory segment and the extension.
func RecordPath(previewPath, previewDir, metadataDir string) string {
	path := strings.Replace(previewPath, previewDir, metadataDir, 1)
	return strings.TrimSuffix(path, filepath.Ext(path)) + Extension
}

// RecordPathFor returns the record path of the asset named by guid inside
// metadataDir. Only the file stem of guid is used.
func RecordPathFor(guid, metadataDir string) string {
	name := filepath.Base(guid)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(metadataDir, stem+Extension)
}
