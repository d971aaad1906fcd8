package records

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SerializeDataset encodes a Dataset using gob encoding.
// This is useful for disk-based caching to avoid re-fetching and
// re-normalising a world's records.
//
// Thread safety: Safe for concurrent use once the dataset is fully constructed.
func SerializeDataset(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := SerializeDatasetToWriter(ds, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeDataset decodes a Dataset previously produced by SerializeDataset.
func DeserializeDataset(data []byte) (*Dataset, error) {
	return DeserializeDatasetFromReader(bytes.NewReader(data))
}

// SerializeDatasetToWriter writes a Dataset to an io.Writer using gob encoding.
func SerializeDatasetToWriter(ds *Dataset, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(ds); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return nil
}

// DeserializeDatasetFromReader reads a Dataset from an io.Reader.
func DeserializeDatasetFromReader(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := gob.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	// gob drops empty maps
	if ds.Stations == nil {
		ds.Stations = map[string]*Station{}
	}
	if ds.Platforms == nil {
		ds.Platforms = map[string]*Platform{}
	}
	if ds.Lines == nil {
		ds.Lines = map[string]*Line{}
	}
	if ds.Buildings == nil {
		ds.Buildings = map[string]*Building{}
	}
	return &ds, nil
}

// SerializeDatasetToFile writes a Dataset to path, creating parent directories.
// The file is written to a temporary name first and renamed into place.
func SerializeDatasetToFile(ds *Dataset, path string) error {
	data, err := SerializeDataset(ds)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp, path)
}

// DeserializeDatasetFromFile reads a Dataset snapshot from path.
func DeserializeDatasetFromFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return DeserializeDataset(data)
}
