package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"farmFilters/schemas"
	"farmFilters/types"
)

// File loads rows from a .json, .yaml/.yml or .msgpack file and converts
// them through the schema.
type File struct {
	Path   string
	Schema schemas.Schema
}

func (f File) Load(ctx context.Context) ([]types.Record, error) {
	rows, err := ReadRows(f.Path)
	if err != nil {
		return nil, err
	}
	out := make([]types.Record, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := f.Schema.NewRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", f.Path, i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%s: row %d: duplicate id %q", f.Path, i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

// ReadRows decodes a list of rows, picking the codec by file extension.
func ReadRows(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var rows []map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".msgpack", ".mp":
		if err := msgpack.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("failed to parse msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	return rows, nil
}

// WriteFile encodes v by file extension and replaces path atomically.
func WriteFile(path string, v any) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(v, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	case ".msgpack", ".mp":
		data, err = msgpack.Marshal(v)
	default:
		return fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
