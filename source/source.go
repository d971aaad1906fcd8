package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/rail-router/records"
)

// ErrWorldNotFound is returned when a source has no records for a world.
var ErrWorldNotFound = errors.New("world not found")

// Source supplies the raw records of a world.
type Source interface {
	Fetch(ctx context.Context, worldID string) ([]records.Record, error)
	// Identity distinguishes sources in cache keys.
	Identity() string
}

// Format is an encoding of a record bundle.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatProto Format = "pb"
)

// FormatOf maps a file extension (with or without the dot) to a Format.
func FormatOf(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "pb":
		return FormatProto, true
	}
	return "", false
}

// Decode parses a record bundle. JSON and YAML bundles are either a list of
// records or an object with a "records" list. Protobuf bundles are a
// structpb.ListValue.
func Decode(data []byte, format Format) ([]records.Record, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON records: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML records: %w", err)
		}
	case FormatProto:
		list := &structpb.ListValue{}
		if err := proto.Unmarshal(data, list); err != nil {
			return nil, fmt.Errorf("failed to decode protobuf records: %w", err)
		}
		doc = list.AsSlice()
	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
	return unwrap(doc)
}

// Encode writes records as a bundle that Decode reads back. JSON and YAML
// bundles use the {"records": [...]} envelope.
func Encode(recs []records.Record, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(bundle{Records: recs}, "", "  ")
	case FormatYAML:
		return yaml.Marshal(bundle{Records: recs})
	case FormatProto:
		return EncodeProto(recs)
	}
	return nil, fmt.Errorf("unsupported record format %q", format)
}

type bundle struct {
	Records []records.Record `json:"records" yaml:"records"`
}

// EncodeProto writes records as a structpb.ListValue bundle.
func EncodeProto(recs []records.Record) ([]byte, error) {
	items := make([]any, len(recs))
	for i, r := range recs {
		items[i] = map[string]any(r)
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, fmt.Errorf("failed to convert records: %w", err)
	}
	return proto.Marshal(list)
}

func unwrap(doc any) ([]records.Record, error) {
	var items []any
	switch t := doc.(type) {
	case []any:
		items = t
	case map[string]any:
		list, ok := t["records"].([]any)
		if !ok {
			return nil, errors.New(`record bundle has no "records" list`)
		}
		items = list
	case nil:
		return []records.Record{}, nil
	default:
		return nil, fmt.Errorf("unexpected record bundle of type %T", doc)
	}

	out := make([]records.Record, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// validWorldID rejects ids that could escape a directory or URL path.
func validWorldID(worldID string) error {
	if worldID == "" || strings.ContainsAny(worldID, `/\`) || strings.Contains(worldID, "..") {
		return fmt.Errorf("invalid world id %q", worldID)
	}
	return nil
}
