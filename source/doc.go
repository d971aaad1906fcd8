// Package source loads raw world records.
//
// A Source returns the untyped records of one world; records.Normalize turns
// them into entities. Implementations:
//
//   - FileSource reads <dir>/<world>.json, .yaml, .yml or .pb
//   - HTTPSource fetches <base>/<world>.json
//   - SQLiteSource reads the records table of a SQLite database
//   - MemorySource serves records set by the caller
//
// JSON and YAML bundles may be a bare list or an object with a "records"
// list. Protobuf bundles are a google.protobuf.ListValue of Structs.
package source
