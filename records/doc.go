/*
Package records turns raw world records into typed rail entities.

Input records are loosely typed maps tagged with a class discriminator
(station, platform, line, polygon building, point building). Field names have
changed several times upstream, so every field is resolved through the table
in fields.go; nothing downstream inspects raw records again.

# Basic Usage

	ds, stats := records.Normalize(raw)
	log.Printf("stations=%d skipped=%v", len(ds.Stations), stats.Skipped)

Malformed records are dropped and counted, never returned as errors.

# Snapshots

A normalised Dataset can be cached on disk with SerializeDatasetToFile and
restored with DeserializeDatasetFromFile (gob encoding).
*/
package records
