// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against embedded schemas and
// decodes them into Go values.
//
// A schema is compiled once and reused for every document:
//
//	//go:embed games_schema.cue
//	var schemaSource []byte
//
//	schema, err := cueutil.CompileSchema(schemaSource, "#Games")
//	if err != nil {
//	    return err
//	}
//	games, err := cueutil.Decode[Table](schema, data, cueutil.WithFilename("games.cue"))
//
// Validation errors carry the JSON-style path of the offending field, for
// example "games[1].binary: incomplete value string".
package cueutil
