// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled root definition ready to validate documents.
type Schema struct {
	ctx  *cue.Context
	root cue.Value
	path string
}

// CompileSchema compiles src and looks up the definition at path, such as
// "#Config". Failures here are programming errors in the embedded schema.
func CompileSchema(src []byte, path string) (*Schema, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(src)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	root := v.LookupPath(cue.ParsePath(path))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("schema definition %s: %w", path, err)
	}

	return &Schema{ctx: ctx, root: root, path: path}, nil
}

// Path returns the definition the schema validates against.
func (s *Schema) Path() string { return s.path }

// Unify compiles data and unifies it with the schema. The result is
// validated according to the options.
func (s *Schema) Unify(data []byte, opts ...Option) (cue.Value, error) {
	o := resolve(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	doc := s.ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := doc.Err(); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}

	unified := s.root.Unify(doc)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// Decode validates data against s and decodes the result into a T.
func Decode[T any](s *Schema, data []byte, opts ...Option) (*T, error) {
	unified, err := s.Unify(data, opts...)
	if err != nil {
		return nil, err
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, resolve(opts).filename)
	}
	return &out, nil
}

// ParseAndDecode compiles schema and decodes a single document with it.
func ParseAndDecode[T any](schema, data []byte, path string, opts ...Option) (*T, error) {
	s, err := CompileSchema(schema, path)
	if err != nil {
		return nil, err
	}
	return Decode[T](s, data, opts...)
}
