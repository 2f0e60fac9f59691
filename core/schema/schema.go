// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package schema implements the schema-driven attribute engine: a declarative,
arbitrarily nestable description of a record's shape, plus the coercion,
validation and policy filtering that governs how client-supplied JSON is merged
into a typed record.

A schema is a tree of nodes, one per field. Object and array nodes either carry
a sub-schema for their fields or are "open", in which case validation stops and
any shape is accepted beneath them.
*/
package schema

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/relabs-tech/docstore/core"
)

// FieldType is the declared type of a schema node
type FieldType string

// all supported field types
const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeUInteger  FieldType = "uinteger"
	TypeFloat     FieldType = "float"
	TypeUFloat    FieldType = "ufloat"
	TypeBoolean   FieldType = "boolean"
	TypeTimestamp FieldType = "timestamp"
	TypeDate      FieldType = "date"
	TypeID        FieldType = "id"
	TypeObject    FieldType = "object"
	TypeArray     FieldType = "array"
)

// default generators available to declarative definitions
const (
	GeneratorNow  = "now"
	GeneratorUUID = "uuid"
	GeneratorID   = "id"
)

// Node describes a single field of a record type. Object and array nodes with
// a non-empty Fields map are validated field by field; nodes without declared
// sub-fields are open and accept any sub-structure unvalidated. Array nodes of
// primitive elements declare the element type in ValueType instead.
type Node struct {
	Type      FieldType        `json:"type"`
	Default   interface{}      `json:"default,omitempty"`
	Generator string           `json:"generator,omitempty"`
	Fields    map[string]*Node `json:"fields,omitempty"`
	ValueType FieldType        `json:"value_type,omitempty"`

	ReadOnly   bool `json:"readonly,omitempty"`
	Hidden     bool `json:"hidden,omitempty"`
	Expandable bool `json:"expandable,omitempty"`
	Computed   bool `json:"computed,omitempty"`

	// DefaultFunc is a zero-argument default generator for programmatically
	// constructed schemas. It takes precedence over Generator and Default.
	DefaultFunc func() interface{} `json:"-"`
}

// Schema is the declarative description of one record type, a mapping from
// field name to node. A schema is immutable once built and is shared by all
// records of its type.
type Schema struct {
	Fields map[string]*Node
}

// New creates a schema from a field map
func New(fields map[string]*Node) *Schema {
	return &Schema{Fields: fields}
}

//go:embed metaschema.json
var metaSchemaFS embed.FS

var metaSchema = func() *gojsonschema.Schema {
	raw, err := metaSchemaFS.ReadFile("metaschema.json")
	if err != nil {
		panic(err)
	}
	s, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("cannot compile meta-schema: %v", err))
	}
	return s
}()

// ParseDefinition compiles a declarative JSON definition into a schema. The
// definition is a JSON object mapping field names to node definitions; it is
// validated against the embedded meta-schema before it is unmarshalled, so a
// malformed definition fails with a list of violations rather than silently
// producing a wrong schema.
func ParseDefinition(definition []byte) (*Schema, error) {
	result, err := metaSchema.Validate(gojsonschema.NewBytesLoader(definition))
	if err != nil {
		return nil, fmt.Errorf("cannot validate definition: %s", err.Error())
	}
	if !result.Valid() {
		msg := "the definition is not valid :\n"
		for _, e := range result.Errors() {
			msg += fmt.Sprintf("- %s\n", e)
		}
		return nil, errors.New(msg)
	}
	var fields map[string]*Node
	if err := json.Unmarshal(definition, &fields); err != nil {
		return nil, fmt.Errorf("parse error in definition: %s", err.Error())
	}
	s := &Schema{Fields: fields}
	if err := checkFields(s.Fields, ""); err != nil {
		return nil, err
	}
	return s, nil
}

func checkFields(fields map[string]*Node, path string) error {
	for name, node := range fields {
		at := path + name
		if node == nil {
			return fmt.Errorf("field '%s' has no definition", at)
		}
		if len(node.Fields) > 0 && node.Type != TypeObject && node.Type != TypeArray {
			return fmt.Errorf("field '%s' declares sub-fields but is not an object or array", at)
		}
		if node.ValueType != "" && node.Type != TypeArray {
			return fmt.Errorf("field '%s' declares a value type but is not an array", at)
		}
		if node.ValueType != "" && len(node.Fields) > 0 {
			return fmt.Errorf("field '%s' declares both sub-fields and a value type", at)
		}
		if err := checkFields(node.Fields, at+"."); err != nil {
			return err
		}
	}
	return nil
}

// Defaults materializes the default attribute tree for the schema. Generators
// are invoked afresh on every call, so each materialization gets its own
// timestamps and identifiers. Fields without a default are absent from the
// tree; object nodes contribute a nested tree if any of their fields carry a
// default.
func (s *Schema) Defaults() map[string]interface{} {
	return defaultsTree(s.Fields)
}

func defaultsTree(fields map[string]*Node) map[string]interface{} {
	defaults := map[string]interface{}{}
	for name, node := range fields {
		if value, ok := node.defaultValue(); ok {
			defaults[name] = value
			continue
		}
		if node.Type == TypeObject && len(node.Fields) > 0 {
			if sub := defaultsTree(node.Fields); len(sub) > 0 {
				defaults[name] = sub
			}
		}
	}
	return defaults
}

func (n *Node) defaultValue() (interface{}, bool) {
	if n.DefaultFunc != nil {
		return n.DefaultFunc(), true
	}
	switch n.Generator {
	case GeneratorNow:
		return time.Now().UnixMilli(), true
	case GeneratorUUID:
		return uuid.New().String(), true
	case GeneratorID:
		return core.NewID(), true
	}
	if n.Default != nil {
		return cloneValue(n.Default), true
	}
	return nil, false
}
