// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package record implements the lifecycle controller around one record: how
client-supplied JSON is merged into the attribute tree, how the tree is
rendered outward, and which payloads go to the persistence collaborator.

The package performs no I/O. Persistence and transport consume the plain data
structures it produces.
*/
package record

import (
	"sort"

	"github.com/relabs-tech/docstore/core"
	"github.com/relabs-tech/docstore/core/schema"
)

// State describes where a record is in its lifecycle:
// new -> fetched|created -> mutated* -> persisted
type State string

// all lifecycle states
const (
	StateNew       State = "new"
	StateCreated   State = "created"
	StateFetched   State = "fetched"
	StateMutated   State = "mutated"
	StatePersisted State = "persisted"
)

// Type is the compiled, immutable description of one record type: the schema
// plus the policy indexes derived from it. Build it once before concurrent use
// begins and share it across all records of the type.
type Type struct {
	Resource string
	Schema   *schema.Schema

	hidden     map[string]interface{}
	readonly   map[string]interface{}
	computed   map[string]interface{}
	expandable map[string]interface{}
}

// NewType compiles the schema into a record type
func NewType(resource string, s *schema.Schema) *Type {
	return &Type{
		Resource:   resource,
		Schema:     s,
		hidden:     s.PolicyIndex(schema.FlagHidden),
		readonly:   s.PolicyIndex(schema.FlagReadOnly),
		computed:   s.PolicyIndex(schema.FlagComputed),
		expandable: s.PolicyIndex(schema.FlagExpandable),
	}
}

// Record is the live state of one document
type Record struct {
	typ     *Type
	attrs   map[string]interface{}
	state   State
	changed map[string]struct{}
}

// New creates a fresh record seeded from the schema defaults
func New(typ *Type) *Record {
	return &Record{
		typ:   typ,
		attrs: typ.Schema.Defaults(),
		state: StateNew,
	}
}

// FromStore builds a record from attributes loaded by the persistence
// collaborator. The record owns the passed tree from here on.
func FromStore(typ *Type, attrs map[string]interface{}) *Record {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return &Record{
		typ:   typ,
		attrs: attrs,
		state: StateFetched,
	}
}

// Attributes returns the live attribute tree. Callers who only want to look
// should use Render instead.
func (r *Record) Attributes() map[string]interface{} {
	return r.attrs
}

// State returns the lifecycle state
func (r *Record) State() State {
	return r.state
}

// ID returns the record identifier, if it has one
func (r *Record) ID() (core.ID, bool) {
	switch id := r.attrs["_id"].(type) {
	case core.ID:
		return id, true
	case string:
		parsed, err := core.ParseID(id)
		if err == nil {
			return parsed, true
		}
	}
	return core.NilID, false
}

// SetFromRequest merges client-supplied attributes into the record. Read-only
// and computed fields are stripped from the body first, then the body is
// safe-merged over the current attributes and the result is re-validated
// against the schema and its defaults. The set of changed top-level keys is
// snapshot for later introspection.
//
// SetFromRequest never fails; malformed input is corrected or dropped by the
// validator.
func (r *Record) SetFromRequest(body map[string]interface{}) {
	body = schema.CloneTree(body)
	schema.ApplyPolicy(body, r.typ.readonly)
	schema.ApplyPolicy(body, r.typ.computed)

	safeMerge(r.attrs, body)
	schema.Validate(r.attrs, r.typ.Schema, r.typ.Schema.Defaults())

	r.changed = map[string]struct{}{}
	for key := range body {
		if _, ok := r.attrs[key]; ok {
			r.changed[key] = struct{}{}
		}
	}
	if r.state != StateNew {
		r.state = StateMutated
	}
}

// ChangedKeys returns the sorted top-level keys the last inbound merge
// touched and that survived validation.
func (r *Record) ChangedKeys() []string {
	keys := make([]string, 0, len(r.changed))
	for key := range r.changed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Render returns a copy of the attributes fit for sending outward. Hidden
// fields are stripped from the copy; they stay in the live tree and are
// persisted.
func (r *Record) Render() map[string]interface{} {
	rendered := schema.CloneTree(r.attrs)
	schema.ApplyPolicy(rendered, r.typ.hidden)
	return rendered
}

// InsertPayload returns the document to insert, with expandable relations
// collapsed to their identifiers.
func (r *Record) InsertPayload() map[string]interface{} {
	payload := schema.CloneTree(r.attrs)
	schema.CollapseExpandable(payload, r.typ.expandable)
	return payload
}

// UpdatePayload returns the partial-update document for the record, a $set of
// all attributes except the identifier, with expandable relations collapsed.
// A record without an identifier cannot be updated.
func (r *Record) UpdatePayload() (map[string]interface{}, error) {
	if _, ok := r.ID(); !ok {
		return nil, core.BadRequest("record of type %s has no identifier", r.typ.Resource)
	}
	payload := schema.CloneTree(r.attrs)
	schema.CollapseExpandable(payload, r.typ.expandable)
	delete(payload, "_id")
	return map[string]interface{}{"$set": payload}, nil
}

// Selector returns the identifier selector for update and delete operations.
// A record without an identifier cannot be addressed.
func (r *Record) Selector() (map[string]interface{}, error) {
	id, ok := r.ID()
	if !ok {
		return nil, core.BadRequest("record of type %s has no identifier", r.typ.Resource)
	}
	return map[string]interface{}{"_id": id}, nil
}

// MarkCreated moves a new record to the created state once the persistence
// collaborator has inserted it.
func (r *Record) MarkCreated() {
	r.state = StateCreated
}

// MarkPersisted moves the record to the persisted state
func (r *Record) MarkPersisted() {
	r.state = StatePersisted
}
