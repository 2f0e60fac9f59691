// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package registry compiles a declarative configuration into the read-only
record types the engine works with: schema, policy indexes, filterable fields
and query defaults per resource.

The registry is explicitly constructed and passed to call sites; there is no
module-level singleton. Construct it once before concurrent use begins, it is
immutable afterwards and safe for concurrent reads.
*/
package registry

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/docstore/core/logger"
	"github.com/relabs-tech/docstore/core/query"
	"github.com/relabs-tech/docstore/core/record"
	"github.com/relabs-tech/docstore/core/schema"
)

// Configuration holds a complete registry configuration
type Configuration struct {
	Records []recordConfiguration `json:"records"`
}

// recordConfiguration describes one record type
type recordConfiguration struct {
	Resource    string                      `json:"resource"`
	Description string                      `json:"description"`
	Schema      json.RawMessage             `json:"schema"`
	Filters     map[string]query.FilterType `json:"filters"`
	Projection  map[string]int              `json:"projection"`
	Query       *query.Config               `json:"query"`
}

// RecordType is one compiled record type. It embeds the record type for the
// lifecycle controller and adds the query compiler inputs.
type RecordType struct {
	*record.Type
	Description string
	Filters     map[string]query.FilterType
	Projection  map[string]interface{}
	Query       query.Config
}

// Compile compiles raw query parameters for this record type, merging the
// declared default projection under the client's fields parameter.
func (rt *RecordType) Compile(params url.Values) query.Descriptor {
	return query.Compile(params, rt.Filters, rt.Projection, rt.Query)
}

// Registry holds the compiled record types of one deployment
type Registry struct {
	types map[string]*RecordType
}

// New compiles a configuration into a registry. Each record schema is parsed
// and meta-validated; an invalid configuration is an error, not a panic, so
// callers can decide how hard to fail. Compilation logs through the context's
// logger, so startup lines carry the caller's request ID.
func New(ctx context.Context, config Configuration) (*Registry, error) {
	rlog := logger.FromContext(ctx)
	registry := &Registry{types: map[string]*RecordType{}}
	for _, rc := range config.Records {
		if rc.Resource == "" {
			return nil, fmt.Errorf("record configuration lacks resource name")
		}
		if _, ok := registry.types[rc.Resource]; ok {
			return nil, fmt.Errorf("duplicate record type '%s'", rc.Resource)
		}
		rlog.Debugln("register record type:", rc.Resource)
		if rc.Description != "" {
			rlog.Debugln("  description:", rc.Description)
		}
		s, err := schema.ParseDefinition(rc.Schema)
		if err != nil {
			return nil, fmt.Errorf("invalid schema for record type '%s': %s", rc.Resource, err.Error())
		}
		cfg := query.DefaultConfig()
		if rc.Query != nil {
			cfg = *rc.Query
		}
		var defaultFields map[string]interface{}
		if len(rc.Projection) > 0 {
			defaultFields = make(map[string]interface{}, len(rc.Projection))
			for field, include := range rc.Projection {
				defaultFields[field] = include
			}
		}
		registry.types[rc.Resource] = &RecordType{
			Type:        record.NewType(rc.Resource, s),
			Description: rc.Description,
			Filters:     rc.Filters,
			Projection:  defaultFields,
			Query:       cfg,
		}
	}
	return registry, nil
}

// MustNew compiles a JSON configuration document into a registry and panics
// on invalid configuration, for deployments where the configuration is
// compiled in.
func MustNew(configJSON string) *Registry {
	ctx, rlog := logger.ContextWithLogger(context.Background())
	var config Configuration
	if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
		rlog.WithError(err).Errorln("parse error in registry configuration")
		panic("invalid configuration")
	}
	registry, err := New(ctx, config)
	if err != nil {
		rlog.WithError(err).Errorln("cannot compile registry configuration")
		panic("invalid configuration")
	}
	return registry
}

// RecordType returns the compiled record type for a resource
func (r *Registry) RecordType(resource string) (*RecordType, bool) {
	rt, ok := r.types[resource]
	return rt, ok
}

// Resources returns the names of all registered record types
func (r *Registry) Resources() []string {
	resources := make([]string, 0, len(r.types))
	for resource := range r.types {
		resources = append(resources, resource)
	}
	return resources
}
