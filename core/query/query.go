// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package query compiles an HTTP query string into a structured filter
expression, sort specification and pagination window.

The compiled descriptor uses the document-store operator vocabulary ($and,
$or, $gt, $gte, $lt, $lte, $ne, $regex); the persistence collaborator passes
it through to the store unchanged.
*/
package query

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/relabs-tech/docstore/core/schema"
)

// FilterType is the declared type of a filterable field in the per-endpoint
// field-type map.
type FilterType string

// all supported filter types
const (
	FilterString  FilterType = "string"
	FilterRegex   FilterType = "regex"
	FilterInteger FilterType = "integer"
	FilterFloat   FilterType = "float"
)

// sort directions
const (
	OrderAscending  = "asc"
	OrderDescending = "desc"
)

// SortSpec is one (field, direction) sort pair
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Descriptor is the compiled form of an HTTP query string. Query is either
// empty, matching everything, or a single logical combinator holding the
// ordered filter clauses.
type Descriptor struct {
	Query  map[string]interface{} `json:"query"`
	Sort   []SortSpec             `json:"sort"`
	Limit  int                    `json:"limit"`
	Skip   int                    `json:"skip"`
	Fields map[string]interface{} `json:"fields"`
}

// the reserved time-range fields and their operator keys
var (
	timeRangeFields    = []string{"created", "updated"}
	timeRangeOperators = []string{"gt", "gte", "lt", "lte", "ne"}
)

// Compile parses raw HTTP query parameters into a descriptor, using the
// per-endpoint field-type map for typed filters and the configuration for
// pagination and sort defaults. defaultFields is an optional projection merged
// under the client's fields parameter.
//
// Compile never fails; unparseable parameters fall back to their defaults.
func Compile(params url.Values, fieldTypes map[string]FilterType, defaultFields map[string]interface{}, cfg Config) Descriptor {
	cfg = cfg.merged()

	limit := intParam(params, cfg.DefaultLimit, "limit", "count")
	if limit < 1 {
		limit = cfg.DefaultLimit
	}
	skip := intParam(params, 0, "skip", "offset")
	// a 1-indexed page wins over an explicit skip
	if page := intParam(params, 0, "page"); page > 0 {
		skip = (page - 1) * limit
	}
	if skip < 0 {
		skip = 0
	}

	sortField := params.Get("sort")
	if sortField == "" {
		sortField = cfg.SortField
	}
	order := params.Get("order")
	if order != OrderAscending && order != OrderDescending {
		order = cfg.SortOrder
	}

	var clauses []interface{}
	for _, field := range timeRangeFields {
		if clause := timeRangeClause(params, field); clause != nil {
			clauses = append(clauses, clause)
		}
	}
	clauses = append(clauses, filterClauses(params, fieldTypes)...)

	query := map[string]interface{}{}
	if len(clauses) > 0 {
		query["$"+logicalOperator(params.Get("logical"))] = clauses
	}

	descriptor := Descriptor{
		Query:  query,
		Sort:   []SortSpec{{Field: sortField, Direction: order}},
		Limit:  limit,
		Skip:   skip,
		Fields: projection(params.Get("fields"), defaultFields),
	}
	if descriptor.Limit > cfg.MaxLimit {
		descriptor.Limit = cfg.MaxLimit
	}
	return descriptor
}

// intParam returns the first present parameter of the given names parsed as an
// integer, or the fallback if none parses.
func intParam(params url.Values, fallback int, names ...string) int {
	for _, name := range names {
		if !params.Has(name) {
			continue
		}
		if n, err := cast.ToIntE(params.Get(name)); err == nil {
			return n
		}
		return fallback
	}
	return fallback
}

// timeRangeClause reads the operator sub-keys of a reserved time field, for
// example created.gt=1412804866, and normalizes each value to milliseconds.
// Values with fewer than 12 decimal digits are second resolution and get the
// x1000 correction; downstream range queries are millisecond-denominated.
func timeRangeClause(params url.Values, field string) map[string]interface{} {
	timeRange := map[string]interface{}{}
	for _, op := range timeRangeOperators {
		raw := params.Get(field + "." + op)
		if raw == "" {
			raw = params.Get(field + "[" + op + "]")
		}
		if raw == "" {
			continue
		}
		n, err := cast.ToInt64E(raw)
		if err != nil {
			continue
		}
		if n > -schema.MinMillisTimestamp && n < schema.MinMillisTimestamp {
			n *= 1000
		}
		timeRange["$"+op] = n
	}
	if len(timeRange) == 0 {
		return nil
	}
	return map[string]interface{}{field: timeRange}
}

// filterClauses turns the typed field filters into clauses, one per field in
// sorted field-name order. A comma-separated value list always expands to a
// $or of per-value clauses, a single value stays a direct clause. The literal
// value "all" means no filter.
func filterClauses(params url.Values, fieldTypes map[string]FilterType) []interface{} {
	fields := make([]string, 0, len(fieldTypes))
	for field := range fieldTypes {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var clauses []interface{}
	for _, field := range fields {
		if !params.Has(field) {
			continue
		}
		raw := params.Get(field)
		if raw == "all" {
			continue
		}
		values := strings.Split(raw, ",")
		if len(values) == 1 {
			clauses = append(clauses, map[string]interface{}{field: filterValue(fieldTypes[field], values[0])})
			continue
		}
		or := make([]interface{}, len(values))
		for i, value := range values {
			or[i] = map[string]interface{}{field: filterValue(fieldTypes[field], value)}
		}
		clauses = append(clauses, map[string]interface{}{"$or": or})
	}
	return clauses
}

func filterValue(t FilterType, value string) interface{} {
	switch t {
	case FilterRegex:
		return map[string]interface{}{
			"$regex":   regexp.QuoteMeta(value),
			"$options": "i",
		}
	case FilterInteger:
		return cast.ToInt64(value)
	case FilterFloat:
		return cast.ToFloat64(value)
	}
	return value
}

// logicalOperator sanitizes the logical parameter: lower case, with '@' and
// whitespace stripped. The default combinator is and.
func logicalOperator(raw string) string {
	logical := strings.ToLower(raw)
	logical = strings.ReplaceAll(logical, "@", "")
	logical = strings.Join(strings.Fields(logical), "")
	if logical == "" {
		return "and"
	}
	return logical
}

// projection parses the comma-separated fields parameter into a projection
// mapping, merged over the endpoint's default projection.
func projection(raw string, defaultFields map[string]interface{}) map[string]interface{} {
	fields := map[string]interface{}{}
	for key, value := range defaultFields {
		fields[key] = value
	}
	if raw == "" {
		return fields
	}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields[field] = 1
		}
	}
	return fields
}
