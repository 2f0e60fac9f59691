// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package schema

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/relabs-tech/docstore/core"
)

// MinMillisTimestamp is the smallest value accepted as a millisecond-resolution
// unix timestamp. Values with fewer than 12 decimal digits are at second
// resolution and need a x1000 correction before they enter a range query.
const MinMillisTimestamp int64 = 100000000000

// dateLayout is strict ISO-8601 with milliseconds. The zone designator must be
// the literal 'Z'.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// Coerce maps a declared field type to a coercion of the raw value. It returns
// the coerced value and whether the raw value was valid for the type. Coerce
// never fails; invalid input yields the type's zero value and valid == false,
// the caller decides whether to drop or sentinel the value.
//
// Numeric types follow a coerce-then-check contract: unparseable input coerces
// to 0 and still counts as valid, only a range violation (negative value for an
// unsigned type) is invalid. Strings are never coerced from other types; a
// number supplied for a string field is invalid, not stringified.
func Coerce(t FieldType, v interface{}) (interface{}, bool) {
	switch t {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return "", false
		}
		return s, true

	case TypeInteger, TypeUInteger:
		n := toInt64(v)
		if t == TypeUInteger && n < 0 {
			return int64(0), false
		}
		return n, true

	case TypeFloat, TypeUFloat:
		f := toFloat64(v)
		if t == TypeUFloat && f < 0 {
			return float64(0), false
		}
		return f, true

	case TypeBoolean:
		return truthy(v), true

	case TypeTimestamp:
		n := toInt64(v)
		if n < MinMillisTimestamp {
			return int64(0), false
		}
		return n, true

	case TypeDate:
		if s, ok := v.(string); ok {
			if strings.HasSuffix(s, "Z") {
				if ts, err := time.Parse(dateLayout, s); err == nil {
					return ts.UTC(), true
				}
			}
			return time.Time{}, false
		}
		if ts, ok := v.(time.Time); ok {
			return ts, true
		}
		return time.Time{}, false

	case TypeID:
		switch id := v.(type) {
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

	// object and array nodes are walked by Validate, not coerced here
	return v, false
}

func toInt64(v interface{}) int64 {
	if n, err := cast.ToInt64E(v); err == nil {
		return n
	}
	// a fractional string like "12.7" fails integer parsing but still
	// carries a whole part
	if f, err := cast.ToFloat64E(v); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return 0
}

func toFloat64(v interface{}) float64 {
	if f, err := cast.ToFloat64E(v); err == nil {
		return f
	}
	return 0
}

// truthy reduces any value to a boolean the way dynamic languages do: false,
// zero, the empty string and null are false, everything else is true.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
