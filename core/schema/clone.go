// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package schema

// CloneTree returns a deep copy of an attribute tree. Nested maps and
// sequences are copied, scalar values are shared.
func CloneTree(attrs map[string]interface{}) map[string]interface{} {
	if attrs == nil {
		return nil
	}
	clone := make(map[string]interface{}, len(attrs))
	for key, value := range attrs {
		clone[key] = cloneValue(value)
	}
	return clone
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return CloneTree(t)
	case []interface{}:
		clone := make([]interface{}, len(t))
		for i, element := range t {
			clone[i] = cloneValue(element)
		}
		return clone
	}
	return v
}
