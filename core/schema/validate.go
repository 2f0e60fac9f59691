// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package schema

// Validate walks the attribute tree against the schema, mutating attrs in
// place. Keys the schema does not know are deleted, values are coerced to
// their declared types, and an explicit null is reset to its entry in the
// defaults tree when one is supplied. Validation recurses into object nodes
// and arrays with a declared element schema; open nodes stop the recursion
// and accept any sub-structure verbatim.
//
// Validate never fails. Client input is adversarial and is corrected or
// dropped, not rejected: invalid object values are deleted, invalid array
// elements are replaced with the type's zero value so the array keeps its
// length and index alignment.
func Validate(attrs map[string]interface{}, s *Schema, defaults map[string]interface{}) {
	validateFields(attrs, s.Fields, defaults)
}

func validateFields(attrs map[string]interface{}, fields map[string]*Node, defaults map[string]interface{}) {
	for key, value := range attrs {
		node, ok := fields[key]
		if !ok {
			delete(attrs, key)
			continue
		}

		if value == nil {
			// null is the unset sentinel. With a defaults tree the field
			// reverts to its default, otherwise the explicit null stays.
			if defaults != nil {
				if def, ok := defaults[key]; ok {
					attrs[key] = cloneValue(def)
				}
			}
			continue
		}

		switch node.Type {
		case TypeArray:
			seq, ok := value.([]interface{})
			if !ok {
				delete(attrs, key)
				continue
			}
			validateElements(seq, node)

		case TypeObject:
			if len(node.Fields) == 0 {
				continue // open node, accept anything below
			}
			sub, ok := value.(map[string]interface{})
			if !ok {
				delete(attrs, key)
				continue
			}
			var subDefaults map[string]interface{}
			if defaults != nil {
				subDefaults, _ = defaults[key].(map[string]interface{})
			}
			validateFields(sub, node.Fields, subDefaults)

		default:
			coerced, valid := Coerce(node.Type, value)
			if !valid {
				delete(attrs, key)
				continue
			}
			attrs[key] = coerced
		}
	}
}

func validateElements(seq []interface{}, node *Node) {
	if len(node.Fields) > 0 {
		for _, element := range seq {
			if sub, ok := element.(map[string]interface{}); ok {
				validateFields(sub, node.Fields, nil)
			}
		}
		return
	}
	if node.ValueType == "" || node.ValueType == TypeObject || node.ValueType == TypeArray {
		return // open array, anything permitted
	}
	for i, element := range seq {
		// invalid elements become the zero value, never removed, so the
		// array length survives validation
		coerced, _ := Coerce(node.ValueType, element)
		seq[i] = coerced
	}
}
