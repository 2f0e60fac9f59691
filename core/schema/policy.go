// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package schema

// Flag is one of the boolean policy flags a schema node can carry
type Flag string

// all supported policy flags
const (
	FlagReadOnly   Flag = "readonly"
	FlagHidden     Flag = "hidden"
	FlagExpandable Flag = "expandable"
	FlagComputed   Flag = "computed"
)

func (n *Node) flagged(flag Flag) bool {
	switch flag {
	case FlagReadOnly:
		return n.ReadOnly
	case FlagHidden:
		return n.Hidden
	case FlagExpandable:
		return n.Expandable
	case FlagComputed:
		return n.Computed
	}
	return false
}

// PolicyIndex derives the tree marking which paths of the schema carry the
// given flag: a true leaf means the field is flagged, a nested map means the
// flag applies somewhere below. The schema is static per record type, so the
// index is built once and treated as read-only thereafter.
func (s *Schema) PolicyIndex(flag Flag) map[string]interface{} {
	return policyIndex(s.Fields, flag)
}

func policyIndex(fields map[string]*Node, flag Flag) map[string]interface{} {
	index := map[string]interface{}{}
	for name, node := range fields {
		if node.flagged(flag) {
			index[name] = true
			continue
		}
		if len(node.Fields) > 0 {
			if sub := policyIndex(node.Fields, flag); len(sub) > 0 {
				index[name] = sub
			}
		}
	}
	return index
}

// ApplyPolicy strips from attrs every key the policy index flags, mutating
// attrs in place. Where the index has a subtree and the attribute value is an
// object, the policy is applied below; arrays and scalars under a subtree
// entry are left alone.
func ApplyPolicy(attrs map[string]interface{}, index map[string]interface{}) {
	for key, mark := range index {
		value, ok := attrs[key]
		if !ok {
			continue
		}
		if flagged, ok := mark.(bool); ok {
			if flagged {
				delete(attrs, key)
			}
			continue
		}
		if sub, ok := mark.(map[string]interface{}); ok {
			if nested, ok := value.(map[string]interface{}); ok {
				ApplyPolicy(nested, sub)
			}
		}
	}
}

// CollapseExpandable reduces every subtree the index flags to its identifier
// field, so expanded relation data never travels back into the store while the
// identifier still round-trips. Values that are not objects are left alone,
// they are already collapsed.
func CollapseExpandable(attrs map[string]interface{}, index map[string]interface{}) {
	for key, mark := range index {
		value, ok := attrs[key]
		if !ok {
			continue
		}
		if flagged, ok := mark.(bool); ok {
			if !flagged {
				continue
			}
			if nested, ok := value.(map[string]interface{}); ok {
				if id, ok := nested["_id"]; ok {
					attrs[key] = map[string]interface{}{"_id": id}
				} else {
					delete(attrs, key)
				}
			}
			continue
		}
		if sub, ok := mark.(map[string]interface{}); ok {
			if nested, ok := value.(map[string]interface{}); ok {
				CollapseExpandable(nested, sub)
			}
		}
	}
}
