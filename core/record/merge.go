// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package record

// safeMerge merges src into dst at the top level. Populated objects and
// populated arrays replace the existing value wholesale; empty objects and
// empty arrays do not wipe existing data of the same shape. The asymmetry is
// intentional: an empty {} in a request body must not clear nested state.
func safeMerge(dst, src map[string]interface{}) {
	for key, value := range src {
		switch incoming := value.(type) {
		case map[string]interface{}:
			if len(incoming) == 0 {
				if _, ok := dst[key].(map[string]interface{}); ok {
					continue
				}
			}
			dst[key] = incoming
		case []interface{}:
			if len(incoming) == 0 {
				if _, ok := dst[key].([]interface{}); ok {
					continue
				}
			}
			dst[key] = incoming
		default:
			dst[key] = value
		}
	}
}
