package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// the empty vs. populated distinction is easy to get backwards, so all four
// combinations are spelled out for objects and for arrays
func TestSafeMerge_Objects(t *testing.T) {
	populated := map[string]interface{}{"a": 1}
	incoming := map[string]interface{}{"b": 2}
	empty := map[string]interface{}{}

	testCases := []struct {
		name     string
		existing interface{}
		incoming map[string]interface{}
		expected interface{}
	}{
		{"populated over populated", populated, incoming, incoming},
		{"populated over empty", empty, incoming, incoming},
		{"empty over populated keeps existing", populated, empty, populated},
		{"empty over empty", empty, empty, empty},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dst := map[string]interface{}{"field": tc.existing}
			safeMerge(dst, map[string]interface{}{"field": tc.incoming})
			assert.Equal(t, tc.expected, dst["field"])
		})
	}

	t.Run("empty over missing", func(t *testing.T) {
		dst := map[string]interface{}{}
		safeMerge(dst, map[string]interface{}{"field": empty})
		assert.Equal(t, empty, dst["field"])
	})
	t.Run("empty over scalar", func(t *testing.T) {
		dst := map[string]interface{}{"field": "scalar"}
		safeMerge(dst, map[string]interface{}{"field": empty})
		assert.Equal(t, empty, dst["field"])
	})
}

func TestSafeMerge_Arrays(t *testing.T) {
	populated := []interface{}{"x"}
	incoming := []interface{}{"y", "z"}
	empty := []interface{}{}

	testCases := []struct {
		name     string
		existing interface{}
		incoming []interface{}
		expected interface{}
	}{
		{"populated over populated", populated, incoming, incoming},
		{"populated over empty", empty, incoming, incoming},
		{"empty over populated keeps existing", populated, empty, populated},
		{"empty over empty", empty, empty, empty},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dst := map[string]interface{}{"field": tc.existing}
			safeMerge(dst, map[string]interface{}{"field": tc.incoming})
			assert.Equal(t, tc.expected, dst["field"])
		})
	}
}

func TestSafeMerge_NoDeepMergeOfPopulatedObjects(t *testing.T) {
	dst := map[string]interface{}{
		"nested": map[string]interface{}{"keep": true, "old": 1},
	}
	safeMerge(dst, map[string]interface{}{
		"nested": map[string]interface{}{"new": 2},
	})
	// populated objects replace wholesale, no key-wise merging
	assert.Equal(t, map[string]interface{}{"new": 2}, dst["nested"])
}

func TestSafeMerge_Scalars(t *testing.T) {
	dst := map[string]interface{}{"a": 1, "b": "keep"}
	safeMerge(dst, map[string]interface{}{"a": 2, "c": nil})
	assert.Equal(t, map[string]interface{}{"a": 2, "b": "keep", "c": nil}, dst)
}
