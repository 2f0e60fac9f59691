package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/docstore/core"
)

func accountSchema() *Schema {
	return New(map[string]*Node{
		"_id":     {Type: TypeID, ReadOnly: true},
		"name":    {Type: TypeString},
		"secret":  {Type: TypeString, Hidden: true},
		"balance": {Type: TypeFloat, Computed: true},
		"owner": {Type: TypeObject, Expandable: true, Fields: map[string]*Node{
			"_id":  {Type: TypeID},
			"name": {Type: TypeString},
		}},
		"settings": {Type: TypeObject, Fields: map[string]*Node{
			"theme":    {Type: TypeString},
			"internal": {Type: TypeString, Hidden: true},
		}},
	})
}

func TestPolicyIndex(t *testing.T) {
	s := accountSchema()
	assert.Equal(t, map[string]interface{}{
		"secret": true,
		"settings": map[string]interface{}{
			"internal": true,
		},
	}, s.PolicyIndex(FlagHidden))
	assert.Equal(t, map[string]interface{}{"_id": true}, s.PolicyIndex(FlagReadOnly))
	assert.Equal(t, map[string]interface{}{"balance": true}, s.PolicyIndex(FlagComputed))
	assert.Equal(t, map[string]interface{}{"owner": true}, s.PolicyIndex(FlagExpandable))
}

func TestApplyPolicy(t *testing.T) {
	s := accountSchema()
	attrs := map[string]interface{}{
		"name":   "alice",
		"secret": "hunter2",
		"settings": map[string]interface{}{
			"theme":    "dark",
			"internal": "flag",
		},
	}
	ApplyPolicy(attrs, s.PolicyIndex(FlagHidden))
	assert.Equal(t, map[string]interface{}{
		"name": "alice",
		"settings": map[string]interface{}{
			"theme": "dark",
		},
	}, attrs)
}

func TestApplyPolicy_NonObjectUnderSubtree(t *testing.T) {
	s := accountSchema()
	attrs := map[string]interface{}{
		"settings": "not an object",
	}
	ApplyPolicy(attrs, s.PolicyIndex(FlagHidden))
	assert.Equal(t, "not an object", attrs["settings"])
}

func TestCollapseExpandable(t *testing.T) {
	s := accountSchema()
	ownerID := core.NewID()
	attrs := map[string]interface{}{
		"name": "alice",
		"owner": map[string]interface{}{
			"_id":  ownerID,
			"name": "expanded relation data",
		},
	}
	CollapseExpandable(attrs, s.PolicyIndex(FlagExpandable))
	assert.Equal(t, map[string]interface{}{"_id": ownerID}, attrs["owner"])
	assert.Equal(t, "alice", attrs["name"])
}

func TestCollapseExpandable_WithoutIdentifier(t *testing.T) {
	s := accountSchema()
	attrs := map[string]interface{}{
		"owner": map[string]interface{}{"name": "no id here"},
	}
	CollapseExpandable(attrs, s.PolicyIndex(FlagExpandable))
	assert.NotContains(t, attrs, "owner")
}

func TestCollapseExpandable_AlreadyCollapsed(t *testing.T) {
	s := accountSchema()
	attrs := map[string]interface{}{
		"owner": "507f1f77bcf86cd799439011",
	}
	CollapseExpandable(attrs, s.PolicyIndex(FlagExpandable))
	assert.Equal(t, "507f1f77bcf86cd799439011", attrs["owner"])
}
