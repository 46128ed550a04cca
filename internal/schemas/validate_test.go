package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["session_id", "selected_photos"],
	"properties": {
		"session_id": {"type": "string"},
		"selected_photos": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["path", "rank_position"],
				"properties": {
					"path": {"type": "string"},
					"rank_position": {"type": "integer", "minimum": 1}
				}
			}
		}
	}
}`

func TestValidateJSONStringValid(t *testing.T) {
	doc := `{"session_id": "abc", "selected_photos": [{"path": "/p/a.jpg", "rank_position": 1}]}`
	assert.NoError(t, ValidateJSONString(testSchema, doc))
}

func TestValidateJSONStringMissingRequired(t *testing.T) {
	doc := `{"selected_photos": []}`
	err := ValidateJSONString(testSchema, doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), "session_id")
}

func TestValidateJSONStringWrongType(t *testing.T) {
	doc := `{"session_id": "abc", "selected_photos": [{"path": "/p/a.jpg", "rank_position": 0}]}`
	err := ValidateJSONString(testSchema, doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "selected_photos.0.rank_position", ve.Errors[0].Field)
}

func TestValidateJSONStringBadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": ["bogus-`, `{}`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.ErrorAs(t, err, &le)
}
