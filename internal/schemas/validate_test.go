package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSeedFixture_Valid(t *testing.T) {
	doc := `{
		"jobs": [{
			"title": "Backend Engineer",
			"department": "Engineering",
			"status": "active",
			"keywords": ["go", "postgres"],
			"candidates": [{"name": "Ana Silva", "email": "ana@example.com", "match_score": 82, "skills": ["Go"]}]
		}]
	}`

	assert.NoError(t, ValidateSeedFixture([]byte(doc)))
}

func TestValidateSeedFixture_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing jobs", `{}`},
		{"missing title", `{"jobs": [{"department": "Sales"}]}`},
		{"bad status", `{"jobs": [{"title": "Rep", "status": "archived"}]}`},
		{"score out of range", `{"jobs": [{"title": "Rep", "candidates": [{"name": "X", "match_score": 120}]}]}`},
		{"unknown field", `{"jobs": [{"title": "Rep", "salary": 10}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeedFixture([]byte(tt.doc))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error should be ValidationError type")
			assert.NotEmpty(t, verr.Errors)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestValidateSeedFixture_Malformed(t *testing.T) {
	err := ValidateSeedFixture([]byte(`{"jobs": [`))
	require.Error(t, err)

	var lerr *SchemaLoadError
	assert.True(t, errors.As(err, &lerr))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"]}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{}`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "(root)", verr.Errors[0].Field)
}
