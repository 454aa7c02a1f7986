package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDoc(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	paths, ok := spec["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/auth/register")
	assert.Contains(t, paths, "/auth/token")
	assert.Contains(t, paths, "/catalog/search/{term}")
	assert.Contains(t, paths, "/catalog/songs/{id}")
	assert.Contains(t, paths, "/users/{username}")
	assert.Contains(t, paths, "/users/{username}/songs/{id}")

	assert.Equal(t, "/api/v1", spec["basePath"])
}
