package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_Embedded(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "0001_companies_jobs", versions[0])
}

func TestSchemaFiles_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"schema/0002_b.sql":   {Data: []byte("SELECT 2")},
		"schema/0001_a.sql":   {Data: []byte("SELECT 1")},
		"schema/README.md":    {Data: []byte("notes")},
		"schema/nested/x.sql": {Data: []byte("SELECT 3")},
	}
	files, err := schemaFiles(fsys, "schema")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, files)
}

func TestSchemaFiles_MissingDir(t *testing.T) {
	_, err := schemaFiles(fstest.MapFS{}, "schema")
	require.Error(t, err)
}
