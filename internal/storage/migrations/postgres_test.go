package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/domain"
)

func TestFiles_Sorted(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_journal.sql", files[0])
}

func TestSchema_HasEveryListColumn(t *testing.T) {
	data, err := fs.ReadFile(PostgresFS, "postgres/001_journal.sql")
	require.NoError(t, err)
	sql := string(data)

	for _, f := range domain.ListFields {
		assert.True(t, strings.Contains(sql, f.Column()+" "), "missing column %s", f.Column())
	}
	assert.Contains(t, sql, "preferences JSONB")
}
