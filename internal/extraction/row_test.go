package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsTable = `<table class="adm-list-table">
<thead><tr><th>ID</th><th>Name</th><th>Created</th></tr></thead>
<tbody>
<tr><td><a href="edit.php?ID=112">112</a></td><td>Spare wheel</td><td>01.02.2024 10:00:00</td></tr>
<tr><td><a href="edit.php?ID=A2">  a2 </a></td><td>Mirror</td><td>05.05.2025 11:30:00</td></tr>
<tr><td>no link 777</td><td>Bumper</td><td>06.06.2025 12:00:00</td></tr>
</tbody>
</table>`

func TestFindRow(t *testing.T) {
	t.Parallel()

	l := NewRowLocator("")

	t.Run("matching link returns row text", func(t *testing.T) {
		t.Parallel()
		row, ok, err := l.FindRow(resultsTable, "A2")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "a2\tMirror\t05.05.2025 11:30:00", row.Text)
	})

	t.Run("substring matches a longer identifier", func(t *testing.T) {
		t.Parallel()
		row, ok, err := l.FindRow(resultsTable, "12")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, row.Text, "Spare wheel")
	})

	t.Run("text outside links is ignored", func(t *testing.T) {
		t.Parallel()
		_, ok, err := l.FindRow(resultsTable, "777")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("absent identifier", func(t *testing.T) {
		t.Parallel()
		_, ok, err := l.FindRow(resultsTable, "A3")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("blank identifier never matches", func(t *testing.T) {
		t.Parallel()
		_, ok, err := l.FindRow(resultsTable, "  ")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("link outside a row", func(t *testing.T) {
		t.Parallel()
		_, ok, err := l.FindRow(`<div><a href="#">A2</a></div>`, "A2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFindRowThenExtract(t *testing.T) {
	t.Parallel()

	row, ok, err := NewRowLocator("a").FindRow(resultsTable, "112")
	require.NoError(t, err)
	require.True(t, ok)

	date := ExtractYear(row.Text)
	require.True(t, date.HasYear())
	assert.Equal(t, 2024, *date.Year)
	assert.Equal(t, "01.02.2024 10:00:00", date.RawText)
}
