package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Dawn Praise")
	assert.Contains(t, out, "Evening Plea")
	assert.Contains(t, out, "2 hymn(s)")
}

func TestListCmd_CategoryFilter(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "list", "--category", "morning")

	require.NoError(t, err)
	assert.Contains(t, out, "Dawn Praise")
	assert.NotContains(t, out, "Evening Plea")
}

func TestListCmd_RejectsMultipleFilters(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "list", "--category", "morning", "--poet", "Rumi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one")
}

func TestListCmd_FilterDoesNotLeakAcrossRuns(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "list", "--category", "morning", "--poet", "Rumi")
	require.Error(t, err)

	// The rejected filters must not survive into the next invocation.
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Evening Plea")
}

func TestListCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "list", "--json", "--category", "morning")

	require.NoError(t, err)
	assert.Contains(t, out, `"Title": "Dawn Praise"`)
}

func TestSearchCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "fading")

	require.NoError(t, err)
	assert.Contains(t, out, "Evening Plea")
	assert.NotContains(t, out, "Dawn Praise")
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "search", "nonexistent phrase")

	require.NoError(t, err)
	assert.Contains(t, out, "No hymns found")
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "search")

	assert.Error(t, err)
}

func TestShowCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "show", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Dawn Praise")
	assert.Contains(t, out, "the morning light")
	assert.Contains(t, out, "a rendering")
}

func TestShowCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "show", "99")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestShowCmd_InvalidID(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "show", "abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid hymn ID")
}

func TestFavoritesCmd_AddListRemove(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "favorites", "add", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added hymn 2")

	out, err = execute(t, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "Evening Plea")
	// Pinned entries always lead the list
	assert.Contains(t, out, "Daily Selection")

	out, err = execute(t, "favorites", "remove", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed hymn 2")
}

func TestFavoritesCmd_AddUnknown(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "favorites", "add", "99")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFavoritesCmd_Toggle(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "favorites", "toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added hymn 1")

	out, err = execute(t, "favorites", "toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed hymn 1")
}
