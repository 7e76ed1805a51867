package browse

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/storage/memory"
	"github.com/openhymnal/hymnal-cli/internal/adapters/driving/tui/messages"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/services"
)

func newTestView(t *testing.T) *View {
	t.Helper()

	replica := memory.NewReplicaStore()
	ctx := context.Background()
	seed := []domain.Hymn{
		{ID: 1, Title: "Dawn Praise", Poet: "Rumi", UpdatedAt: time.Now()},
		{ID: 2, Title: "Evening Plea", Poet: "Hafiz", UpdatedAt: time.Now()},
		{ID: 3, Title: "Night Watch", UpdatedAt: time.Now()},
	}
	for _, h := range seed {
		require.NoError(t, replica.UpsertHymn(ctx, h))
	}

	catalog := services.NewCatalog(replica)
	favorites := services.NewFavorites(memory.NewFavoriteStore(), replica)
	v := NewView(nil, nil, catalog, favorites)
	v.SetDimensions(80, 24)
	return v
}

// load runs the Init command synchronously and applies its message.
func load(t *testing.T, v *View) *View {
	t.Helper()
	cmd := v.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	loaded, ok := msg.(messages.HymnsLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	v, _ = v.Update(loaded)
	return v
}

func TestView_LoadsHymnsOrderedByTitle(t *testing.T) {
	v := load(t, newTestView(t))

	require.NotNil(t, v.Selected())
	assert.Equal(t, "Dawn Praise", v.Selected().Title)
	assert.Contains(t, v.View(), "Hymns (3)")
	assert.Contains(t, v.View(), "Night Watch")
}

func TestView_Navigation(t *testing.T) {
	v := load(t, newTestView(t))

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, "Evening Plea", v.Selected().Title)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, "Dawn Praise", v.Selected().Title)

	// Up at the top stays put
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, "Dawn Praise", v.Selected().Title)
}

func TestView_SelectEmitsHymnSelected(t *testing.T) {
	v := load(t, newTestView(t))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := cmd()
	selected, ok := msg.(messages.HymnSelected)
	require.True(t, ok)
	assert.Equal(t, int64(1), selected.Hymn.ID)
}

func TestView_SearchFiltersList(t *testing.T) {
	v := load(t, newTestView(t))

	// "/" opens the filter input
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	assert.True(t, v.Searching())

	// Type a query and confirm
	for _, r := range "Evening" {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, v.Searching())
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.HymnsLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	v, _ = v.Update(loaded)

	require.NotNil(t, v.Selected())
	assert.Equal(t, "Evening Plea", v.Selected().Title)
	assert.Contains(t, v.View(), `matching "Evening"`)
}

func TestView_ToggleFavorite(t *testing.T) {
	v := load(t, newTestView(t))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	require.NotNil(t, cmd)

	msg := cmd()
	toggled, ok := msg.(messages.FavoriteToggled)
	require.True(t, ok)
	require.NoError(t, toggled.Err)
	assert.Equal(t, int64(1), toggled.ID)
	assert.True(t, toggled.Favorite)
}
