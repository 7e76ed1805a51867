package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/storage/memory"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

func seedReplica(t *testing.T) *memory.ReplicaStore {
	t.Helper()
	replica := memory.NewReplicaStore()
	ctx := context.Background()

	hymns := []domain.Hymn{
		{ID: 1, Title: "Dawn Praise", Reciter: "Yusuf", Poet: "Rumi", Category: "praise", Lyrics: "rise and shine", UpdatedAt: time.Now()},
		{ID: 2, Title: "Evening Plea", Reciter: "Sami", Poet: "Iqbal", Category: "supplication", Lyrics: "rest now", UpdatedAt: time.Now()},
		{ID: 3, Title: "Night Watch", Reciter: "Yusuf", Poet: "Rumi", Category: "praise", Lyrics: "stars above", UpdatedAt: time.Now()},
	}
	for _, h := range hymns {
		require.NoError(t, replica.UpsertHymn(ctx, h))
	}
	return replica
}

func TestCatalog_Get(t *testing.T) {
	catalog := NewCatalog(seedReplica(t))

	hymn, err := catalog.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Evening Plea", hymn.Title)

	_, err = catalog.Get(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_List_DefaultPage(t *testing.T) {
	catalog := NewCatalog(seedReplica(t))

	hymns, err := catalog.List(context.Background(), domain.Page{})
	require.NoError(t, err)
	assert.Len(t, hymns, 3)
	assert.Equal(t, "Dawn Praise", hymns[0].Title)
}

func TestCatalog_ByCategory(t *testing.T) {
	catalog := NewCatalog(seedReplica(t))

	hymns, err := catalog.ByCategory(context.Background(), "praise", domain.Page{})
	require.NoError(t, err)
	assert.Len(t, hymns, 2)

	_, err = catalog.ByCategory(context.Background(), "  ", domain.Page{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalog_ByPoetAndReciter(t *testing.T) {
	catalog := NewCatalog(seedReplica(t))
	ctx := context.Background()

	byPoet, err := catalog.ByPoet(ctx, "Rumi", domain.Page{})
	require.NoError(t, err)
	assert.Len(t, byPoet, 2)

	byReciter, err := catalog.ByReciter(ctx, "Sami", domain.Page{})
	require.NoError(t, err)
	assert.Len(t, byReciter, 1)
}

func TestCatalog_Search(t *testing.T) {
	catalog := NewCatalog(seedReplica(t))
	ctx := context.Background()

	hymns, err := catalog.Search(ctx, "stars", domain.Page{})
	require.NoError(t, err)
	require.Len(t, hymns, 1)
	assert.Equal(t, "Night Watch", hymns[0].Title)

	_, err = catalog.Search(ctx, "", domain.Page{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalog_Count(t *testing.T) {
	catalog := NewCatalog(seedReplica(t))

	count, err := catalog.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFavorites_AddRemoveList(t *testing.T) {
	replica := seedReplica(t)
	favs := NewFavorites(memory.NewFavoriteStore(), replica)
	ctx := context.Background()

	require.NoError(t, favs.Add(ctx, 1))
	require.NoError(t, favs.Add(ctx, 3))

	list, err := favs.List(ctx)
	require.NoError(t, err)
	// Pinned pseudo-entries come first, then favourites in insertion order.
	require.Len(t, list, len(pinnedFavorites)+2)
	for i, pinned := range pinnedFavorites {
		assert.Equal(t, pinned.ID, list[i].ID)
		assert.True(t, list[i].IsPinned())
	}
	assert.EqualValues(t, 1, list[len(pinnedFavorites)].ID)
	assert.EqualValues(t, 3, list[len(pinnedFavorites)+1].ID)

	require.NoError(t, favs.Remove(ctx, 1))
	list, err = favs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(pinnedFavorites)+1)
}

func TestFavorites_Add_UnknownHymn(t *testing.T) {
	favs := NewFavorites(memory.NewFavoriteStore(), memory.NewReplicaStore())

	err := favs.Add(context.Background(), 42)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFavorites_Add_PinnedID(t *testing.T) {
	favs := NewFavorites(memory.NewFavoriteStore(), seedReplica(t))

	err := favs.Add(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrPinnedID)
}

func TestFavorites_Toggle(t *testing.T) {
	favs := NewFavorites(memory.NewFavoriteStore(), seedReplica(t))
	ctx := context.Background()

	on, err := favs.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := favs.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.False(t, off)

	fav, err := favs.IsFavorite(ctx, 1)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestFavorites_List_SkipsVanishedHymn(t *testing.T) {
	replica := seedReplica(t)
	favs := NewFavorites(memory.NewFavoriteStore(), replica)
	ctx := context.Background()

	require.NoError(t, favs.Add(ctx, 2))

	// The hymn is later tombstoned away by sync.
	require.NoError(t, replica.DeleteHymn(ctx, 2))

	list, err := favs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(pinnedFavorites))
}
