package cli

import (
	"context"
	"time"

	"github.com/openhymnal/hymnal-cli/internal/adapters/driven/storage/memory"
	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driving"
	"github.com/openhymnal/hymnal-cli/internal/core/services"
)

// stubEngine is a canned SyncEngine for command tests.
type stubEngine struct {
	result domain.SyncResult
	status *domain.SyncStatus
	runs   int
}

var _ driving.SyncEngine = (*stubEngine)(nil)

func (s *stubEngine) Run(_ context.Context) domain.SyncResult {
	s.runs++
	return s.result
}

func (s *stubEngine) Status(_ context.Context) (*domain.SyncStatus, error) {
	if s.status == nil {
		return &domain.SyncStatus{}, nil
	}
	return s.status, nil
}

// setupTestServices wires the commands to in-memory stores and a stub
// engine. Returns the engine for assertions and a cleanup function.
func setupTestServices() (*stubEngine, func()) {
	replica := memory.NewReplicaStore()
	ctx := context.Background()

	seed := []domain.Hymn{
		{ID: 1, Title: "Dawn Praise", Poet: "Rumi", Reciter: "Choir A", Category: "morning",
			Lyrics: "the morning light", Translation: "a rendering", UpdatedAt: time.Now()},
		{ID: 2, Title: "Evening Plea", Poet: "Hafiz", Reciter: "Choir B", Category: "evening",
			Lyrics: "the fading light", UpdatedAt: time.Now()},
	}
	for _, h := range seed {
		_ = replica.UpsertHymn(ctx, h)
	}

	engine := &stubEngine{
		result: domain.SyncResult{Success: true, RecordsProcessed: 2, ActiveRecords: 2},
	}

	SetServices(&Services{
		Catalog:           services.NewCatalog(replica),
		Favorites:         services.NewFavorites(memory.NewFavoriteStore(), replica),
		Settings:          services.NewSettingsService(memory.NewConfigStore()),
		SyncEngine:        engine,
		ForegroundTrigger: services.NewForegroundTrigger(engine, nil),
	})

	cleanup := func() {
		SetServices(nil)
	}
	return engine, cleanup
}
