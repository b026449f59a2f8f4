package editor

import (
	"StateDeck/internal/client"
	"StateDeck/internal/config"
	"StateDeck/internal/handlers"
	"StateDeck/internal/model"
	"StateDeck/internal/repo"
	"StateDeck/internal/service"
	"StateDeck/internal/share"
	"StateDeck/internal/storage"
	"StateDeck/internal/upload"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newAPIServer(t *testing.T) *client.Client {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite в памяти: одна запись за раз
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repo.Migrate(db))

	cfg := &config.Config{MaxUploadSizeMB: 1, PublicURL: "http://example.test"}
	log := zap.NewNop().Sugar()
	projects := repo.NewProjectRepository(db)
	elements := repo.NewElementRepository(db)
	states := repo.NewStateRepository(db)
	blobs := storage.NewDatabase(repo.NewBlobRepository(db), cfg.PublicURL, log)

	h := handlers.NewHandler(
		service.NewProjectService(projects, log),
		service.NewElementService(elements, projects, states, upload.NewStore(blobs, cfg), log),
		service.NewStateService(states, elements, log),
		blobs,
		share.NewSigner("test-secret", time.Hour),
		log,
		cfg,
	)
	srv := httptest.NewServer(h.Router)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, nil)
}

func TestSession_MoveUpThenDownPersistsOriginalOrder(t *testing.T) {
	api := newAPIServer(t)
	ctx := context.Background()

	e, err := api.CreateElement(ctx, client.ElementForm{
		FigmaURL: "https://www.figma.com/design/AbCdEFg12345/Checkout",
		Image:    client.Image{Name: "shot.png", Type: "image/png", Data: strings.NewReader("png")},
	})
	require.NoError(t, err)
	top, err := api.CreateState(ctx, e.ID, client.StateInput{Type: model.StateError, Title: "Top", Message: "t"})
	require.NoError(t, err)
	bottom, err := api.CreateState(ctx, e.ID, client.StateInput{Type: model.StateError, Title: "Bottom", Message: "b"})
	require.NoError(t, err)

	for range 5 {
		list, err := api.ListStates(ctx, e.ID)
		require.NoError(t, err)
		s := New(api, e.ID, list, Options{})

		require.NoError(t, s.Move(bottom.ID, Up))
		require.NoError(t, s.Move(bottom.ID, Down))
		require.NoError(t, s.Flush(ctx))
		s.Close()

		reloaded, err := api.ListStates(ctx, e.ID)
		require.NoError(t, err)
		require.Len(t, reloaded, 2)
		assert.Equal(t, top.ID, reloaded[0].ID)
		assert.Equal(t, 1, reloaded[0].SortOrder)
		assert.Equal(t, bottom.ID, reloaded[1].ID)
		assert.Equal(t, 2, reloaded[1].SortOrder)
	}
}
