package commands

import (
	"StateDeck/internal/client"
	"StateDeck/internal/config"
	"StateDeck/internal/handlers"
	"StateDeck/internal/repo"
	"StateDeck/internal/service"
	"StateDeck/internal/share"
	"StateDeck/internal/storage"
	"StateDeck/internal/upload"
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const figmaURL = "https://www.figma.com/design/AbCdEFg12345/Checkout?node-id=12-34"

// newAPIServer поднимает полный HTTP-стек над SQLite в памяти.
func newAPIServer(t *testing.T) *httptest.Server {
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
	return srv
}

// run выполняет команду CLI и возвращает stdout и stderr.
func run(t *testing.T, server string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	orig := Out
	Out = &stdout
	defer func() { Out = orig }()

	root := NewRootCmd(&config.Config{PublicURL: server})
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Checkout Screen.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600))
	return path
}

// seedElement создаёт элемент через API-клиент.
func seedElement(t *testing.T, server string) string {
	t.Helper()
	e, err := client.New(server, nil).CreateElement(context.Background(), client.ElementForm{
		Title:    "Checkout",
		FigmaURL: figmaURL,
		Image:    client.Image{Name: "shot.png", Type: "image/png", Data: strings.NewReader("png")},
	})
	require.NoError(t, err)
	return e.ID
}

func seedState(t *testing.T, server, elementID, typ, title, message string) string {
	t.Helper()
	st, err := client.New(server, nil).CreateState(context.Background(), elementID, client.StateInput{
		Type:    stateType(typ),
		Title:   title,
		Message: message,
	})
	require.NoError(t, err)
	return st.ID
}
