package service

import (
	"StateDeck/internal/repo"
	"StateDeck/internal/upload"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) Save(ctx context.Context, f upload.File) (upload.Stored, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(upload.Stored), args.Error(1)
}

type services struct {
	projects *ProjectService
	elements *ElementService
	states   *StateService
	uploads  *mockUploader
}

func newServices(t *testing.T) services {
	t.Helper()
	db := newTestDB(t)
	logger := zap.NewNop().Sugar()
	pr := repo.NewProjectRepository(db)
	er := repo.NewElementRepository(db)
	sr := repo.NewStateRepository(db)
	up := &mockUploader{}
	return services{
		projects: NewProjectService(pr, logger),
		elements: NewElementService(er, pr, sr, up, logger),
		states:   NewStateService(sr, er, logger),
		uploads:  up,
	}
}

func pngFile() *upload.File {
	return &upload.File{Data: []byte("png"), Name: "Login.png", Type: "image/png", Size: 3}
}

func storedPNG() upload.Stored {
	return upload.Stored{Path: "http://localhost:8081/uploads/login-1.png", Name: "Login.png", Type: "image/png", Size: 3}
}

func ptrStr(s string) *string { return &s }
func ptrInt(v int) *int       { return &v }
