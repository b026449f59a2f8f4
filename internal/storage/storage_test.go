package storage

import (
	"StateDeck/internal/repo"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	supastorage "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	return NewDatabase(repo.NewBlobRepository(db), "http://localhost:8081", zap.NewNop().Sugar())
}

func TestDatabase_PutAndGet(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	obj, err := d.Put(ctx, "login-1700000000000.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "login-1700000000000.png", obj.Key)
	assert.Equal(t, "http://localhost:8081/uploads/login-1700000000000.png", obj.URL)

	b, err := d.Get(ctx, obj.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), b.Data)
	assert.Equal(t, "image/png", b.ContentType)
	assert.Equal(t, int64(9), b.Size)
	assert.Len(t, b.Hash, 64)
}

func TestDatabase_SameContentReusesFirstKey(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	first, err := d.Put(ctx, "a-1.svg", []byte("<svg/>"), "image/svg+xml")
	require.NoError(t, err)
	second, err := d.Put(ctx, "b-2.svg", []byte("<svg/>"), "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := d.Put(ctx, "c-3.svg", []byte("<svg></svg>"), "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, "c-3.svg", third.Key)
}

type mockSupabase struct{ mock.Mock }

func (m *mockSupabase) UploadFile(bucketID string, relativePath string, data io.Reader, opts ...supastorage.FileOptions) (supastorage.FileUploadResponse, error) {
	body, _ := io.ReadAll(data)
	args := m.Called(bucketID, relativePath, body, *opts[0].ContentType)
	return supastorage.FileUploadResponse{}, args.Error(0)
}

func TestSupabase_PutBuildsPublicURL(t *testing.T) {
	api := new(mockSupabase)
	s := &Supabase{client: api, bucket: "uploads", baseURL: "https://abc.supabase.co"}

	api.On("UploadFile", "uploads", "hero-1.webp", []byte{1, 2, 3}, "image/webp").Return(nil).Once()
	obj, err := s.Put(context.Background(), "hero-1.webp", []byte{1, 2, 3}, "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/uploads/hero-1.webp", obj.URL)

	api.On("UploadFile", "uploads", "bad.png", mock.Anything, "image/png").Return(errors.New("403")).Once()
	_, err = s.Put(context.Background(), "bad.png", []byte{9}, "image/png")
	assert.Error(t, err)

	api.AssertExpectations(t)
}

func TestNewSupabase_RequiresCredentials(t *testing.T) {
	_, err := NewSupabase("", "", "uploads")
	assert.Error(t, err)

	s, err := NewSupabase("https://abc.supabase.co/", "key", "uploads")
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/uploads/x.png", s.PublicURL("x.png"))
}
