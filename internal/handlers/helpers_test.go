package handlers_test

import (
	"StateDeck/internal/config"
	"StateDeck/internal/handlers"
	"StateDeck/internal/repo"
	"StateDeck/internal/service"
	"StateDeck/internal/share"
	"StateDeck/internal/storage"
	"StateDeck/internal/upload"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
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

type testServer struct {
	router http.Handler
	cfg    *config.Config
	signer *share.Signer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	cfg := &config.Config{MaxUploadSizeMB: 1, PublicURL: "http://example.test"}
	log := zap.NewNop().Sugar()
	signer := share.NewSigner("test-secret", time.Hour)

	projects := repo.NewProjectRepository(db)
	elements := repo.NewElementRepository(db)
	states := repo.NewStateRepository(db)
	blobs := storage.NewDatabase(repo.NewBlobRepository(db), cfg.PublicURL, log)
	uploads := upload.NewStore(blobs, cfg)

	h := handlers.NewHandler(
		service.NewProjectService(projects, log),
		service.NewElementService(elements, projects, states, uploads, log),
		service.NewStateService(states, elements, log),
		blobs,
		signer,
		log,
		cfg,
	)
	return &testServer{router: h.Router, cfg: cfg, signer: signer}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

type formFile struct {
	name, contentType string
	data              []byte
}

func (s *testServer) multipart(t *testing.T, path string, fields map[string]string, file *formFile) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		hdr.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) createElement(t *testing.T, fields map[string]string) map[string]any {
	t.Helper()
	if _, ok := fields["figmaUrl"]; !ok {
		fields["figmaUrl"] = figmaURL
	}
	rr := s.multipart(t, "/api/elements", fields, &formFile{name: "Login Screen.png", contentType: "image/png", data: []byte("png-bytes")})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeMap(t, rr)
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m), rr.Body.String())
	return m
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &l), rr.Body.String())
	return l
}

func pathOf(rawURL string) string {
	return strings.TrimPrefix(rawURL, "http://example.test")
}
