package handlers_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElements_CreateAndServeImage(t *testing.T) {
	s := newTestServer(t)

	e := s.createElement(t, map[string]string{"title": "  "})
	assert.Equal(t, "Untitled element", e["title"])
	assert.Equal(t, "AbCdEFg12345", e["figmaFileKey"])
	assert.Equal(t, "12:34", e["figmaNodeId"])
	assert.Equal(t, "Login Screen.png", e["imageName"])
	assert.Equal(t, "image/png", e["imageType"])
	assert.EqualValues(t, 9, e["imageSize"])
	assert.Nil(t, e["projectId"])

	imagePath := e["imagePath"].(string)
	assert.Regexp(t, `^http://example\.test/uploads/login-screen-\d+\.png$`, imagePath)

	rr := s.do(t, http.MethodGet, pathOf(imagePath), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rr.Body.String())

	rr = s.do(t, http.MethodGet, "/uploads/nothing.png", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestElements_CreateRejects(t *testing.T) {
	s := newTestServer(t)
	png := &formFile{name: "a.png", contentType: "image/png", data: []byte("x")}

	cases := []struct {
		name   string
		fields map[string]string
		file   *formFile
		status int
		code   string
	}{
		{"missing url", map[string]string{}, png, http.StatusBadRequest, "validation_failed"},
		{"invalid url", map[string]string{"figmaUrl": "https://example.com/file/123"}, png, http.StatusBadRequest, "validation_failed"},
		{"missing image", map[string]string{"figmaUrl": figmaURL}, nil, http.StatusBadRequest, "validation_failed"},
		{"unknown project", map[string]string{"figmaUrl": figmaURL, "projectId": "nope"}, png, http.StatusBadRequest, "validation_failed"},
		{"unsupported type", map[string]string{"figmaUrl": figmaURL}, &formFile{name: "a.pdf", contentType: "application/pdf", data: []byte("x")}, http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"too large", map[string]string{"figmaUrl": figmaURL}, &formFile{name: "big.png", contentType: "image/png", data: bytes.Repeat([]byte("a"), 1<<20+1)}, http.StatusRequestEntityTooLarge, "payload_too_large"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := s.multipart(t, "/api/elements", c.fields, c.file)
			require.Equal(t, c.status, rr.Code, rr.Body.String())
			assert.Equal(t, c.code, decodeMap(t, rr)["code"])
		})
	}

	rr := s.do(t, http.MethodGet, "/api/elements", nil)
	assert.Empty(t, decodeList(t, rr))
}

func TestElements_Update(t *testing.T) {
	s := newTestServer(t)
	e := s.createElement(t, map[string]string{"title": "Login"})
	path := "/api/elements/" + e["id"].(string)

	rr := s.do(t, http.MethodPatch, path, map[string]any{"figmaUrl": " https://figma.com/proto/Zz9/Flow "})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	upd := decodeMap(t, rr)
	assert.Equal(t, "https://figma.com/proto/Zz9/Flow", upd["figmaUrl"])
	assert.Equal(t, "Zz9", upd["figmaFileKey"])
	assert.Nil(t, upd["figmaNodeId"])
	assert.Equal(t, "Login", upd["title"])

	rr = s.do(t, http.MethodPatch, path, map[string]any{"title": "   "})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeMap(t, rr)["details"], "title")

	rr = s.do(t, http.MethodPatch, path, map[string]any{"figmaUrl": "https://notfigma.com/file/x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPatch, "/api/elements/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestElements_ReplaceImage(t *testing.T) {
	s := newTestServer(t)
	e := s.createElement(t, map[string]string{})
	id := e["id"].(string)

	rr := s.multipart(t, "/api/elements/"+id+"/image", nil, &formFile{name: "next.svg", contentType: "image/svg+xml", data: []byte("<svg/>")})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	upd := decodeMap(t, rr)
	assert.Equal(t, "next.svg", upd["imageName"])
	assert.Equal(t, "image/svg+xml", upd["imageType"])
	assert.Equal(t, e["figmaUrl"], upd["figmaUrl"])

	rr = s.multipart(t, "/api/elements/"+id+"/image", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.multipart(t, "/api/elements/missing/image", nil, &formFile{name: "a.png", contentType: "image/png", data: []byte("x")})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestElements_DeleteCascades(t *testing.T) {
	s := newTestServer(t)
	e := s.createElement(t, map[string]string{})
	id := e["id"].(string)

	rr := s.do(t, http.MethodPost, "/api/elements/"+id+"/states", map[string]any{"type": "error", "title": "t", "message": "m"})
	require.Equal(t, http.StatusCreated, rr.Code)
	stateID := decodeMap(t, rr)["id"].(string)

	rr = s.do(t, http.MethodDelete, "/api/elements/"+id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeMap(t, rr)["ok"])

	rr = s.do(t, http.MethodPatch, "/api/states/"+stateID, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = s.do(t, http.MethodGet, "/api/elements/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMalformedIDs(t *testing.T) {
	s := newTestServer(t)
	e := s.createElement(t, map[string]string{})
	id := e["id"].(string)

	for _, c := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/projects/not-a-uuid", nil},
		{http.MethodDelete, "/api/projects/not-a-uuid", nil},
		{http.MethodGet, "/api/elements/not-a-uuid", nil},
		{http.MethodPatch, "/api/elements/not-a-uuid", map[string]any{"title": "x"}},
		{http.MethodDelete, "/api/elements/not-a-uuid", nil},
		{http.MethodGet, "/api/elements/not-a-uuid/states", nil},
		{http.MethodPost, "/api/elements/not-a-uuid/states", map[string]any{"type": "info", "title": "t", "message": "m"}},
		{http.MethodGet, "/api/elements/not-a-uuid/export", nil},
		{http.MethodPatch, "/api/states/not-a-uuid", map[string]any{"title": "x"}},
		{http.MethodDelete, "/api/states/not-a-uuid", nil},
	} {
		rr := s.do(t, c.method, c.path, c.body)
		assert.Equal(t, http.StatusNotFound, rr.Code, c.method+" "+c.path)
		assert.Equal(t, "not_found", decodeMap(t, rr)["code"], c.method+" "+c.path)
	}

	rr := s.do(t, http.MethodPatch, "/api/elements/"+id, map[string]any{"projectId": "not-a-uuid"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeMap(t, rr)["details"], "projectId")

	rr = s.do(t, http.MethodGet, "/api/elements?projectId=not-a-uuid", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeList(t, rr))
}
