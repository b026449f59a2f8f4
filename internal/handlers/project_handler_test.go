package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjects_CreateListGet(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "Core UI Library", "description": "Shared UI patterns"})
	require.Equal(t, http.StatusCreated, rr.Code)
	p := decodeMap(t, rr)
	assert.Equal(t, "Core UI Library", p["name"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, p["createdAt"])

	rr = s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "Second"})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Nil(t, decodeMap(t, rr)["description"])

	rr = s.do(t, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeList(t, rr)
	require.Len(t, list, 2)
	assert.Equal(t, "Core UI Library", list[0]["name"])

	rr = s.do(t, http.MethodGet, "/api/projects/"+p["id"].(string), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProjects_Validation(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "   "})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeMap(t, rr)
	assert.Equal(t, "validation_failed", body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, "details must be field-keyed")
	assert.Contains(t, details, "name")

	rr = s.do(t, http.MethodPost, "/api/projects", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", decodeMap(t, rr)["code"])
}

func TestProjects_DeleteDetachesElements(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": "P"})
	require.Equal(t, http.StatusCreated, rr.Code)
	projectID := decodeMap(t, rr)["id"].(string)

	e := s.createElement(t, map[string]string{"projectId": projectID})
	assert.Equal(t, projectID, e["projectId"])

	rr = s.do(t, http.MethodGet, "/api/elements?projectId="+projectID, nil)
	require.Len(t, decodeList(t, rr), 1)

	rr = s.do(t, http.MethodDelete, "/api/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/elements/"+e["id"].(string), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decodeMap(t, rr)["projectId"])

	rr = s.do(t, http.MethodDelete, "/api/projects/"+projectID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProjects_LongNameAndDescriptionAccepted(t *testing.T) {
	s := newTestServer(t)

	name := strings.Repeat("n", 500)
	desc := strings.Repeat("d", 5000)
	rr := s.do(t, http.MethodPost, "/api/projects", map[string]any{"name": name, "description": desc})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	p := decodeMap(t, rr)
	assert.Equal(t, name, p["name"])
	assert.Equal(t, desc, p["description"])
}
