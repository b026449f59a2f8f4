package handlers

import (
	"StateDeck/internal/apperr"
	"StateDeck/internal/config"
	"StateDeck/internal/serialize"
	"StateDeck/internal/service"
	"StateDeck/internal/share"
	"StateDeck/internal/upload"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipart держит в памяти до 10 МБ, остальное — во временных файлах
const multipartMemory = 10 << 20

// ElementHandler — элементы, их изображения, экспорт и ссылки для просмотра.
type ElementHandler struct {
	Elements *service.ElementService
	Signer   *share.Signer
	Logger   *zap.SugaredLogger
	Config   *config.Config
}

func NewElementHandler(elements *service.ElementService, signer *share.Signer, logger *zap.SugaredLogger, cfg *config.Config) *ElementHandler {
	return &ElementHandler{Elements: elements, Signer: signer, Logger: logger, Config: cfg}
}

// List — все элементы или элементы проекта (?projectId=).
func (h *ElementHandler) List(w http.ResponseWriter, r *http.Request) {
	var projectID *string
	if v := strings.TrimSpace(r.URL.Query().Get("projectId")); v != "" {
		projectID = &v
	}
	list, err := h.Elements.List(r.Context(), projectID)
	if err != nil {
		writeAppError(w, h.Logger, "ListElements", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.Elements(list))
}

// Create принимает multipart: figmaUrl, title, projectId, image.
func (h *ElementHandler) Create(w http.ResponseWriter, r *http.Request) {
	image, err := h.parseMultipart(w, r)
	if err != nil {
		h.Logger.Warnw("CreateElement: invalid multipart form", "error", err)
		writeAppError(w, h.Logger, "CreateElement", err)
		return
	}

	e, err := h.Elements.Create(r.Context(), service.ElementInput{
		Title:     r.FormValue("title"),
		FigmaURL:  r.FormValue("figmaUrl"),
		ProjectID: r.FormValue("projectId"),
		Image:     image,
	})
	if err != nil {
		writeAppError(w, h.Logger, "CreateElement", err)
		return
	}
	writeJSON(w, http.StatusCreated, serialize.FromElement(e))
}

func (h *ElementHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.Elements.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.Logger, "GetElement", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.FromElement(e))
}

func (h *ElementHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateElementRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("UpdateElement: invalid request", "error", err)
		writeAppError(w, h.Logger, "UpdateElement", err)
		return
	}
	e, err := h.Elements.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		writeAppError(w, h.Logger, "UpdateElement", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.FromElement(e))
}

func (h *ElementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Elements.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, h.Logger, "DeleteElement", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ReplaceImage — multipart с единственным полем image.
func (h *ElementHandler) ReplaceImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.parseMultipart(w, r)
	if err != nil {
		h.Logger.Warnw("ReplaceImage: invalid multipart form", "error", err)
		writeAppError(w, h.Logger, "ReplaceImage", err)
		return
	}
	e, err := h.Elements.ReplaceImage(r.Context(), chi.URLParam(r, "id"), image)
	if err != nil {
		writeAppError(w, h.Logger, "ReplaceImage", err)
		return
	}
	writeJSON(w, http.StatusOK, serialize.FromElement(e))
}

// Export отдаёт состояния элемента текстом или JSON-документом.
func (h *ElementHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := serialize.Format(q.Get("format"))
	if format == "" {
		format = serialize.FormatText
	}
	if format != serialize.FormatText && format != serialize.FormatJSON {
		writeAppError(w, h.Logger, "ExportElement", apperr.InvalidField("format", "Format must be one of: text, json."))
		return
	}
	lang := serialize.ParseLang(q.Get("lang"))

	e, states, err := h.Elements.Bundle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.Logger, "ExportElement", err)
		return
	}
	dtos := serialize.States(states)

	if format == serialize.FormatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, serialize.StatesText(dtos, lang))
		return
	}
	doc, err := serialize.StatesJSON(serialize.FromElement(e), dtos)
	if err != nil {
		writeAppError(w, h.Logger, "ExportElement", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

type shareResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// Share выдаёт подписанную ссылку на просмотр элемента.
func (h *ElementHandler) Share(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Elements.Get(r.Context(), id); err != nil {
		writeAppError(w, h.Logger, "ShareElement", err)
		return
	}
	token, exp, err := h.Signer.Token(id)
	if err != nil {
		writeAppError(w, h.Logger, "ShareElement", err)
		return
	}
	writeJSON(w, http.StatusCreated, shareResponse{
		Token:     token,
		URL:       h.Config.PublicURL + "/share/" + token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
	})
}

// parseMultipart ограничивает тело запроса и читает поле image.
// Отсутствующий файл — nil без ошибки, решение принимает сервис.
func (h *ElementHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (*upload.File, error) {
	limit := h.Config.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &apperr.UploadError{
				Message:  fmt.Sprintf("File exceeds %dMB limit.", limit/(1024*1024)),
				TooLarge: true,
			}
		}
		return nil, apperr.Invalid("Invalid multipart form.")
	}

	f, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.InvalidField("image", "Invalid image upload.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.InvalidField("image", "Invalid image upload.")
	}
	return &upload.File{
		Data: data,
		Name: header.Filename,
		Type: header.Header.Get("Content-Type"),
		Size: header.Size,
	}, nil
}
