// Package client — типизированный HTTP-клиент API StateDeck.
package client

import (
	"StateDeck/internal/model"
	"StateDeck/internal/patch"
	"StateDeck/internal/serialize"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// APIError — ответ сервера с кодом не 2xx.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Client ходит в API по базовому адресу вида http://host:port.
type Client struct {
	baseURL string
	http    *http.Client
}

// New создаёт клиента. httpClient == nil — клиент с таймаутом 30 секунд.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// StateInput — тело создания состояния.
type StateInput struct {
	Type      model.StateType `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Condition *string         `json:"condition,omitempty"`
	Severity  *string         `json:"severity,omitempty"`
	Locale    string          `json:"locale,omitempty"`
	SortOrder *int            `json:"sortOrder,omitempty"`
}

// StatePatch — частичное обновление состояния; nil-поля не отправляются.
type StatePatch struct {
	Type      *model.StateType `json:"type,omitempty"`
	Title     *string          `json:"title,omitempty"`
	Message   *string          `json:"message,omitempty"`
	Condition *string          `json:"condition,omitempty"`
	Severity  *string          `json:"severity,omitempty"`
	Locale    *string          `json:"locale,omitempty"`
	SortOrder *int             `json:"sortOrder,omitempty"`
}

// Merge накладывает q поверх p: заданные в q поля побеждают.
func (p StatePatch) Merge(q StatePatch) StatePatch {
	if q.Type != nil {
		p.Type = q.Type
	}
	if q.Title != nil {
		p.Title = q.Title
	}
	if q.Message != nil {
		p.Message = q.Message
	}
	if q.Condition != nil {
		p.Condition = q.Condition
	}
	if q.Severity != nil {
		p.Severity = q.Severity
	}
	if q.Locale != nil {
		p.Locale = q.Locale
	}
	if q.SortOrder != nil {
		p.SortOrder = q.SortOrder
	}
	return p
}

// ElementPatch — частичное обновление элемента.
type ElementPatch struct {
	Title     *string             `json:"title,omitempty"`
	FigmaURL  *string             `json:"figmaUrl,omitempty"`
	ProjectID patch.Field[string] `json:"projectId,omitzero"`
}

// Image — файл для загрузки.
type Image struct {
	Name string
	Type string
	Data io.Reader
}

// ElementForm — поля создания элемента.
type ElementForm struct {
	Title     string
	FigmaURL  string
	ProjectID string
	Image     Image
}

// ShareLink — подписанная ссылка на просмотр.
type ShareLink struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

func (c *Client) ListProjects(ctx context.Context) ([]serialize.Project, error) {
	var out []serialize.Project
	return out, c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &out)
}

func (c *Client) CreateProject(ctx context.Context, name string, description *string) (serialize.Project, error) {
	var out serialize.Project
	body := map[string]any{"name": name}
	if description != nil {
		body["description"] = *description
	}
	return out, c.doJSON(ctx, http.MethodPost, "/api/projects", body, &out)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

// ListElements — все элементы или элементы проекта, если projectID не пуст.
func (c *Client) ListElements(ctx context.Context, projectID string) ([]serialize.Element, error) {
	path := "/api/elements"
	if projectID != "" {
		path += "?projectId=" + url.QueryEscape(projectID)
	}
	var out []serialize.Element
	return out, c.doJSON(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) GetElement(ctx context.Context, id string) (serialize.Element, error) {
	var out serialize.Element
	return out, c.doJSON(ctx, http.MethodGet, "/api/elements/"+url.PathEscape(id), nil, &out)
}

func (c *Client) CreateElement(ctx context.Context, f ElementForm) (serialize.Element, error) {
	var out serialize.Element
	fields := map[string]string{"title": f.Title, "figmaUrl": f.FigmaURL, "projectId": f.ProjectID}
	return out, c.doMultipart(ctx, "/api/elements", fields, &f.Image, &out)
}

func (c *Client) UpdateElement(ctx context.Context, id string, p ElementPatch) (serialize.Element, error) {
	var out serialize.Element
	return out, c.doJSON(ctx, http.MethodPatch, "/api/elements/"+url.PathEscape(id), p, &out)
}

func (c *Client) ReplaceImage(ctx context.Context, id string, img Image) (serialize.Element, error) {
	var out serialize.Element
	return out, c.doMultipart(ctx, "/api/elements/"+url.PathEscape(id)+"/image", nil, &img, &out)
}

func (c *Client) DeleteElement(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/elements/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListStates(ctx context.Context, elementID string) ([]serialize.State, error) {
	var out []serialize.State
	return out, c.doJSON(ctx, http.MethodGet, "/api/elements/"+url.PathEscape(elementID)+"/states", nil, &out)
}

func (c *Client) CreateState(ctx context.Context, elementID string, in StateInput) (serialize.State, error) {
	var out serialize.State
	return out, c.doJSON(ctx, http.MethodPost, "/api/elements/"+url.PathEscape(elementID)+"/states", in, &out)
}

func (c *Client) UpdateState(ctx context.Context, id string, p StatePatch) (serialize.State, error) {
	var out serialize.State
	return out, c.doJSON(ctx, http.MethodPatch, "/api/states/"+url.PathEscape(id), p, &out)
}

func (c *Client) DeleteState(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/states/"+url.PathEscape(id), nil, nil)
}

// Export возвращает экспорт элемента как есть: текст или JSON-документ.
func (c *Client) Export(ctx context.Context, id string, format serialize.Format, lang serialize.Lang) (string, error) {
	q := url.Values{}
	q.Set("format", string(format))
	q.Set("lang", string(lang))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/elements/"+url.PathEscape(id)+"/export?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	body, err := c.send(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) Share(ctx context.Context, id string) (ShareLink, error) {
	var out ShareLink
	return out, c.doJSON(ctx, http.MethodPost, "/api/elements/"+url.PathEscape(id)+"/share", nil, &out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, img *Image, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if img != nil && img.Data != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Name))
		hdr.Set("Content-Type", img.Type)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, img.Data); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp, out)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Code    string          `json:"code"`
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Error
		// details бывает не только картой полей
		_ = json.Unmarshal(payload.Details, &apiErr.Details)
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return nil, apiErr
}
