package handlers

import (
	"StateDeck/internal/apperr"
	"StateDeck/internal/serialize"
	"StateDeck/internal/service"
	"StateDeck/internal/share"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var viewTemplate = template.Must(template.New("view").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>{{.Element.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:960px;color:#18181b}
img{max-width:100%;border:1px solid #e4e4e7;border-radius:8px}
h2{font-size:.8rem;letter-spacing:.08em;color:#52525b;margin-top:1.5rem}
.state{border-left:3px solid #d4d4d8;padding:.25rem .75rem;margin:.5rem 0}
.meta{color:#71717a;font-size:.85rem}
</style>
</head>
<body>
<header>
{{with .Project}}<div class="meta">{{.Name}}</div>{{end}}
<h1>{{.Element.Title}}</h1>
<a href="{{.Element.FigmaURL}}" rel="noopener noreferrer" target="_blank">Figma</a>
</header>
<p><img src="{{.Element.ImagePath}}" alt="{{.Element.ImageName}}"></p>
{{range .Groups}}
<section>
<h2>{{.Label}}</h2>
{{range .States}}<div class="state">
{{if .Title}}<strong>{{.Title}}</strong>{{end}}
<div>{{.Message}}</div>
{{if .Condition}}<div class="meta">{{.Condition}}</div>{{end}}
{{if .Severity}}<div class="meta">{{.Severity}}</div>{{end}}
</div>
{{end}}</section>
{{else}}<p class="meta">No states.</p>
{{end}}
</body>
</html>
`))

type viewData struct {
	Lang    serialize.Lang
	Element serialize.Element
	Project *serialize.Project
	Groups  []serialize.Group
}

// ShareHandler — страница просмотра по подписанной ссылке, без правок.
type ShareHandler struct {
	Elements *service.ElementService
	Projects *service.ProjectService
	Signer   *share.Signer
	Logger   *zap.SugaredLogger
}

func NewShareHandler(elements *service.ElementService, projects *service.ProjectService, signer *share.Signer, logger *zap.SugaredLogger) *ShareHandler {
	return &ShareHandler{Elements: elements, Projects: projects, Signer: signer, Logger: logger}
}

func (h *ShareHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := h.Signer.Verify(chi.URLParam(r, "token"))
	if err != nil {
		h.Logger.Warnw("ShareView: rejected token", "error", err)
		writeError(w, http.StatusNotFound, codeInvalidShare, "Share link is invalid or expired.", nil)
		return
	}

	e, states, err := h.Elements.Bundle(r.Context(), id)
	if err != nil {
		writeAppError(w, h.Logger, "ShareView", err)
		return
	}
	lang := serialize.ParseLang(r.URL.Query().Get("lang"))
	data := viewData{
		Lang:    lang,
		Element: serialize.FromElement(e),
		Groups:  serialize.Groups(serialize.States(states), lang),
	}
	if e.ProjectID != nil {
		p, err := h.Projects.Get(r.Context(), *e.ProjectID)
		switch {
		case err == nil:
			dto := serialize.FromProject(p)
			data.Project = &dto
		case !apperr.IsNotFound(err):
			writeAppError(w, h.Logger, "ShareView", err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Robots-Tag", "noindex")
	if err := viewTemplate.Execute(w, data); err != nil {
		h.Logger.Errorw("ShareView: render failed", "id", id, "error", err)
	}
}
