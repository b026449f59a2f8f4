// Package figma разбирает ссылки на файлы и узлы Figma.
package figma

import (
	"net/url"
	"regexp"
	"strings"
)

// Link — результат разбора ссылки. FileKey и NodeID пусты, если не найдены.
type Link struct {
	IsValid bool
	FileKey string
	NodeID  string
}

var (
	hostRe          = regexp.MustCompile(`(?i)(^|\.)figma\.com$`)
	filePathRe      = regexp.MustCompile(`/(?:file|design|proto)/([a-zA-Z0-9]+)`)
	communityPathRe = regexp.MustCompile(`/community/file/([a-zA-Z0-9]+)`)
	dashNodeRe      = regexp.MustCompile(`^\d+-\d+$`)

	// http(s) с любым числом / или \ после двоеточия, как принимают браузеры
	specialSchemeRe = regexp.MustCompile(`^(?i)(https?):[\\/]*`)
	strayPercentRe  = regexp.MustCompile(`%([^0-9A-Fa-f]|[0-9A-Fa-f][^0-9A-Fa-f]|[0-9A-Fa-f]?$)`)
)

// Parse разбирает ссылку. Ошибки не возвращаются: всё, что не является
// URL на хосте figma.com или его поддомене, даёт IsValid=false.
func Parse(raw string) Link {
	u, err := url.Parse(loosen(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Link{}
	}
	if !hostRe.MatchString(u.Hostname()) {
		return Link{}
	}

	link := Link{IsValid: true}

	path := u.EscapedPath()
	if m := filePathRe.FindStringSubmatch(path); m != nil {
		link.FileKey = m[1]
	} else if m := communityPathRe.FindStringSubmatch(path); m != nil {
		link.FileKey = m[1]
	}

	q := u.Query()
	node := q.Get("node_id")
	if q.Has("node-id") {
		node = q.Get("node-id")
	}
	if node != "" {
		link.NodeID = normalizeNodeID(node)
	}
	return link
}

// loosen приводит ссылку к виду, который примет url.Parse, повторяя
// поблажки браузерного парсера: табы и переводы строк выбрасываются,
// "https:/host" и "https:\\host" читаются как "https://host", обратный слэш
// в пути равен прямому, одиночный % экранируется.
func loosen(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(s)

	if m := specialSchemeRe.FindStringSubmatch(s); m != nil {
		rest := s[len(m[0]):]
		end := strings.IndexAny(rest, "?#")
		if end < 0 {
			end = len(rest)
		}
		s = m[1] + "://" + strings.ReplaceAll(rest[:end], "\\", "/") + rest[end:]
	}

	// ReplaceAll не перекрывает совпадения: "%%zz" требует двух проходов
	for strayPercentRe.MatchString(s) {
		s = strayPercentRe.ReplaceAllString(s, "%25$1")
	}
	return s
}

// normalizeNodeID переводит форму "120-880" из адресной строки в "120:880".
func normalizeNodeID(id string) string {
	if dashNodeRe.MatchString(id) {
		return strings.Replace(id, "-", ":", 1)
	}
	return id
}

// FileKeyPtr и NodeIDPtr возвращают nil для пустых значений,
// что удобно для nullable-колонок.
func (l Link) FileKeyPtr() *string { return ptrOrNil(l.FileKey) }

func (l Link) NodeIDPtr() *string { return ptrOrNil(l.NodeID) }

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
