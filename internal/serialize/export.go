package serialize

import (
	"StateDeck/internal/model"
	"encoding/json"
	"sort"
	"strings"
)

// CopyMode — что копировать из одного состояния.
type CopyMode string

const (
	CopyMessage      CopyMode = "message"
	CopyTitleMessage CopyMode = "title-message"
)

// Format — формат экспорта элемента.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// StateCopyText возвращает текст одного состояния для буфера обмена.
func StateCopyText(title, message string, mode CopyMode) string {
	if mode == CopyTitleMessage && strings.TrimSpace(title) != "" {
		return title + ": " + message
	}
	return message
}

// Group — состояния одного вида, упорядоченные по SortOrder.
type Group struct {
	Type   model.StateType
	Label  string
	States []State
}

// Groups группирует состояния по виду в порядке первого появления.
func Groups(states []State, lang Lang) []Group {
	var groups []Group
	index := map[model.StateType]int{}
	for _, s := range states {
		t := s.Type
		if t == "" {
			t = model.StateOther
		}
		i, seen := index[t]
		if !seen {
			i = len(groups)
			index[t] = i
			groups = append(groups, Group{Type: t, Label: TypeLabel(lang, t)})
		}
		groups[i].States = append(groups[i].States, s)
	}
	for i := range groups {
		groups[i].States = sortedByOrder(groups[i].States)
	}
	return groups
}

// StatesText — текстовый экспорт: заголовок группы в верхнем регистре,
// затем строки "- заголовок: сообщение", группы разделены пустой строкой.
func StatesText(states []State, lang Lang) string {
	var b strings.Builder
	for _, g := range Groups(states, lang) {
		b.WriteString(strings.ToUpper(g.Label))
		b.WriteByte('\n')
		for _, s := range g.States {
			b.WriteString("- ")
			if title := strings.TrimSpace(s.Title); title != "" {
				b.WriteString(title)
				b.WriteString(": ")
			}
			b.WriteString(s.Message)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

type statesDocument struct {
	Element Element `json:"element"`
	States  []State `json:"states"`
}

// StatesJSON — документ {"element", "states"} с отступом в два пробела.
func StatesJSON(element Element, states []State) (string, error) {
	doc := statesDocument{Element: element, States: sortedByOrder(states)}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseStatesJSON читает документ, записанный StatesJSON.
func ParseStatesJSON(data []byte) (Element, []State, error) {
	var doc statesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Element{}, nil, err
	}
	return doc.Element, doc.States, nil
}

// sortedByOrder — устойчивая сортировка копии по SortOrder.
func sortedByOrder(states []State) []State {
	out := make([]State, len(states))
	copy(out, states)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}
