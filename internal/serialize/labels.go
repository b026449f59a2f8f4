package serialize

import "StateDeck/internal/model"

// Lang — язык подписей в экспорте.
type Lang string

const (
	LangEN Lang = "en"
	LangRU Lang = "ru"
)

// ParseLang возвращает LangEN для всего, кроме известных языков.
func ParseLang(s string) Lang {
	if Lang(s) == LangRU {
		return LangRU
	}
	return LangEN
}

var typeLabels = map[Lang]map[model.StateType]string{
	LangEN: {
		model.StateError:         "Error",
		model.StateWarning:       "Warning",
		model.StateSuccess:       "Success",
		model.StateInfo:          "Info",
		model.StateHelper:        "Helper",
		model.StateEmpty:         "Empty",
		model.StateAccessibility: "Accessibility",
		model.StateOther:         "Other",
	},
	LangRU: {
		model.StateError:         "Ошибка",
		model.StateWarning:       "Предупреждение",
		model.StateSuccess:       "Успех",
		model.StateInfo:          "Информация",
		model.StateHelper:        "Подсказка",
		model.StateEmpty:         "Пустое состояние",
		model.StateAccessibility: "Доступность",
		model.StateOther:         "Другое",
	},
}

// TypeLabel — подпись вида состояния. Неизвестный вид возвращается как есть.
func TypeLabel(lang Lang, t model.StateType) string {
	if l, ok := typeLabels[lang][t]; ok {
		return l
	}
	if l, ok := typeLabels[LangEN][t]; ok {
		return l
	}
	return string(t)
}
