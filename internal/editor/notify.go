package editor

// Level — важность уведомления.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice — короткое уведомление для пользователя. Не блокирует работу.
type Notice struct {
	Level   Level
	Op      string // create, duplicate, delete, autosave, reorder
	Message string
	StateID string
	Err     error
}

// Notifier показывает уведомления.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc позволяет использовать функцию как Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
