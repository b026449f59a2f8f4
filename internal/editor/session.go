// Package editor — клиентская сессия редактирования состояний элемента:
// фильтры и поиск, оптимистичные правки с отложенным автосохранением,
// перестановка с перенумерацией, создание, копирование и удаление.
package editor

import (
	"StateDeck/internal/client"
	"StateDeck/internal/model"
	"StateDeck/internal/serialize"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultFocusFor = 800 * time.Millisecond

	DefaultStateTitle   = "New state"
	DefaultStateMessage = "Describe what the user sees."

	copySuffix = " (copy)"
)

var (
	// ErrReorderDisabled — перестановка при активном фильтре или поиске.
	ErrReorderDisabled = errors.New("reorder is disabled while filters are active")
	// ErrUnknownState — id нет в списке сессии.
	ErrUnknownState = errors.New("state is not in this session")
	// ErrClosed — сессия закрыта.
	ErrClosed = errors.New("editor session is closed")
)

// API — сетевая граница сессии.
type API interface {
	CreateState(ctx context.Context, elementID string, in client.StateInput) (serialize.State, error)
	UpdateState(ctx context.Context, id string, p client.StatePatch) (serialize.State, error)
	DeleteState(ctx context.Context, id string) error
}

// Direction — направление перестановки.
type Direction int

const (
	Up Direction = iota
	Down
)

// Options — необязательные зависимости сессии.
type Options struct {
	Scheduler      Scheduler
	Notifier       Notifier
	Logger         *zap.SugaredLogger
	Debounce       time.Duration
	FocusFor       time.Duration
	DefaultTitle   string
	DefaultMessage string
}

type pendingSave struct {
	patch client.StatePatch
	timer Timer
	gen   uint64
}

// Session хранит упорядоченный список состояний одного элемента.
// Методы безопасны для вызова из разных горутин: таймеры срабатывают
// в своих горутинах.
type Session struct {
	api       API
	elementID string
	opts      Options

	mu      sync.Mutex
	states  []serialize.State
	filters map[model.StateType]bool
	query   string
	pending map[string]*pendingSave
	gen     uint64
	focused string
	focusT  Timer
	closed  bool

	inflight int
	idle     chan struct{} // закрывается, когда inflight падает до нуля
	// tails — последний отправленный запрос по каждому id; следующий ждёт его.
	tails map[string]chan struct{}
}

// New открывает сессию над списком с сервера; список упорядочивается по sortOrder.
func New(api API, elementID string, states []serialize.State, opts Options) *Session {
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.FocusFor <= 0 {
		opts.FocusFor = DefaultFocusFor
	}
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = DefaultStateTitle
	}
	if opts.DefaultMessage == "" {
		opts.DefaultMessage = DefaultStateMessage
	}

	list := make([]serialize.State, len(states))
	copy(list, states)
	sort.SliceStable(list, func(i, j int) bool { return list[i].SortOrder < list[j].SortOrder })

	return &Session{
		api:       api,
		elementID: elementID,
		opts:      opts,
		states:    list,
		filters:   map[model.StateType]bool{},
		pending:   map[string]*pendingSave{},
		tails:     map[string]chan struct{}{},
	}
}

// States — копия полного списка в текущем порядке.
func (s *Session) States() []serialize.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]serialize.State, len(s.states))
	copy(out, s.states)
	return out
}

// State возвращает состояние по id.
func (s *Session) State(id string) (serialize.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.states[i], true
	}
	return serialize.State{}, false
}

// SetFilters заменяет набор видов. Пустой набор — без ограничения.
func (s *Session) SetFilters(types ...model.StateType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = make(map[model.StateType]bool, len(types))
	for _, t := range types {
		s.filters[t] = true
	}
}

// ToggleFilter включает или выключает один вид.
func (s *Session) ToggleFilter(t model.StateType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filters[t] {
		delete(s.filters, t)
		return
	}
	s.filters[t] = true
}

// SetQuery задаёт строку поиска.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// ClearFilters сбрасывает виды и поиск.
func (s *Session) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = map[model.StateType]bool{}
	s.query = ""
}

// HasFilters — активен ли фильтр по виду или поиск.
func (s *Session) HasFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasFilters()
}

func (s *Session) hasFilters() bool {
	return len(s.filters) > 0 || strings.TrimSpace(s.query) != ""
}

// Visible — состояния, прошедшие фильтр по виду и поиск, в порядке списка.
func (s *Session) Visible() []serialize.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(s.query))
	out := make([]serialize.State, 0, len(s.states))
	for _, st := range s.states {
		if len(s.filters) > 0 && !s.filters[st.Type] {
			continue
		}
		if q != "" && !strings.Contains(haystack(st), q) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func haystack(st serialize.State) string {
	parts := []string{st.Title, st.Message, deref(st.Condition), deref(st.Severity), st.Locale}
	return strings.ToLower(strings.Join(parts, " "))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Focused — id недавно созданного состояния или "".
func (s *Session) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Pending — число состояний с ещё не отправленными правками.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Edit сразу применяет правку к локальной копии и откладывает сохранение.
// Новая правка того же состояния переносит таймер и дополняет накопленный patch.
func (s *Session) Edit(id string, p client.StatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	i := s.indexOf(id)
	if i < 0 {
		return ErrUnknownState
	}
	s.states[i] = applyPatch(s.states[i], p)
	s.schedule(id, p)
	return nil
}

func (s *Session) schedule(id string, p client.StatePatch) {
	ps, ok := s.pending[id]
	if ok {
		ps.timer.Stop()
		ps.patch = ps.patch.Merge(p)
	} else {
		ps = &pendingSave{patch: p}
		s.pending[id] = ps
	}
	s.gen++
	gen := s.gen
	ps.gen = gen
	ps.timer = s.opts.Scheduler.AfterFunc(s.opts.Debounce, func() { s.fire(id, gen) })
}

// fire отправляет накопленный patch, если таймер не был перенесён.
func (s *Session) fire(id string, gen uint64) {
	s.mu.Lock()
	ps, ok := s.pending[id]
	if !ok || ps.gen != gen || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.dispatch(context.Background(), id, ps.patch, "autosave")
	s.mu.Unlock()
}

// dispatch отправляет patch в фоне. Запросы по одному id уходят строго
// по очереди, в порядке вызова dispatch. Вызывается под s.mu.
func (s *Session) dispatch(ctx context.Context, id string, p client.StatePatch, op string) {
	s.begin(1)
	prev := s.tails[id]
	done := make(chan struct{})
	s.tails[id] = done

	go func() {
		if prev != nil {
			<-prev
		}
		s.save(ctx, id, p, op)
		close(done)

		s.mu.Lock()
		if s.tails[id] == done {
			delete(s.tails, id)
		}
		s.mu.Unlock()
		s.end()
	}()
}

// begin учитывает n запросов в полёте. Вызывается под s.mu.
func (s *Session) begin(n int) {
	if n == 0 {
		return
	}
	if s.inflight == 0 {
		s.idle = make(chan struct{})
	}
	s.inflight += n
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.inflight == 0 {
		close(s.idle)
	}
}

func (s *Session) save(ctx context.Context, id string, p client.StatePatch, op string) {
	if _, err := s.api.UpdateState(ctx, id, p); err != nil {
		s.opts.Logger.Warnw("state save failed", "id", id, "op", op, "error", err)
		s.opts.Notifier.Notify(Notice{Level: LevelError, Op: op, Message: "Autosave failed.", StateID: id, Err: err})
		return
	}
	s.opts.Logger.Debugw("state saved", "id", id, "op", op)
}

// Move меняет состояние местами с соседом в полном списке, перенумеровывает
// список с 1 и сразу сохраняет sortOrder двух переставленных состояний.
// На краю списка ничего не делает.
func (s *Session) Move(id string, dir Direction) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.hasFilters() {
		s.mu.Unlock()
		return ErrReorderDisabled
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrUnknownState
	}
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if j < 0 || j >= len(s.states) {
		s.mu.Unlock()
		return nil
	}

	s.states[i], s.states[j] = s.states[j], s.states[i]
	for k := range s.states {
		s.states[k].SortOrder = k + 1
	}
	for _, st := range []serialize.State{s.states[i], s.states[j]} {
		// порядок из отложенной правки устарел
		if ps, ok := s.pending[st.ID]; ok {
			ps.patch.SortOrder = nil
		}
		order := st.SortOrder
		s.dispatch(context.Background(), st.ID, client.StatePatch{SortOrder: &order}, "reorder")
	}
	s.mu.Unlock()
	return nil
}

// Create добавляет состояние по умолчанию в конец списка и ненадолго фокусирует его.
func (s *Session) Create(ctx context.Context) (serialize.State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return serialize.State{}, ErrClosed
	}
	order := len(s.states) + 1
	s.mu.Unlock()

	st, err := s.api.CreateState(ctx, s.elementID, client.StateInput{
		Type:      model.StateInfo,
		Title:     s.opts.DefaultTitle,
		Message:   s.opts.DefaultMessage,
		SortOrder: &order,
	})
	if err != nil {
		s.opts.Notifier.Notify(Notice{Level: LevelError, Op: "create", Message: "Could not add state.", Err: err})
		return serialize.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return st, nil
	}
	s.states = append(s.states, st)
	s.focus(st.ID)
	s.opts.Notifier.Notify(Notice{Level: LevelInfo, Op: "create", Message: "State added.", StateID: st.ID})
	return st, nil
}

func (s *Session) focus(id string) {
	if s.focusT != nil {
		s.focusT.Stop()
	}
	s.focused = id
	s.focusT = s.opts.Scheduler.AfterFunc(s.opts.FocusFor, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.focused == id {
			s.focused = ""
		}
	})
}

// Duplicate копирует содержимое состояния в новое в конце списка.
func (s *Session) Duplicate(ctx context.Context, id string) (serialize.State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return serialize.State{}, ErrClosed
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return serialize.State{}, ErrUnknownState
	}
	src := s.states[i]
	order := len(s.states) + 1
	s.mu.Unlock()

	st, err := s.api.CreateState(ctx, s.elementID, client.StateInput{
		Type:      src.Type,
		Title:     src.Title + copySuffix,
		Message:   src.Message,
		Condition: src.Condition,
		Severity:  src.Severity,
		Locale:    src.Locale,
		SortOrder: &order,
	})
	if err != nil {
		s.opts.Notifier.Notify(Notice{Level: LevelError, Op: "duplicate", Message: "Could not duplicate state.", StateID: id, Err: err})
		return serialize.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.states = append(s.states, st)
		s.opts.Notifier.Notify(Notice{Level: LevelInfo, Op: "duplicate", Message: "State duplicated.", StateID: st.ID})
	}
	return st, nil
}

// Delete удаляет состояние на сервере, затем из списка. Соседи не перенумеровываются.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return ErrUnknownState
	}
	s.mu.Unlock()

	if err := s.api.DeleteState(ctx, id); err != nil {
		s.opts.Notifier.Notify(Notice{Level: LevelError, Op: "delete", Message: "Could not delete state.", StateID: id, Err: err})
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ps, ok := s.pending[id]; ok {
		ps.timer.Stop()
		delete(s.pending, id)
	}
	if i := s.indexOf(id); i >= 0 && !s.closed {
		s.states = append(s.states[:i], s.states[i+1:]...)
		s.opts.Notifier.Notify(Notice{Level: LevelInfo, Op: "delete", Message: "State deleted.", StateID: id})
	}
	return nil
}

// Key — нажатие клавиши.
type Key struct {
	Name string // "Enter", "a", ...
	Ctrl bool
	Meta bool
}

// HandleKey обрабатывает сочетания клавиш сессии: Ctrl+Enter или Cmd+Enter
// создаёт состояние. Возвращает true, если нажатие обработано.
func (s *Session) HandleKey(ctx context.Context, k Key) (bool, error) {
	if k.Name != "Enter" || !(k.Ctrl || k.Meta) {
		return false, nil
	}
	_, err := s.Create(ctx)
	return true, err
}

// Flush сразу отправляет все отложенные правки и ждёт завершения всех запросов.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	for id, ps := range s.pending {
		ps.timer.Stop()
		s.dispatch(ctx, id, ps.patch, "autosave")
	}
	s.pending = map[string]*pendingSave{}
	idle := s.idle
	busy := s.inflight > 0
	s.mu.Unlock()

	if !busy {
		return nil
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close останавливает таймеры. Неотправленные правки теряются, поэтому
// перед Close обычно вызывают Flush. Ответы после Close в список не попадают.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ps := range s.pending {
		ps.timer.Stop()
		delete(s.pending, id)
	}
	if s.focusT != nil {
		s.focusT.Stop()
	}
	s.focused = ""
}

func (s *Session) indexOf(id string) int {
	for i := range s.states {
		if s.states[i].ID == id {
			return i
		}
	}
	return -1
}

func applyPatch(st serialize.State, p client.StatePatch) serialize.State {
	if p.Type != nil {
		st.Type = *p.Type
	}
	if p.Title != nil {
		st.Title = *p.Title
	}
	if p.Message != nil {
		st.Message = *p.Message
	}
	if p.Condition != nil {
		v := *p.Condition
		st.Condition = &v
	}
	if p.Severity != nil {
		v := *p.Severity
		st.Severity = &v
	}
	if p.Locale != nil {
		st.Locale = *p.Locale
	}
	if p.SortOrder != nil {
		st.SortOrder = *p.SortOrder
	}
	return st
}
