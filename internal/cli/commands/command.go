// Package commands — команды CLI-клиента StateDeck.
package commands

import (
	"StateDeck/internal/client"
	"StateDeck/internal/config"
	"StateDeck/internal/editor"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
)

// Env — общее окружение команд одного запуска.
type Env struct {
	Config *config.Config
	Server string // адрес API, по умолчанию PublicURL из конфигурации
}

// API возвращает клиента для текущего адреса сервера.
func (e *Env) API() *client.Client {
	return client.New(e.Server, nil)
}

// Builder строит подкоманду над окружением запуска.
type Builder func(env *Env) *cobra.Command

// registry holds available commands by name.
var registry = map[string]Builder{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(name string, b Builder) {
	registry[name] = b
}

// NewRootCmd собирает корневую команду со всеми зарегистрированными подкомандами.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	env := &Env{Config: cfg, Server: cfg.PublicURL}
	root := &cobra.Command{
		Use:           "statedeck",
		Short:         "StateDeck CLI: projects, elements and their UI states",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(Out)
	root.PersistentFlags().StringVar(&env.Server, "server", env.Server, "адрес API (http://host:port)")

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		root.AddCommand(registry[name](env))
	}
	return root
}

// printNotifier печатает уведомления редактора и запоминает первую ошибку.
type printNotifier struct {
	w   io.Writer
	mu  sync.Mutex
	err error
}

func (p *printNotifier) Notify(n editor.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n.Level == editor.LevelError {
		fmt.Fprintf(p.w, "× %s %v\n", n.Message, n.Err)
		if p.err == nil {
			p.err = n.Err
		}
		return
	}
	fmt.Fprintf(p.w, "✓ %s\n", n.Message)
}

func (p *printNotifier) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
