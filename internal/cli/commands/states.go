package commands

import (
	"StateDeck/internal/client"
	"StateDeck/internal/editor"
	"StateDeck/internal/model"
	"StateDeck/internal/serialize"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// session открывает сессию редактора над состояниями элемента.
func (e *Env) session(ctx context.Context, elementID string, n editor.Notifier) (*editor.Session, error) {
	api := e.API()
	list, err := api.ListStates(ctx, elementID)
	if err != nil {
		return nil, err
	}
	return editor.New(api, elementID, list, editor.Options{Notifier: n}), nil
}

// finish отправляет отложенные правки и закрывает сессию.
func finish(ctx context.Context, s *editor.Session, n *printNotifier) error {
	defer s.Close()
	if err := s.Flush(ctx); err != nil {
		return err
	}
	return n.Err()
}

func printState(st serialize.State, lang serialize.Lang) {
	fmt.Fprintf(Out, "%d. [%s] %s\n", st.SortOrder, serialize.TypeLabel(lang, st.Type), st.ID)
	fmt.Fprintf(Out, "   %s\n", serialize.StateCopyText(st.Title, st.Message, serialize.CopyTitleMessage))
	if c := deref(st.Condition); c != "" {
		fmt.Fprintf(Out, "   when: %s\n", c)
	}
	if sv := deref(st.Severity); sv != "" {
		fmt.Fprintf(Out, "   severity: %s\n", sv)
	}
}

func parseTypes(raw []string) ([]model.StateType, error) {
	out := make([]model.StateType, 0, len(raw))
	for _, r := range raw {
		t := model.StateType(r)
		if !t.Valid() {
			return nil, fmt.Errorf("unknown state type %q", r)
		}
		out = append(out, t)
	}
	return out, nil
}

func statesCmd(env *Env) *cobra.Command {
	var (
		types []string
		query string
		lang  string
	)
	cmd := &cobra.Command{
		Use:   "states <element-id>",
		Short: "Показать состояния элемента (с фильтром и поиском)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := parseTypes(types)
			if err != nil {
				return err
			}
			n := &printNotifier{w: cmd.ErrOrStderr()}
			s, err := env.session(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}
			defer s.Close()
			s.SetFilters(filters...)
			s.SetQuery(query)

			visible := s.Visible()
			if len(visible) == 0 {
				if s.HasFilters() {
					fmt.Fprintln(Out, "Ничего не найдено")
				} else {
					fmt.Fprintln(Out, "Нет состояний")
				}
				return nil
			}
			l := serialize.ParseLang(lang)
			for _, st := range visible {
				printState(st, l)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&types, "type", nil, "фильтр по типу (можно несколько)")
	cmd.Flags().StringVar(&query, "query", "", "поиск по тексту")
	cmd.Flags().StringVar(&lang, "lang", string(serialize.LangEN), "язык меток: en | ru")

	cmd.AddCommand(stateAddCmd(env), stateEditCmd(env), stateMoveCmd(env), stateDupCmd(env), stateRmCmd(env), stateCopyCmd(env))
	return cmd
}

func stateAddCmd(env *Env) *cobra.Command {
	var (
		in                  client.StateInput
		typ                 string
		condition, severity string
	)
	cmd := &cobra.Command{
		Use:   "add <element-id>",
		Short: "Добавить состояние (без --title и --message добавляет состояние по умолчанию)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("message") {
				n := &printNotifier{w: cmd.ErrOrStderr()}
				s, err := env.session(ctx, args[0], n)
				if err != nil {
					return err
				}
				defer s.Close()
				st, err := s.Create(ctx)
				if err != nil {
					return err
				}
				printState(st, serialize.LangEN)
				return nil
			}

			in.Type = model.StateType(typ)
			if flags.Changed("condition") {
				in.Condition = &condition
			}
			if flags.Changed("severity") {
				in.Severity = &severity
			}
			st, err := env.API().CreateState(ctx, args[0], in)
			if err != nil {
				return err
			}
			printState(st, serialize.LangEN)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(model.StateInfo), "тип состояния")
	cmd.Flags().StringVar(&in.Title, "title", "", "заголовок")
	cmd.Flags().StringVar(&in.Message, "message", "", "текст")
	cmd.Flags().StringVar(&condition, "condition", "", "когда показывается")
	cmd.Flags().StringVar(&severity, "severity", "", "важность")
	cmd.Flags().StringVar(&in.Locale, "locale", "", "локаль (по умолчанию en)")
	return cmd
}

func stateEditCmd(env *Env) *cobra.Command {
	var (
		typ, title, message, condition, severity, locale string
	)
	cmd := &cobra.Command{
		Use:   "edit <element-id> <state-id>",
		Short: "Изменить поля состояния",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p client.StatePatch
			flags := cmd.Flags()
			if flags.Changed("type") {
				t := model.StateType(typ)
				if !t.Valid() {
					return fmt.Errorf("unknown state type %q", typ)
				}
				p.Type = &t
			}
			for name, dst := range map[string]**string{
				"title":     &p.Title,
				"message":   &p.Message,
				"condition": &p.Condition,
				"severity":  &p.Severity,
				"locale":    &p.Locale,
			} {
				if flags.Changed(name) {
					v, _ := flags.GetString(name)
					*dst = &v
				}
			}
			if p == (client.StatePatch{}) {
				return fmt.Errorf("nothing to change")
			}

			ctx := cmd.Context()
			n := &printNotifier{w: cmd.ErrOrStderr()}
			s, err := env.session(ctx, args[0], n)
			if err != nil {
				return err
			}
			if err := s.Edit(args[1], p); err != nil {
				s.Close()
				return err
			}
			if err := finish(ctx, s, n); err != nil {
				return err
			}
			st, _ := s.State(args[1])
			printState(st, serialize.LangEN)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "тип состояния")
	cmd.Flags().StringVar(&title, "title", "", "заголовок")
	cmd.Flags().StringVar(&message, "message", "", "текст")
	cmd.Flags().StringVar(&condition, "condition", "", "когда показывается")
	cmd.Flags().StringVar(&severity, "severity", "", "важность")
	cmd.Flags().StringVar(&locale, "locale", "", "локаль")
	return cmd
}

func stateMoveCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:       "move <element-id> <state-id> up|down",
		Short:     "Переставить состояние на одну позицию",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir editor.Direction
			switch args[2] {
			case "up":
				dir = editor.Up
			case "down":
				dir = editor.Down
			default:
				return fmt.Errorf("direction must be up or down, got %q", args[2])
			}

			ctx := cmd.Context()
			n := &printNotifier{w: cmd.ErrOrStderr()}
			s, err := env.session(ctx, args[0], n)
			if err != nil {
				return err
			}
			if err := s.Move(args[1], dir); err != nil {
				s.Close()
				return err
			}
			if err := finish(ctx, s, n); err != nil {
				return err
			}
			for _, st := range s.States() {
				fmt.Fprintf(Out, "%d. %s  %s\n", st.SortOrder, st.ID, st.Title)
			}
			return nil
		},
	}
}

func stateDupCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "dup <element-id> <state-id>",
		Short: "Скопировать состояние в конец списка",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n := &printNotifier{w: cmd.ErrOrStderr()}
			s, err := env.session(ctx, args[0], n)
			if err != nil {
				return err
			}
			defer s.Close()
			st, err := s.Duplicate(ctx, args[1])
			if err != nil {
				return err
			}
			printState(st, serialize.LangEN)
			return nil
		},
	}
}

func stateRmCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <element-id> <state-id>",
		Short: "Удалить состояние (соседи не перенумеровываются)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n := &printNotifier{w: cmd.ErrOrStderr()}
			s, err := env.session(ctx, args[0], n)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Delete(ctx, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(Out, "Deleted state %s\n", args[1])
			return nil
		},
	}
}

func stateCopyCmd(env *Env) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "copy <element-id> <state-id>",
		Short: "Напечатать текст состояния для буфера обмена",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := serialize.CopyMode(mode)
			if m != serialize.CopyMessage && m != serialize.CopyTitleMessage {
				return fmt.Errorf("mode must be %q or %q", serialize.CopyMessage, serialize.CopyTitleMessage)
			}
			list, err := env.API().ListStates(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, st := range list {
				if st.ID == args[1] {
					fmt.Fprintln(Out, serialize.StateCopyText(st.Title, st.Message, m))
					return nil
				}
			}
			return fmt.Errorf("state %s not found on element %s", args[1], args[0])
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(serialize.CopyMessage), "message | title-message")
	return cmd
}

func init() { RegisterCmd("states", statesCmd) }
