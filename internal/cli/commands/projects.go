package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func projectsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Показать проекты",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := env.API().ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(Out, "Нет проектов")
				return nil
			}
			for _, p := range list {
				fmt.Fprintf(Out, "- %s  %s\n", p.ID, p.Name)
			}
			return nil
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Создать проект",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			p, err := env.API().CreateProject(cmd.Context(), args[0], desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(Out, "Created project %s\n", p.ID)
			return nil
		},
	}
	create.Flags().StringVar(&description, "description", "", "описание проекта")

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Удалить проект (элементы остаются без проекта)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.API().DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(Out, "Deleted project %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, remove)
	return cmd
}

func init() { RegisterCmd("projects", projectsCmd) }
