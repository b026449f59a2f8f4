package commands

import (
	"StateDeck/internal/client"
	"StateDeck/internal/patch"
	"StateDeck/internal/serialize"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func printElement(e serialize.Element) {
	fmt.Fprintf(Out, "  id:      %s\n", e.ID)
	fmt.Fprintf(Out, "  title:   %s\n", e.Title)
	fmt.Fprintf(Out, "  figma:   %s\n", e.FigmaURL)
	if e.FigmaFileKey != nil {
		fmt.Fprintf(Out, "  file:    %s\n", *e.FigmaFileKey)
	}
	if e.FigmaNodeID != nil {
		fmt.Fprintf(Out, "  node:    %s\n", *e.FigmaNodeID)
	}
	fmt.Fprintf(Out, "  image:   %s (%s, %d bytes)\n", e.ImagePath, e.ImageType, e.ImageSize)
	if e.ProjectID != nil {
		fmt.Fprintf(Out, "  project: %s\n", *e.ProjectID)
	}
}

// openImage открывает файл; тип берётся из флага или по расширению.
func openImage(path, contentType string) (client.Image, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return client.Image{}, nil, err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}
	return client.Image{Name: filepath.Base(path), Type: contentType, Data: f}, func() { _ = f.Close() }, nil
}

func elementsCmd(env *Env) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "elements",
		Short: "Показать элементы, недавно изменённые первыми",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := env.API().ListElements(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(Out, "Нет элементов")
				return nil
			}
			for _, e := range list {
				fmt.Fprintf(Out, "- %s  %s  %s\n", e.ID, e.Title, e.UpdatedAt)
			}
			fmt.Fprintf(Out, "Всего: %d\n", len(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "только элементы проекта")

	var (
		title       string
		project     string
		contentType string
	)
	create := &cobra.Command{
		Use:   "create <figma-url> <image-file>",
		Short: "Создать элемент из ссылки Figma и скриншота",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, done, err := openImage(args[1], contentType)
			if err != nil {
				return err
			}
			defer done()
			e, err := env.API().CreateElement(cmd.Context(), client.ElementForm{
				Title:     title,
				FigmaURL:  args[0],
				ProjectID: project,
				Image:     img,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(Out, "Created:")
			printElement(e)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "заголовок элемента")
	create.Flags().StringVar(&project, "project", "", "id проекта")
	create.Flags().StringVar(&contentType, "type", "", "MIME-тип изображения (по умолчанию по расширению)")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Показать элемент",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := env.API().GetElement(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printElement(e)
			return nil
		},
	}

	var (
		newTitle, newURL, newProject string
		detach                       bool
	)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Изменить заголовок, ссылку или проект элемента",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p client.ElementPatch
			if cmd.Flags().Changed("title") {
				p.Title = &newTitle
			}
			if cmd.Flags().Changed("figma-url") {
				p.FigmaURL = &newURL
			}
			switch {
			case detach:
				p.ProjectID = patch.Null[string]()
			case cmd.Flags().Changed("project"):
				p.ProjectID = patch.Of(newProject)
			}
			e, err := env.API().UpdateElement(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			fmt.Fprintln(Out, "Updated:")
			printElement(e)
			return nil
		},
	}
	update.Flags().StringVar(&newTitle, "title", "", "новый заголовок")
	update.Flags().StringVar(&newURL, "figma-url", "", "новая ссылка Figma")
	update.Flags().StringVar(&newProject, "project", "", "id проекта")
	update.Flags().BoolVar(&detach, "no-project", false, "убрать элемент из проекта")

	var imageType string
	image := &cobra.Command{
		Use:   "image <id> <image-file>",
		Short: "Заменить изображение элемента",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, done, err := openImage(args[1], imageType)
			if err != nil {
				return err
			}
			defer done()
			e, err := env.API().ReplaceImage(cmd.Context(), args[0], img)
			if err != nil {
				return err
			}
			fmt.Fprintln(Out, "Image replaced:")
			printElement(e)
			return nil
		},
	}
	image.Flags().StringVar(&imageType, "type", "", "MIME-тип изображения")

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Удалить элемент вместе с состояниями",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.API().DeleteElement(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(Out, "Deleted element %s\n", args[0])
			return nil
		},
	}

	var format, lang string
	export := &cobra.Command{
		Use:   "export <id>",
		Short: "Экспорт состояний: text или json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := env.API().Export(cmd.Context(), args[0], serialize.Format(format), serialize.Lang(lang))
			if err != nil {
				return err
			}
			fmt.Fprintln(Out, out)
			return nil
		},
	}
	export.Flags().StringVar(&format, "format", string(serialize.FormatText), "text | json")
	export.Flags().StringVar(&lang, "lang", string(serialize.LangEN), "en | ru")

	share := &cobra.Command{
		Use:   "share <id>",
		Short: "Получить ссылку на просмотр только для чтения",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := env.API().Share(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(Out, link.URL)
			fmt.Fprintf(Out, "expires: %s\n", link.ExpiresAt)
			return nil
		},
	}

	cmd.AddCommand(create, get, update, image, remove, export, share)
	return cmd
}

func init() { RegisterCmd("elements", elementsCmd) }
