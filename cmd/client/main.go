package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"StateDeck/internal/cli/commands"
	"StateDeck/internal/config"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// env + .env; флаги разбирает cobra
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := commands.NewRootCmd(cfg)
	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("StateDeck CLI\nVersion: {{.Version}}\nBuild date: %s\n", buildDate))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("StateDeck CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
		},
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}
