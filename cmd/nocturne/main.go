package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nocturnehq/nocturne/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "nocturne",
		Short:   "Sleep insights from your wearable health export",
		Version: version.Get(),
	}

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(persistCmd())

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
