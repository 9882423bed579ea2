// Prelude — entrypoint-оркестратор контейнера.
//
// Дожидается готовности зависимостей, выполняет подготовительные
// tasks и замещает себя целевым workload:
//
//	prelude [flags] -- COMMAND [ARG...]
//
// Примеры:
//
//	prelude -- gunicorn app:server
//	prelude -- celery -A app worker --queue=default
//	prelude --config /etc/prelude.yaml -- python manage.py createsuperuser
//
// При успехе процесс prelude перестаёт существовать: его PID занимает
// workload, и exit code контейнера — это exit code workload'а.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/Prelude/internal/boot"
	"github.com/shaiso/Prelude/internal/config"
	"github.com/shaiso/Prelude/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "prelude [flags] -- COMMAND [ARG...]",
		Short:         "Prelude — container bootstrap orchestrator",
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.SetupLogger()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Stop-сигнал контейнера до handoff прерывает boot.
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return boot.New(cfg, logger).Run(ctx, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")

	// Флаги workload не наши: парсинг останавливается на первом
	// не-флаговом аргументе, "--" необязателен.
	rootCmd.Flags().SetInterspersed(false)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(boot.ExitCode(err))
	}
}
