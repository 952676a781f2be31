package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listenroom",
	Short: "Сервер совместного прослушивания музыки",
	Long: `listenroom держит живые комнаты: общий плейлист, курсор воспроизведения и чат
синхронизируются между участниками через websocket, каталог комнат и песен хранится в postgres.

Без подкоманды запускает HTTP API и сервер метрик. Настройка через переменные окружения.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		runApp()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
