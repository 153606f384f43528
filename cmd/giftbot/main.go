package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/cadolab/giftbot/core/cmd"
	"github.com/cadolab/giftbot/internal/app"
)

func main() {
	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.Load(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(cfg.(*app.Config))
		},
	})
	if err != nil {
		log.Fatalf("giftbot: %v", err)
	}
}
