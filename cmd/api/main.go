// @title Moodlog API
// @version 1.0
// @description Mood journaling API: daily emoji check-ins, weekly history, stats and recommendations.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/limbo/moodlog/internal/service"
	"github.com/limbo/moodlog/pkg/config"
)

func init() {
	service.InitValidator()
}

var CLI struct {
	EnvFile string `help:"Path to the .env file." name:"env-file" default:"${envFile}"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API." default:"withargs"`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("moodlog"),
		kong.Description("Mood journaling API server"),
		kong.UsageOnError(),
		kong.Vars{"envFile": config.DefaultEnvFile},
	)

	cfg, err := config.Load(CLI.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := ctx.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
