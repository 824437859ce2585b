package main

import (
	"context"
	"log"
	"os"

	"github.com/hopitalsej/sejour/internal/buildinfo"
	"github.com/hopitalsej/sejour/internal/client/cli"
	"github.com/hopitalsej/sejour/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
