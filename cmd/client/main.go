package main

import (
	"context"
	"log"
	"os"

	"github.com/avolkovs/daykeeper/internal/client/cli"
	"github.com/avolkovs/daykeeper/internal/client/config"
	"github.com/avolkovs/daykeeper/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewTintLogger(os.Stderr)
	app, err := cli.NewApp(cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
