package main

import (
	"context"
	"log"
	"os"

	"github.com/votofacil/votofacil/internal/buildinfo"
	"github.com/votofacil/votofacil/internal/cli"
	"github.com/votofacil/votofacil/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.RunAdmin(ctx)
}
