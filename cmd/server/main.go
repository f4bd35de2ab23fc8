package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/subosito/gotenv"

	"estoquegiro/pkg/layout"
	"estoquegiro/pkg/server"
)

func main() {
	_ = gotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "estoquegiro",
	})

	var (
		port       = flag.String("port", "3000", "Server port")
		layoutFile = flag.String("layout", "", "Worksheet layout file (YAML)")
	)
	flag.Parse()

	l := layout.Default()
	if *layoutFile != "" {
		loaded, err := layout.Load(*layoutFile)
		if err != nil {
			logger.Fatal("failed to load layout", "err", err)
		}
		l = loaded
	}

	srv := server.New(l, logger)
	addr := fmt.Sprintf("0.0.0.0:%s", *port)
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
