// Command dashboard serves the exception-reporting HTTP API. It loads
// the app config, prepares the dataset store and runs the web server
// until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projex/internal/app"
	"projex/internal/webui"
)

func main() {
	var (
		cfgPath  string
		validate bool
	)
	flag.StringVar(&cfgPath, "config", "configs/app.json", "app config JSON path")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.Parse()

	cfg, err := app.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if validate {
		fmt.Printf("configuration is valid: %s\n", cfgPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	defer a.Close()

	srv := webui.NewServer(webui.Config{
		Addr:          cfg.Server.Listen,
		PageSize:      cfg.Server.PageSize,
		ShutdownGrace: time.Duration(cfg.Server.ShutdownGraceSeconds) * time.Second,
		SourceKind:    cfg.Store.Kind,
	}, a.Repo, a.Log)

	if err := srv.Run(ctx); err != nil {
		a.Log.WithError(err).Error("server exited")
		a.Close()
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
