package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/client"
)

func main() {
	origin := flag.String("s", "http://localhost:8080", "Origin of the shortening service")
	timeout := flag.Duration("t", 10*time.Second, "Request timeout")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: shorten [-s origin] <url>")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	shortURL, err := client.New(*origin, nil).Shorten(ctx, flag.Arg(0))
	if err != nil {
		logger.Fatal("Failed to shorten URL", zap.String("url", flag.Arg(0)), zap.Error(err))
	}

	fmt.Println(shortURL)
}
