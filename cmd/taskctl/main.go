package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"taskboard/internal/adapter/cli"
	"taskboard/pkg/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := client.DefaultTokenPath()

	if err != nil {
		fmt.Fprintln(os.Stderr, "taskctl:", err)
		os.Exit(1)
	}

	tokens := client.NewFileTokenStore(path)

	root := cli.NewRootCommand(func(server string) (cli.API, error) {
		return client.New(server, tokens), nil
	}, os.Stdin, os.Stdout)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "taskctl:", err)
		os.Exit(1)
	}
}
