// Command kadis-list starts a seed node and a second node that joins it,
// demonstrating the list commands over a real bootstrap dial.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/giraffekey/kadis"
)

func main() {
	seedPort := flag.Uint("seed-port", 5130, "seed node listen port")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kadis-list: build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	seed, err := kadis.NewBuilder().Port(uint16(*seedPort)).Logger(logger).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kadis-list: start seed: %v\n", err)
		os.Exit(1)
	}
	defer seed.Close()

	bootstrap := fmt.Sprintf("0.0.0.0:%d", *seedPort)
	k, err := kadis.NewBuilder().Bootstraps([]string{bootstrap}).Logger(logger).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kadis-list: init: %v\n", err)
		os.Exit(1)
	}
	defer k.Close()

	if err := k.RPush("cats", "Herbert"); err != nil {
		fmt.Fprintf(os.Stderr, "kadis-list: rpush: %v\n", err)
		os.Exit(1)
	}
	if err := k.RPush("cats", "Ferb"); err != nil {
		fmt.Fprintf(os.Stderr, "kadis-list: rpush: %v\n", err)
		os.Exit(1)
	}
	if err := k.LPush("cats", "Kirby"); err != nil {
		fmt.Fprintf(os.Stderr, "kadis-list: lpush: %v\n", err)
		os.Exit(1)
	}

	var second string
	if err := k.LIndex("cats", 1, &second); err != nil {
		fmt.Fprintf(os.Stderr, "kadis-list: lindex: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(second)
}
