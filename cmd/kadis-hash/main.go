// Command kadis-hash demonstrates the hash commands against a single
// standalone node.
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
	port := flag.Uint("port", 5130, "local listen port")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kadis-hash: build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	k, err := kadis.NewBuilder().Port(uint16(*port)).Logger(logger).Init(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "kadis-hash: init: %v\n", err)
		os.Exit(1)
	}
	defer k.Close()

	if err := k.HSet("cats", "herb", "Herbert"); err != nil {
		fmt.Fprintf(os.Stderr, "kadis-hash: hset: %v\n", err)
		os.Exit(1)
	}

	var name string
	if err := k.HGet("cats", "herb", &name); err != nil {
		fmt.Fprintf(os.Stderr, "kadis-hash: hget: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(name)
}
