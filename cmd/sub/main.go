package main

import (
	"os"

	"github.com/rcarmo/go-sub/pkg/applets/sub"
	"github.com/rcarmo/go-sub/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(sub.Run(stdio, os.Args[1:]))
}
