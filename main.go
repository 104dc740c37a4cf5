// main is the entry point for the learnstat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/learnstat/cmd"
	"github.com/huangsam/learnstat/internal/contract"
	"github.com/huangsam/learnstat/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}
	iocache.CloseStores()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
