// main is the entry point for the commitpulse CLI.
package main

import (
	"github.com/huangsam/commitpulse/cmd"
	"github.com/huangsam/commitpulse/internal/contract"
	"github.com/huangsam/commitpulse/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()

	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("commitpulse failed", err)
	}
}
