package main

import (
	"os"
	"runtime/pprof"

	"github.com/charmbracelet/log/v2"
	"github.com/robinovitch61/itemview/cmd"
)

func main() {
	if cpuProfile := os.Getenv("ITEMVIEW_CPU_PROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile", "err", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile", "err", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
