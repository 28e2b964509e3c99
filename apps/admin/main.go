package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gradegator/dashboard/core"
	logsvc "github.com/gradegator/dashboard/services/logger"
	filestore "github.com/gradegator/dashboard/storage/session/file"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "CTL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	cli := commandLine{
		conf:   conf,
		store:  filestore.NewStore(sessionPath()),
		logger: logger,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
			os.Stderr.WriteString("\nerror: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}

func sessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".gatorctl", "session.json")
}
