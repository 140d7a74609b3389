package main

import (
	"os"

	"minerva/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetOutput(os.Stderr)
	if level, err := log.ParseLevel(os.Getenv("MINERVA_LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cmd.Execute()
}
