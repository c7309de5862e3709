package main

import (
	"errors"
	"io/fs"

	"github.com/farellandr/clubhub/internal/commands"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	commands.Execute()
}
