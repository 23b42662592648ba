package main

import (
	"fmt"
	"os"

	"github.com/prostore/prostore-backend/config"
	"github.com/prostore/prostore-backend/internal/db"
	"github.com/prostore/prostore-backend/pkg/logger"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	open := func() (*gorm.DB, func(), error) {
		database, err := db.Initialize(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return database, func() { db.Close(database) }, nil
	}

	if err := newRootCmd(open, cfg.Scheduler).Execute(); err != nil {
		os.Exit(1)
	}
}
