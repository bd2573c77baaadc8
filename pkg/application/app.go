// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"os"
	"path/filepath"

	luxlog "github.com/luxfi/log"

	"github.com/luxfi/simplestore/pkg/constants"
)

type SimpleStore struct {
	Log     luxlog.Logger
	baseDir string
}

func New() *SimpleStore {
	return &SimpleStore{}
}

func (app *SimpleStore) Setup(baseDir string, log luxlog.Logger) {
	app.baseDir = baseDir
	app.Log = log
}

func (app *SimpleStore) GetBaseDir() string {
	return app.baseDir
}

// GetConfigPath is the config file read when --config is not given.
func (app *SimpleStore) GetConfigPath() string {
	return filepath.Join(app.baseDir, constants.DefaultConfigFileName+"."+constants.DefaultConfigFileType)
}

// ConfigFileExists reports whether the default config file is present.
func (app *SimpleStore) ConfigFileExists() bool {
	_, err := os.Stat(app.GetConfigPath())
	return err == nil
}
