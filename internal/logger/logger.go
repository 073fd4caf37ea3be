// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger builds the process logger: zap cores behind the logr API.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	//File to copy the log to, in JSON, at debug level.
	WEBDRIVER_LOG_FILE = "WEBDRIVER_LOG_FILE"

	verbosityFlagName      = "verbosity"
	verbosityFlagShortName = "v"
)

type Logger struct {
	logr.Logger
	atomicLevel zap.AtomicLevel
	flush       func()
}

//New creates a logger writing human readable output to stderr at info
//level.
func New(name string) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	consoleAtomicLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), consoleAtomicLevel),
	}

	var fileErr error
	if path, found := os.LookupEnv(WEBDRIVER_LOG_FILE); found && path != "" {
		if f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600); err != nil {
			fileErr = err
		} else {
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(f), zap.NewAtomicLevelAt(zapcore.DebugLevel)))
		}
	}

	zapLogger := zap.New(zapcore.NewTee(cores...))
	log := zapr.NewLogger(zapLogger).WithName(name)
	if fileErr != nil {
		log.Error(fileErr, "failed to open log file", "path", os.Getenv(WEBDRIVER_LOG_FILE))
	}

	return &Logger{
		Logger:      log,
		atomicLevel: consoleAtomicLevel,
		flush: func() {
			_ = zapLogger.Sync()
		},
	}
}

func (l *Logger) SetLevel(level zapcore.Level) {
	l.atomicLevel.SetLevel(level)
}

func (l *Logger) Flush() {
	l.flush()
}

//AddLevelFlag adds -v/--verbosity to fs.
func (l *Logger) AddLevelFlag(fs *pflag.FlagSet) {
	fs.VarP(&levelFlagValue{onSet: l.SetLevel}, verbosityFlagName, verbosityFlagShortName,
		"Logging verbosity level (e.g. -v=debug). Can be one of 'debug', 'info', or 'error', or any positive integer corresponding to increasing levels of debug verbosity.")
}

var levelStrings = map[string]zapcore.Level{
	"debug": zap.DebugLevel,
	"info":  zap.InfoLevel,
	"error": zap.ErrorLevel,
}

//StringToLevel parses a level name or a positive logr verbosity.
func StringToLevel(value string) (zapcore.Level, error) {
	if level, found := levelStrings[value]; found {
		return level, nil
	}
	var v int
	if _, err := fmt.Sscanf(value, "%d", &v); err != nil || v <= 0 {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", value)
	}
	return zapcore.Level(int8(-v)), nil // zap has the levels backwards
}

type levelFlagValue struct {
	onSet func(zapcore.Level)
	value string
}

func (f *levelFlagValue) Set(value string) error {
	level, err := StringToLevel(value)
	if err != nil {
		return err
	}
	f.onSet(level)
	f.value = value
	return nil
}

func (f *levelFlagValue) String() string { return f.value }

func (*levelFlagValue) Type() string { return "level" }
