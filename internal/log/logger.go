/*
 * logger.go, part of openmmwrap.
 *
 * Copyright 2024 The openmmwrap developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package log configures the global structured logger shared by the
// commands. Messages go to the console in a human-readable form and,
// optionally, to a file in JSON.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures the options for configuring the global logger.
type Config struct {
	Level   string // log level name, "info" if empty
	Console bool   // write human-readable output to stderr
	File    string // optional file receiving the JSON stream
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global logger exactly once. Later calls are
// ignored, so the commands can call it unconditionally.
func Configure(cfg Config) error {
	var err error
	once.Do(func() {
		level := zerolog.InfoLevel
		if cfg.Level != "" {
			level, err = zerolog.ParseLevel(cfg.Level)
			if err != nil {
				err = fmt.Errorf("bad log level '%s': %w", cfg.Level, err)
				return
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		var writers []io.Writer
		if cfg.Console {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		}
		if cfg.File != "" {
			var f *os.File
			f, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				err = fmt.Errorf("opening log file: %w", err)
				return
			}
			writers = append(writers, f)
		}
		var out io.Writer = io.Discard
		if len(writers) > 0 {
			out = io.MultiWriter(writers...)
		}
		base = zerolog.New(out).With().Timestamp().Logger()
	})
	return err
}

func logger() zerolog.Logger {
	Configure(Config{Console: true})
	return base
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component
// name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str("component", component).Logger()
}
