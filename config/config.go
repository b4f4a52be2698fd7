// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package config holds the settings of the huffpack server.  Settings are KEY=VALUE pairs, read either from a
map (for example, command-line arguments) or from a configuration file with one pair per line and '#' comment
lines.  Keys ending in '?' are optional extensions and are ignored when not understood; any other unknown key
is an error.
*/
package config

import (
	"errors"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

const (
	paramListen   = "listen"
	paramStore    = "store"
	paramDatabase = "db"
	paramLogLevel = "log"
	paramMaxBody  = "maxbody"

	suffixOptional = "?"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

var (
	ErrNoDatabase      = &ParameterError{ParameterMissing, "database DSN", paramDatabase}
	ErrInvalidStore    = &ParameterError{ParameterInvalid, "store kind", paramStore}
	ErrInvalidLogLevel = &ParameterError{ParameterInvalid, "log level", paramLogLevel}
	ErrInvalidMaxBody  = &ParameterError{ParameterInvalid, "body limit", paramMaxBody}
	ErrSyntax          = errors.New("config: bad configuration record syntax")
)

// Config holds the server settings.
type Config struct {
	Listen      string
	Store       string
	DatabaseURL string
	LogLevel    logging.Level
	MaxBody     int64
}

var defConfig = Config{
	Listen:   ":8080",
	Store:    StoreMemory,
	LogLevel: logging.INFO,
	MaxBody:  16 << 20,
}

// Default returns the settings used for any key not given explicitly.
func Default() Config {
	return defConfig
}

// CheckUnackedParams ensures that all parameters in params are either acknowledged by being associated
// with a true value in ackedParams or are optional due to being suffixed with a question mark.  If any
// unacknowledged requisite parameters are present, it returns an appropriate error.
func CheckUnackedParams(params map[string]string, ackedParams map[string]bool) error {
	for key := range params {
		if !ackedParams[key] && !strings.HasSuffix(key, suffixOptional) {
			return &ParameterError{ParameterUnexpected, "parameter", key}
		}
	}

	return nil
}

// ParseFrom fills cfg from unparsed, marking every key it understands in acked.
func (cfg *Config) ParseFrom(unparsed map[string]string, acked map[string]bool) error {
	if listen, present := unparsed[paramListen]; present {
		cfg.Listen = listen
		acked[paramListen] = true
	}

	if store, present := unparsed[paramStore]; present {
		cfg.Store = store
		acked[paramStore] = true
	}

	if dsn, present := unparsed[paramDatabase]; present {
		cfg.DatabaseURL = dsn
		acked[paramDatabase] = true
	}

	if levelStr, present := unparsed[paramLogLevel]; present {
		level, err := logging.LogLevel(levelStr)
		if err != nil {
			return ErrInvalidLogLevel
		}
		cfg.LogLevel = level
		acked[paramLogLevel] = true
	}

	if maxStr, present := unparsed[paramMaxBody]; present {
		max, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || max <= 0 {
			return ErrInvalidMaxBody
		}
		cfg.MaxBody = max
		acked[paramMaxBody] = true
	}

	return cfg.Validate()
}

// Validate checks that the settings are mutually consistent.
func (cfg *Config) Validate() error {
	switch cfg.Store {
	default:
		return ErrInvalidStore
	case StoreMemory:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return ErrNoDatabase
		}
	}

	return nil
}

// Parse builds a Config from unparsed, starting from Default.
func Parse(unparsed map[string]string) (result *Config, err error) {
	// Must explicitly copy here.
	cfg := defConfig
	acked := make(map[string]bool)
	if err = cfg.ParseFrom(unparsed, acked); err != nil {
		return nil, err
	}

	if err = CheckUnackedParams(unparsed, acked); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// UnparseInto writes every setting of cfg that differs from the default into unparsed.
func (cfg *Config) UnparseInto(unparsed map[string]string) {
	def := &defConfig

	if cfg.Listen != def.Listen {
		unparsed[paramListen] = cfg.Listen
	}
	if cfg.Store != def.Store {
		unparsed[paramStore] = cfg.Store
	}
	if cfg.DatabaseURL != "" {
		unparsed[paramDatabase] = cfg.DatabaseURL
	}
	if cfg.LogLevel != def.LogLevel {
		unparsed[paramLogLevel] = cfg.LogLevel.String()
	}
	if cfg.MaxBody != def.MaxBody {
		unparsed[paramMaxBody] = strconv.FormatInt(cfg.MaxBody, 10)
	}
}

func (cfg *Config) Unparse() (unparsed map[string]string) {
	unparsed = make(map[string]string)
	cfg.UnparseInto(unparsed)
	return
}
