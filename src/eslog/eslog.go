// FILE: eslogger/src/eslog/eslog.go

// Package eslog writes leveled, colorized lines to a terminal and, once
// connected, ships the same entries to an Elasticsearch _bulk endpoint in
// batches.
//
//	log, _ := eslog.New(eslog.DefaultConfig())
//	log.Info(eslog.Msg("starting"))
//	_ = log.Connect("http://localhost:9200/")
//	log.Error(eslog.Fields{eslog.String("user", "ann")}, err)
//	log.Flush()
//	log.Stop()
package eslog

import (
	"errors"

	"eslogger/src/internal/buffer"
	"eslogger/src/internal/config"
	"eslogger/src/internal/core"
	"eslogger/src/internal/delivery"
	"eslogger/src/internal/filter"
	"eslogger/src/internal/sink"
)

var (
	// ErrAlreadyConnected is returned by a second Connect.
	ErrAlreadyConnected = errors.New("eslog: already connected")

	// ErrStopped is returned by Connect after Stop, and by FlushContext
	// once delivery has ended with entries still queued.
	ErrStopped = errors.New("eslog: logger stopped")
)

type (
	// Config is the complete logger configuration.
	Config = config.Config

	// Level is the severity of an entry.
	Level = core.Level

	// Payload is either a Msg or Fields.
	Payload = core.Payload

	// Msg is a plain message.
	Msg = core.Msg

	// Fields is an ordered set of key/value pairs merged into the entry.
	Fields = core.Fields

	// Field is one key/value pair.
	Field = core.Field

	// BulkSink receives encoded batches.
	BulkSink = sink.BulkSink

	// SinkStats describes a sink.
	SinkStats = sink.SinkStats
)

const (
	LevelInfo  = core.LevelInfo
	LevelWarn  = core.LevelWarn
	LevelError = core.LevelError
	LevelFatal = core.LevelFatal
)

// Field constructors
func String(key, v string) Field { return core.String(key, v) }
func Int(key string, v int64) Field { return core.Int(key, v) }
func Float(key string, v float64) Field { return core.Float(key, v) }
func Bool(key string, v bool) Field { return core.Bool(key, v) }
func Group(key string, fields ...Field) Field { return core.Group(key, fields...) }

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.Defaults()
}

// LoadConfig reads defaults, the config file, ESLOGGER_ environment
// variables and args, in increasing precedence.
func LoadConfig(args []string) (*Config, error) {
	return config.LoadWithCLI(args)
}

// Stats is a snapshot of every stage of the logger.
type Stats struct {
	Connected bool
	Buffer    buffer.Stats
	Delivery  delivery.Stats
	Sink      SinkStats
	Console   SinkStats
	Filter    filter.Stats
}
