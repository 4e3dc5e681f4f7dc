package main

import (
	"io"

	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a logger writing to a rotated file, or to stderr if no
// file is configured. The returned closer releases the file.
func newLogger(conf LogConfig, stderr io.Writer) (log.Logger, io.Closer, error) {
	allow, err := log.AllowLevel(conf.Level)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	var (
		out    io.Writer = stderr
		closer io.Closer = nopCloser{}
	)
	if conf.File != "" {
		rotate := &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSize,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAge,
			Compress:   conf.Compress,
		}
		out, closer = rotate, rotate
	}

	logger := log.NewTMLogger(log.NewSyncWriter(out))
	logger = log.NewFilter(logger, allow).With("module", "custodyd")
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
