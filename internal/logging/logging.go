/*
DESCRIPTION
  logging.go provides a small leveled Logger facade over zap, in the same
  shape revid's own Logger interface takes: a handful of named level
  methods plus a generic Log(level, msg, kv...) escape hatch.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package logging provides structured, leveled logging for the encoder and
// player binaries.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the int8 level scheme used by revid's Logger interface.
type Level int8

// Severity levels, lowest to highest.
const (
	Debug Level = iota
	Info
	Warning
	Error
	Fatal
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warning:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	case Fatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is satisfied by every component in this module that needs to log;
// callers supply their own implementation only in tests.
type Logger interface {
	SetLevel(level Level)
	Log(level Level, msg string, kv ...interface{})
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
	Fatal(msg string, kv ...interface{})
}

// zapLogger adapts a zap.SugaredLogger to Logger. SetLevel swaps the
// AtomicLevel shared by the underlying core, so it takes effect on already
// constructed child loggers too.
type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New builds a Logger that writes level >= initial to w. suppress, when
// true, drops stack traces on Error/Fatal (useful for an interactive
// player where a misbehaving packet shouldn't dump a trace over the video).
func New(initial Level, w io.Writer, suppress bool) Logger {
	level := zap.NewAtomicLevelAt(initial.zapLevel())

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(w), level)

	opts := []zap.Option{zap.AddCallerSkip(1)}
	if !suppress {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return &zapLogger{sugar: zap.New(core, opts...).Sugar(), level: level}
}

func (l *zapLogger) SetLevel(level Level) { l.level.SetLevel(level.zapLevel()) }

func (l *zapLogger) Log(level Level, msg string, kv ...interface{}) {
	switch level {
	case Debug:
		l.sugar.Debugw(msg, kv...)
	case Info:
		l.sugar.Infow(msg, kv...)
	case Warning:
		l.sugar.Warnw(msg, kv...)
	case Error:
		l.sugar.Errorw(msg, kv...)
	case Fatal:
		l.sugar.Fatalw(msg, kv...)
	default:
		l.sugar.Infow(msg, kv...)
	}
}

func (l *zapLogger) Debug(msg string, kv ...interface{}) { l.Log(Debug, msg, kv...) }
func (l *zapLogger) Info(msg string, kv ...interface{})  { l.Log(Info, msg, kv...) }
func (l *zapLogger) Warn(msg string, kv ...interface{})  { l.Log(Warning, msg, kv...) }
func (l *zapLogger) Error(msg string, kv ...interface{}) { l.Log(Error, msg, kv...) }
func (l *zapLogger) Fatal(msg string, kv ...interface{}) { l.Log(Fatal, msg, kv...) }
