package report

import (
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunLog appends one JSON object per event to a file:
// {"timestamp":..., "level":..., "event":..., <fields>}.
type RunLog struct {
	file *os.File
	log  *zap.Logger
}

func NewRunLog(path string) (*RunLog, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil && dir != "." {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.DebugLevel)
	return &RunLog{file: f, log: zap.New(core)}, nil
}

func (l *RunLog) Close() {
	if l == nil || l.file == nil {
		return
	}
	_ = l.log.Sync()
	_ = l.file.Close()
}

func (l *RunLog) Info(event string, fields map[string]interface{}) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info(event, zapFields(fields)...)
}

func (l *RunLog) Warn(event string, fields map[string]interface{}) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warn(event, zapFields(fields)...)
}

func zapFields(fields map[string]interface{}) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
