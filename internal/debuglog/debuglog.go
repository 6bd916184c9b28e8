// Package debuglog provides the per-category debug log files (tcp, http,
// binary). Each category writes to its own rotating file; disabled
// categories log to a discard handler so call sites never branch.
package debuglog

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/saddleworks/rccemu/internal/config"
)

// MaxBinaryDump caps the number of payload bytes included in a binary log
// entry. Catalogue pushes run to several hundred bytes; anything larger is
// truncated.
const MaxBinaryDump = 1000

// Logs bundles the three category loggers.
type Logs struct {
	TCP    *slog.Logger
	HTTP   *slog.Logger
	Binary *slog.Logger
}

// New builds the category loggers from config. Files are created lazily on
// first write, rotated at 10 MB with 5 backups kept.
func New(cfg config.DebugConfig) *Logs {
	return &Logs{
		TCP:    category(cfg.TCP, cfg.Dir, "debug_tcp.log"),
		HTTP:   category(cfg.HTTP, cfg.Dir, "debug_http.log"),
		Binary: category(cfg.Binary, cfg.Dir, "debug_binary.log"),
	}
}

func category(enabled bool, dir, file string) *slog.Logger {
	if !enabled {
		return slog.New(slog.DiscardHandler)
	}
	out := &lumberjack.Logger{
		Filename:   filepath.Join(dir, file),
		MaxSize:    10, // MB
		MaxBackups: 5,
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// DumpBinary logs a hex dump of data, truncated to MaxBinaryDump bytes.
// direction is "INCOMING" or "OUTGOING".
func (l *Logs) DumpBinary(direction, clientID, description string, data []byte) {
	dump := data
	truncated := false
	if len(dump) > MaxBinaryDump {
		dump = dump[:MaxBinaryDump]
		truncated = true
	}

	l.Binary.Debug(description,
		"direction", direction,
		"client", clientID,
		"size", len(data),
		"truncated", truncated,
		"hex", hex.EncodeToString(dump),
	)
}

// Dump formats data as a capped hex string for inline use in messages.
func Dump(data []byte) string {
	if len(data) > MaxBinaryDump {
		return fmt.Sprintf("%x… (%d bytes)", data[:MaxBinaryDump], len(data))
	}
	return hex.EncodeToString(data)
}
