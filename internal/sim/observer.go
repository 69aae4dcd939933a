package sim

import (
	"context"
	"log/slog"

	"github.com/san-kum/lifesim/internal/world"
)

// LogObserver logs tick statistics every N ticks.
type LogObserver struct {
	logger *slog.Logger
	every  uint64
}

func NewLogObserver(logger *slog.Logger, every int) *LogObserver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if every < 1 {
		every = 1
	}
	return &LogObserver{logger: logger, every: uint64(every)}
}

func (o *LogObserver) OnTick(v View, s world.TickStats) {
	if s.Tick%o.every != 0 {
		return
	}
	o.logger.LogAttrs(context.Background(), slog.LevelInfo, "tick", slog.Any("stats", s))
}
