package world

import "log/slog"

// TickStats summarizes one call to Step.
type TickStats struct {
	Tick       uint64 `csv:"tick" json:"tick"`
	Atoms      int    `csv:"atoms" json:"atoms"`
	Bonds      int    `csv:"bonds" json:"bonds"`
	Contacts   int    `csv:"contacts" json:"contacts"`
	Combines   int    `csv:"combines" json:"combines"`
	Excites    int    `csv:"excites" json:"excites"`
	Decomposes int    `csv:"decomposes" json:"decomposes"`
	Overlaps   int    `csv:"overlaps" json:"overlaps"` // still overlapping after the last pass
}

// Reactions is the number of rules that fired during the tick.
func (s TickStats) Reactions() int {
	return s.Combines + s.Excites + s.Decomposes
}

// LogValue implements slog.LogValuer for structured logging.
func (s TickStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Int("atoms", s.Atoms),
		slog.Int("bonds", s.Bonds),
		slog.Int("contacts", s.Contacts),
		slog.Int("combines", s.Combines),
		slog.Int("excites", s.Excites),
		slog.Int("decomposes", s.Decomposes),
		slog.Int("overlaps", s.Overlaps),
	)
}
