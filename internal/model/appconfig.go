package model

import "time"

// AppConfig holds run defaults shared by the command-line tools.
type AppConfig struct {
	TimeLimitMs int    `json:"time_limit_ms"` // wall-clock budget per run
	Rounds      int    `json:"rounds"`        // 0 = use the time limit; >0 = fixed, reproducible budget
	Seed        uint64 `json:"seed"`
	Restarts    int    `json:"restarts"` // independent runs, best one kept
	Workers     int    `json:"workers"`  // 0 = GOMAXPROCS
	IndexDepth  int    `json:"index_depth"`
	ParamsPath  string `json:"params_path"` // optional parameter file
	LogLevel    string `json:"log_level"`   // "debug", "info", "warn", "error"
}

// DefaultAppConfig returns the defaults matching the contest setup: one run
// of just under five seconds.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		TimeLimitMs: 4950,
		Rounds:      0,
		Seed:        1,
		Restarts:    1,
		Workers:     0,
		IndexDepth:  2,
		LogLevel:    "info",
	}
}

// TimeLimit returns the wall-clock budget as a duration.
func (c AppConfig) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMs) * time.Millisecond
}
