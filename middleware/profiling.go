package middleware

import (
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"

	"github.com/duynhne/form-service/config"
)

var profiler *pyroscope.Profiler

// InitProfiling starts continuous profiling to Pyroscope
func InitProfiling(cfg *config.Config, logger *zap.Logger) error {
	var err error
	profiler, err = pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.Profiling.ServiceName,
		ServerAddress:   cfg.Profiling.Endpoint,
		Tags: map[string]string{
			"service": cfg.Service.Name,
			"version": cfg.Service.Version,
			"env":     cfg.Service.Env,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Logger: logger.Sugar(),
	})
	return err
}

// StopProfiling stops Pyroscope profiling
func StopProfiling() {
	if profiler != nil {
		_ = profiler.Stop()
	}
}
