package app

import (
	"os"
	"time"

	"apt-warden/internal/adapters"
	"apt-warden/internal/ports"
	"apt-warden/internal/types"
)

// Service wires the collaborator ports together. All orchestration state is
// per-call; the service itself is safe to reuse across commands.
type Service struct {
	Inventory     ports.InventoryPort
	Fetch         ports.FetchPort
	Payload       ports.PayloadPort
	Oracle        ports.OraclePort
	Update        ports.UpdatePort
	SystemState   ports.SystemStatePort
	ReportWriter  ports.ReportWriterPort
	ReportReader  ports.ReportReaderPort
	FixPlanWriter ports.FixPlanWriterPort
	Runner        ports.CommandRunnerPort
	Confirm       ports.ConfirmPort
	Clock         func() time.Time
}

func NewService(cfg types.RunConfig) Service {
	return Service{
		Inventory:     adapters.NewAptInventoryAdapter(),
		Fetch:         adapters.NewSourceFetchAdapter(os.TempDir(), cfg.FetchTimeout),
		Payload:       adapters.NewPayloadAdapter(),
		Oracle:        adapters.NewOracleHTTPAdapter(cfg.OracleBaseURL, os.Getenv(cfg.OracleKeyEnv), cfg.OracleTimeout),
		Update:        adapters.NewAptUpdateAdapter(),
		SystemState:   adapters.NewSystemStateAdapter(),
		ReportWriter:  adapters.NewReportFileAdapter(cfg.ReportPath),
		ReportReader:  adapters.NewReportReaderAdapter(),
		FixPlanWriter: adapters.NewFixPlanFileAdapter(cfg.FixPlanPath),
		Runner:        adapters.NewShellRunnerAdapter(),
		Confirm:       adapters.NewStdinConfirmAdapter(),
		Clock:         time.Now,
	}
}
