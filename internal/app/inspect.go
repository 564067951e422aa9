package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Inspect reads a report artifact back for audit replay.
func (s Service) Inspect(path string) (InspectResult, error) {
	if strings.TrimSpace(path) == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is required")
	}
	report, err := s.ReportReader.ReadReport(path)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{Report: report}, nil
}
