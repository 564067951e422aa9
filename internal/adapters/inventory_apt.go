package adapters

import (
	"context"
	"os/exec"
	"regexp"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"apt-warden/internal/ports"
	"apt-warden/internal/shared"
	"apt-warden/internal/types"
)

// AptInventoryAdapter lists pending updates by parsing a simulated
// `apt-get upgrade`. The simulation output carries the candidate's archive
// origin label, which is what the trust policy classifies on.
type AptInventoryAdapter struct {
	// Runner is swappable for tests; defaults to apt-get.
	Runner func(ctx context.Context) ([]byte, error)
}

func NewAptInventoryAdapter() AptInventoryAdapter {
	return AptInventoryAdapter{Runner: runAptUpgradeSimulation}
}

func runAptUpgradeSimulation(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "apt-get", "--simulate", "--quiet", "upgrade")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, shared.CommandError(output, err)
	}
	return output, nil
}

func (a AptInventoryAdapter) ListUpgradable(ctx context.Context) ([]types.UpgradablePackage, error) {
	output, err := a.Runner(ctx)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeUnavailable).
			WithMsg("failed to query package manager for pending updates").
			WithCause(err)
	}
	packages := ParseUpgradeSimulation(string(output))
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	return packages, nil
}

// instLine matches apt-get simulation lines of the form
//
//	Inst vim [2:8.2-1] (2:8.2-2 Ubuntu:24.04/noble-updates [amd64])
//
// capturing name, installed version, candidate version and the first origin
// token.
var instLine = regexp.MustCompile(`^Inst\s+(\S+)\s+\[([^\]]+)\]\s+\(([^\s]+)\s+([^\s,\)]+)`)

// ParseUpgradeSimulation extracts the upgradable package rows from apt-get
// simulation output. Rows whose candidate version does not actually sort
// above the installed version are dropped with a warning; a malformed line
// never fails the whole inventory.
func ParseUpgradeSimulation(output string) []types.UpgradablePackage {
	var packages []types.UpgradablePackage
	for _, line := range strings.Split(output, "\n") {
		match := instLine.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		pkg := types.UpgradablePackage{
			Name:             match[1],
			InstalledVersion: match[2],
			CandidateVersion: match[3],
			Origin:           match[4],
		}
		if !candidateIsNewer(pkg.InstalledVersion, pkg.CandidateVersion) {
			log.Warn().
				Str("package", pkg.Name).
				Str("installed", pkg.InstalledVersion).
				Str("candidate", pkg.CandidateVersion).
				Msg("candidate version does not upgrade installed version, skipping")
			continue
		}
		packages = append(packages, pkg)
	}
	return packages
}

// candidateIsNewer compares two Debian versions. Unparseable versions are
// let through; the scan decides what to do with the package, not version
// cosmetics.
func candidateIsNewer(installed string, candidate string) bool {
	current, err := debversion.NewVersion(installed)
	if err != nil {
		return true
	}
	next, err := debversion.NewVersion(candidate)
	if err != nil {
		return true
	}
	return next.GreaterThan(current)
}

var _ ports.InventoryPort = AptInventoryAdapter{}
