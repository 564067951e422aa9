package policies

import (
	"strings"

	"apt-warden/internal/types"
)

// TrustPolicy classifies package origins into trust tiers. Patterns are
// either exact archive labels ("Ubuntu") or prefix patterns ending in '*'
// ("LP-PPA-*"). Origins matching the trusted set are auto-approved; origins
// matching the official set are auto-approved unless the scan-official
// opt-in is set; everything else is scan-required.
type TrustPolicy struct {
	ScanOfficial bool

	trustedExact   map[string]struct{}
	trustedPrefix  []string
	officialExact  map[string]struct{}
	officialPrefix []string
}

// DefaultTrustConfig treats the usual distro archives as official. No
// origin is fully trusted unless the operator configures one.
func DefaultTrustConfig() types.TrustConfig {
	return types.TrustConfig{
		OfficialOrigins: []string{
			"Ubuntu",
			"Ubuntu:*",
			"Debian",
			"Debian:*",
			"Debian-Security",
		},
	}
}

func NewTrustPolicy(cfg types.TrustConfig, scanOfficial bool) TrustPolicy {
	policy := TrustPolicy{
		ScanOfficial:  scanOfficial,
		trustedExact:  map[string]struct{}{},
		officialExact: map[string]struct{}{},
	}
	policy.trustedPrefix = compilePatterns(cfg.TrustedOrigins, policy.trustedExact)
	policy.officialPrefix = compilePatterns(cfg.OfficialOrigins, policy.officialExact)
	return policy
}

func compilePatterns(patterns []string, exact map[string]struct{}) []string {
	var prefixes []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			prefixes = append(prefixes, strings.TrimSuffix(pattern, "*"))
			continue
		}
		exact[pattern] = struct{}{}
	}
	return prefixes
}

func matches(origin string, exact map[string]struct{}, prefixes []string) bool {
	if _, ok := exact[origin]; ok {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

// Classify returns the trust tier for a package origin.
func (p TrustPolicy) Classify(origin string) types.OriginTier {
	origin = strings.TrimSpace(origin)
	if matches(origin, p.trustedExact, p.trustedPrefix) {
		return types.OriginTierTrusted
	}
	if matches(origin, p.officialExact, p.officialPrefix) {
		if p.ScanOfficial {
			return types.OriginTierOfficialOptIn
		}
		return types.OriginTierTrusted
	}
	return types.OriginTierScanRequired
}

// NeedsScan reports whether a tier goes through the security review.
func NeedsScan(tier types.OriginTier) bool {
	return tier == types.OriginTierScanRequired || tier == types.OriginTierOfficialOptIn
}

// BuildTasks converts the inventory snapshot into classified package tasks,
// attaching the ordered source-variant rewrites the fetch adapter retries.
func (p TrustPolicy) BuildTasks(packages []types.UpgradablePackage) []types.PackageTask {
	tasks := make([]types.PackageTask, 0, len(packages))
	for _, pkg := range packages {
		tasks = append(tasks, types.PackageTask{
			Name:             pkg.Name,
			Origin:           pkg.Origin,
			Tier:             p.Classify(pkg.Origin),
			InstalledVersion: pkg.InstalledVersion,
			CandidateVersion: pkg.CandidateVersion,
			SourceVariants:   SourceVariants(pkg.Name),
		})
	}
	return tasks
}

// SourceVariants returns the ordered name rewrites tried when fetching a
// package's source: the name as-is, with any architecture qualifier
// stripped, and with common repackaging suffixes stripped.
func SourceVariants(name string) []string {
	seen := map[string]struct{}{}
	var variants []string
	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return
		}
		if _, ok := seen[candidate]; ok {
			return
		}
		seen[candidate] = struct{}{}
		variants = append(variants, candidate)
	}
	add(name)
	if idx := strings.Index(name, ":"); idx > 0 {
		add(name[:idx])
	}
	base := name
	if idx := strings.Index(base, ":"); idx > 0 {
		base = base[:idx]
	}
	for _, suffix := range []string{"-bin", "-git", "-dbgsym"} {
		if strings.HasSuffix(base, suffix) {
			add(strings.TrimSuffix(base, suffix))
		}
	}
	return variants
}
