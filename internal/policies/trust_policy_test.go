package policies

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"apt-warden/internal/types"
)

func TestClassifyTiers(t *testing.T) {
	cfg := types.TrustConfig{
		TrustedOrigins:  []string{"internal-mirror", "corp-*"},
		OfficialOrigins: []string{"Ubuntu", "Ubuntu:*"},
	}
	policy := NewTrustPolicy(cfg, false)

	assert.Equal(t, types.OriginTierTrusted, policy.Classify("internal-mirror"))
	assert.Equal(t, types.OriginTierTrusted, policy.Classify("corp-staging"))
	assert.Equal(t, types.OriginTierTrusted, policy.Classify("Ubuntu:24.04/noble-updates"))
	assert.Equal(t, types.OriginTierScanRequired, policy.Classify("LP-PPA-someone"))
	assert.Equal(t, types.OriginTierScanRequired, policy.Classify(""))
}

func TestClassifyScanOfficialOptIn(t *testing.T) {
	policy := NewTrustPolicy(DefaultTrustConfig(), true)
	assert.Equal(t, types.OriginTierOfficialOptIn, policy.Classify("Ubuntu"))
	assert.Equal(t, types.OriginTierOfficialOptIn, policy.Classify("Debian-Security"))
	assert.Equal(t, types.OriginTierScanRequired, policy.Classify("random-repo"))
}

func TestTrustedWinsOverOfficial(t *testing.T) {
	cfg := types.TrustConfig{
		TrustedOrigins:  []string{"Ubuntu"},
		OfficialOrigins: []string{"Ubuntu"},
	}
	policy := NewTrustPolicy(cfg, true)
	assert.Equal(t, types.OriginTierTrusted, policy.Classify("Ubuntu"))
}

func TestNeedsScan(t *testing.T) {
	assert.False(t, NeedsScan(types.OriginTierTrusted))
	assert.True(t, NeedsScan(types.OriginTierScanRequired))
	assert.True(t, NeedsScan(types.OriginTierOfficialOptIn))
}

func TestBuildTasks(t *testing.T) {
	policy := NewTrustPolicy(DefaultTrustConfig(), false)
	packages := []types.UpgradablePackage{
		{Name: "curl", Origin: "Ubuntu:24.04/noble-updates", InstalledVersion: "8.5.0-2", CandidateVersion: "8.5.0-3"},
		{Name: "some-tool", Origin: "LP-PPA-author", InstalledVersion: "1.0", CandidateVersion: "1.1"},
	}
	tasks := policy.BuildTasks(packages)

	expected := []types.PackageTask{
		{
			Name:             "curl",
			Origin:           "Ubuntu:24.04/noble-updates",
			Tier:             types.OriginTierTrusted,
			InstalledVersion: "8.5.0-2",
			CandidateVersion: "8.5.0-3",
			SourceVariants:   []string{"curl"},
		},
		{
			Name:             "some-tool",
			Origin:           "LP-PPA-author",
			Tier:             types.OriginTierScanRequired,
			InstalledVersion: "1.0",
			CandidateVersion: "1.1",
			SourceVariants:   []string{"some-tool"},
		},
	}
	if diff := cmp.Diff(expected, tasks); diff != "" {
		t.Fatalf("unexpected tasks (-want +got):\n%s", diff)
	}
}

func TestSourceVariants(t *testing.T) {
	cases := []struct {
		name string
		want []string
	}{
		{"curl", []string{"curl"}},
		{"libc6:amd64", []string{"libc6:amd64", "libc6"}},
		{"tool-bin", []string{"tool-bin", "tool"}},
		{"editor-git:i386", []string{"editor-git:i386", "editor-git", "editor"}},
		{"app-dbgsym", []string{"app-dbgsym", "app"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SourceVariants(tc.name), "name %s", tc.name)
	}
}
