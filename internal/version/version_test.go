package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { SetBuildInfo(oldVersion, oldCommit, oldDate) })
	SetBuildInfo(version, commit, date)
}

func TestGetInfo(t *testing.T) {
	withBuildInfo(t, "1.2.3", "abcdef1234567", "2025-01-02")

	info, err := GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, uint64(2), info.SemVer.Minor())
}

func TestGetInfo_InvalidVersion(t *testing.T) {
	withBuildInfo(t, "not-a-version", "unknown", "unknown")

	_, err := GetInfo()
	assert.Error(t, err)
	assert.Error(t, ValidateVersion())
	assert.Equal(t, "clish vnot-a-version (invalid version)", GetFormattedVersion())
}

func TestGetFormattedVersion(t *testing.T) {
	tests := []struct {
		name     string
		commit   string
		date     string
		expected string
	}{
		{"development build", "unknown", "unknown", "clish v0.3.0"},
		{"commit is shortened", "abcdef1234567", "unknown", "clish v0.3.0, commit abcdef1"},
		{"full build info", "abc", "2025-01-02", "clish v0.3.0, commit abc, built 2025-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, "0.3.0", tt.commit, tt.date)
			assert.Equal(t, tt.expected, GetFormattedVersion())
		})
	}
}

func TestGetDetailedVersion(t *testing.T) {
	withBuildInfo(t, "0.4.0-rc.1+build.7", "abc", "2025-01-02")

	detailed := GetDetailedVersion()
	assert.Contains(t, detailed, "clish v0.4.0-rc.1+build.7")
	assert.Contains(t, detailed, "Prerelease: rc.1")
	assert.Contains(t, detailed, "Build Metadata: build.7")
	assert.Contains(t, detailed, "Git Commit: abc")
}

func TestIsDevelopment(t *testing.T) {
	withBuildInfo(t, "0.1.0", "unknown", "unknown")
	assert.True(t, IsDevelopment())

	SetBuildInfo("0.1.0", "abc", "2025-01-02")
	assert.False(t, IsDevelopment())
}

func TestSatisfies(t *testing.T) {
	withBuildInfo(t, "0.5.2", "unknown", "unknown")

	tests := []struct {
		constraint string
		expected   bool
		wantErr    bool
	}{
		{">= 0.5", true, false},
		{"~0.5.0", true, false},
		{">= 0.1, < 0.5", false, false},
		{"^1.0", false, false},
		{"not a constraint", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			ok, err := Satisfies(tt.constraint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2   string
		expected int
	}{
		{"0.1.0", "0.2.0", -1},
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0-alpha", "1.0.0", -1},
	}

	for _, tt := range tests {
		t.Run(tt.v1+"_"+tt.v2, func(t *testing.T) {
			got, err := CompareVersions(tt.v1, tt.v2)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := CompareVersions("x", "1.0.0")
	assert.Error(t, err)
	_, err = CompareVersions("1.0.0", "y")
	assert.Error(t, err)
}
