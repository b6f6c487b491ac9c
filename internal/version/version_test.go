package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestVersion_DefaultIsSemver(t *testing.T) {
	if _, err := semver.NewVersion(Version); err != nil {
		t.Fatalf("Version %q: %v", Version, err)
	}
}

func TestVersion_String(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"bare", "1.2.3", "", "", "hxslc 1.2.3"},
		{"commit is cut", "1.2.3", "1234567890abcdef1234", "", "hxslc 1.2.3, commit 1234567890ab"},
		{"all", "0.1.0-dev", "abc123", "2026-01-15", "hxslc 0.1.0-dev, commit abc123, built 2026-01-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
			if got := String(false); got != tt.want {
				t.Fatalf("String = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersion_ColoredKeepsUnparsable(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "nightly"
	if Colored() != "nightly" {
		t.Fatalf("Colored = %q", Colored())
	}
}
