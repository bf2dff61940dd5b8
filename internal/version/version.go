// Package version holds tacc's own build/version identity and the
// pragma-constraint check the driver runs against a source file before
// compiling it, mirroring Orizon's internal/cli version helpers
// (cli.VersionInfo, cli.PrintVersion) repointed at a compiler version
// instead of a package version.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/tacc-project/tacc/internal/errs"
)

// Build identity. BuildDate and CommitSHA are placeholders the way the
// teacher's own cli.BuildDate/CommitSHA are — overwritten by a real build
// pipeline's -ldflags, never by hand here.
var (
	VersionString = "0.1.0"
	BuildDate     = "unknown"
	CommitSHA     = "unknown"
)

// Version is tacc's own version, parsed once so pragma constraints can be
// checked against it.
var Version = mustParseVersion(VersionString)

func mustParseVersion(v string) *semver.Version {
	sv, err := semver.NewVersion(v)
	if err != nil {
		panic(err)
	}
	return sv
}

// Info is the structured form printed by -version/-json, the same shape
// as the teacher's VersionInfo.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// Get returns the current build's Info.
func Get() Info {
	return Info{
		Version:   VersionString,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Print writes Info for tool either as JSON or as the plain-text block
// the teacher's cli.PrintVersion produces.
func Print(tool string, asJSON bool) string {
	info := Get()
	if asJSON {
		data, err := json.MarshalIndent(map[string]any{
			"tool":         tool,
			"version_info": info,
		}, "", "  ")
		if err == nil {
			return string(data) + "\n"
		}
	}
	return fmt.Sprintf("%s v%s\nBuild Date: %s\nGo Version: %s\nPlatform: %s/%s\n",
		tool, info.Version, info.BuildDate, info.GoVersion, info.Platform, info.Arch)
}

// pragmaPrefix is the leading comment text a source file may open with to
// constrain which tacc versions may compile it: "// requires <constraint>".
const pragmaPrefix = "// requires "

// CheckPragma inspects the first line of src for a version-constraint
// pragma and, if present, verifies Version satisfies it, grounded on the
// teacher's dependency-constraint checking in
// cmd/orizon/pkg/commands/outdated.go (semver.NewConstraint +
// constraint.Check(version)), here applied to the compiler's own version
// rather than a fetched package's.
func CheckPragma(src string) error {
	line := firstLine(src)
	if !hasPrefix(line, pragmaPrefix) {
		return nil
	}
	raw := line[len(pragmaPrefix):]

	constraint, err := semver.NewConstraint(raw)
	if err != nil {
		return errs.New(errs.SyntaxError, "malformed version pragma", "pragma", raw, "error", err.Error())
	}
	if !constraint.Check(Version) {
		return errs.New(errs.VersionMismatch, "source requires a tacc version this build does not satisfy",
			"constraint", raw, "compiler_version", VersionString)
	}
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
