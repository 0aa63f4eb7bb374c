package metadata

import (
	"regexp"
	"strings"

	"github.com/danthegoodman1/icefooter/utils"
)

type WriterVersion struct {
	Application string
	Version     string
	// Build is empty when the writer left out the build hash
	Build string
}

var createdByRe = regexp.MustCompile(`^(.+?)\s+version\s+([^\s(]+)(?:\s+\(build\s+([^)]*)\))?`)

// ParseCreatedBy splits a created_by string such as
// `parquet-mr version 1.8.0 (build 0fda28af84b9746396014ad6a415b90592a98b3b)`.
func ParseCreatedBy(createdBy string) (WriterVersion, bool) {
	m := createdByRe.FindStringSubmatch(strings.TrimSpace(createdBy))
	if m == nil {
		return WriterVersion{}, false
	}
	return WriterVersion{
		Application: m[1],
		Version:     m[2],
		Build:       m[3],
	}, true
}

func (wv WriterVersion) String() string {
	s := wv.Application + " version " + wv.Version
	if wv.Build != "" {
		s += " (build " + wv.Build + ")"
	}
	return s
}

// Before reports whether the writer's version is older than version. Pre-release
// suffixes such as `-SNAPSHOT` are ignored.
func (wv WriterVersion) Before(version string) (bool, error) {
	have, err := utils.VersionToInt(stripSuffix(wv.Version))
	if err != nil {
		return false, err
	}
	want, err := utils.VersionToInt(stripSuffix(version))
	if err != nil {
		return false, err
	}
	return have < want, nil
}

func stripSuffix(v string) string {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		return v[:i]
	}
	return v
}
