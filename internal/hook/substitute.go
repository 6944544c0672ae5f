package hook

import (
	"strings"

	"github.com/frgrisk/cog/internal/version"
)

// Vars is the hook substitution scope of §4.9: {latest, version, package?}.
// When HasLatest is false (first bump), every {{latest*}} placeholder
// substitutes an empty string, which the hook command must tolerate.
type Vars struct {
	HasLatest bool
	Latest    version.SemVer
	Version   version.SemVer
	Package   string
}

// Substitute expands {{latest}}, {{latest.major|minor|patch|pre|build}},
// {{version}}, {{version.*}}, {{package}} in command.
func Substitute(command string, vars Vars) string {
	r := strings.NewReplacer(
		"{{latest}}", latestField(vars, ""),
		"{{latest.major}}", latestField(vars, "major"),
		"{{latest.minor}}", latestField(vars, "minor"),
		"{{latest.patch}}", latestField(vars, "patch"),
		"{{latest.pre}}", latestField(vars, "pre"),
		"{{latest.build}}", latestField(vars, "build"),
		"{{version}}", versionField(vars.Version, ""),
		"{{version.major}}", versionField(vars.Version, "major"),
		"{{version.minor}}", versionField(vars.Version, "minor"),
		"{{version.patch}}", versionField(vars.Version, "patch"),
		"{{version.pre}}", versionField(vars.Version, "pre"),
		"{{version.build}}", versionField(vars.Version, "build"),
		"{{package}}", vars.Package,
	)
	return r.Replace(command)
}

func latestField(vars Vars, field string) string {
	if !vars.HasLatest {
		return ""
	}
	return versionField(vars.Latest, field)
}

func versionField(v version.SemVer, field string) string {
	switch field {
	case "major":
		return version.FormatUint(v.Major)
	case "minor":
		return version.FormatUint(v.Minor)
	case "patch":
		return version.FormatUint(v.Patch)
	case "pre":
		return strings.Join(v.Pre, ".")
	case "build":
		return strings.Join(v.Build, ".")
	default:
		return v.String()
	}
}
