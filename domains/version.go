package domains

import "runtime/debug"

// version is set at release time:
// -ldflags "-X github.com/lex00/wetwire-domains-go/domains.version=v1.0.0"
var version = ""

// Version prefers the ldflags version, then the module version recorded
// by "go install @version", and falls back to "dev".
func Version() string {
	if version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}

	return "dev"
}
