package srctl

// Version information for srctl.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/srctl.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "srctl"

	// Description is a short description of the application.
	Description = "Source comment translator for C-family source files"

	// Version is the semantic version of the application.
	Version = "1.0.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/srctl"

	// License is the software license.
	License = "MIT"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit hash when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns a user agent string for HTTP requests.
func UserAgent() string {
	return Name + "/" + Version
}
