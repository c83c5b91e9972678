package config

// Build information, set with -ldflags at release time
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records the build information printed by `fundme version`
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
