package version

// Version components
const (
	Maj = "0"
	Min = "3"
	Fix = "0"

	// StateVer is bumped whenever the layout of the state tree changes.
	StateVer = 1
)

var (
	// Must be a string because scripts like dist.sh read this file.
	Version = Maj + "." + Min + "." + Fix

	// GitCommit is the current HEAD set using ldflags.
	GitCommit string
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}
