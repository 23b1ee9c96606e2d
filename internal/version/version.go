// Package version holds the build-time version variables for the s3lock
// binaries. Local builds keep the zero values ("dev", "none", "unknown");
// release builds inject real values via -ldflags.
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the formatted version string printed by s3lock version.
func Info() string {
	return fmt.Sprintf(
		"s3lock version %s\ncommit: %s\nbuilt: %s\n",
		Version,
		Commit,
		Date,
	)
}
