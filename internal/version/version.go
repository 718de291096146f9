package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/sclorg/container-common-scripts/internal/version.Version=<version>
	Commit  = "unknown" // -X github.com/sclorg/container-common-scripts/internal/version.Commit=<commit>
	Date    = "unknown" // -X github.com/sclorg/container-common-scripts/internal/version.Date=<date>
)
