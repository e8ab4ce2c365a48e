package buildinfo

// Set at link time, for example:
// go build -ldflags "-X github.com/gilby125/pelicans-place/pkg/buildinfo.Version=v1.2.3 -X github.com/gilby125/pelicans-place/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns the build metadata served by /api/v1/version.
func Info() map[string]string {
	return map[string]string{
		"name":    "pelicans-place",
		"version": Version,
		"commit":  Commit,
		"date":    Date,
	}
}
