package version

// Set by -ldflags "-X github.com/sagan/laras/version.Version=..." at release time.
var Version = "v0.1.0-dev"
