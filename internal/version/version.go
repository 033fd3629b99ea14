package version

// Version is the build version, overridden at link time via -ldflags.
var Version = "dev"
