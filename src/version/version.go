package version

// Version is the static-deploy release string, overridden at build time
// with -ldflags "-X static-deploy/src/version.Version=...".
var Version = "0.3.0-dev"
