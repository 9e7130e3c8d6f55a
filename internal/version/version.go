package version

// Version is overridden at build time with -ldflags "-X pfmi3dsc/internal/version.Version=...".
var Version = "dev"
