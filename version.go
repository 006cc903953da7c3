package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Info contains version and build information.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the current version information.
func Get() Info {
	info := Info{
		Version:   "unknown",
		Commit:    "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if buildInfo.Main.Version != "(devel)" && buildInfo.Main.Version != "" {
		info.Version = buildInfo.Main.Version
	}

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Commit = setting.Value
		case "vcs.time":
			info.BuildTime = setting.Value
		}
	}

	return info
}

// Print writes the version block shown by the version command.
func (i Info) Print(w io.Writer) {
	fmt.Fprintf(w, "githubprs version %s\n", i.Version)
	fmt.Fprintf(w, "Commit: %s\n", i.Commit)
	fmt.Fprintf(w, "Built: %s\n", i.BuildTime)
	fmt.Fprintf(w, "Go version: %s\n", i.GoVersion)
	fmt.Fprintf(w, "Platform: %s\n", i.Platform)
}
