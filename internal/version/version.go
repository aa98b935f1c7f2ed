package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/tally"

// buildVersion is set via -ldflags "-X pkt.systems/tally/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running binary.
type Info struct {
	Module    string    `json:"module"`
	Version   string    `json:"version"`
	Revision  string    `json:"revision,omitempty"`
	Time      time.Time `json:"time,omitzero"`
	Modified  bool      `json:"modified,omitempty"`
	GoVersion string    `json:"go_version,omitempty"`
}

// Read collects version information from the build.
func Read() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		info = nil
	}
	return fromBuildInfo(info)
}

// Current returns the best available version string.
func Current() string {
	return Read().Version
}

// String renders "module version".
func (i Info) String() string {
	return i.Module + " " + i.Version
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{Module: defaultModule, Version: "v0.0.0-unknown"}
	if info == nil {
		if v := strings.TrimSpace(buildVersion); v != "" {
			out.Version = v
		}
		return out
	}
	if path := strings.TrimSpace(info.Main.Path); path != "" {
		out.Module = path
	}
	out.GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.Revision = setting.Value
		case "vcs.time":
			if parsed, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				out.Time = parsed.UTC()
			}
		case "vcs.modified":
			out.Modified = setting.Value == "true"
		}
	}
	switch {
	case strings.TrimSpace(buildVersion) != "":
		out.Version = strings.TrimSpace(buildVersion)
	case info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = strings.TrimSuffix(info.Main.Version, "+dirty")
	case out.Revision != "" && !out.Time.IsZero():
		rev := out.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		out.Version = "v0.0.0-" + out.Time.Format("20060102150405") + "-" + rev
	}
	return out
}
