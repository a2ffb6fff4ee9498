package main

import (
	"fmt"
	"regexp"
	"runtime/debug"
	"time"

	units "github.com/docker/go-units"
)

func filterRegex(ss []string, regex *regexp.Regexp) []string {
	if regex == nil {
		return ss
	}

	var matched []string
	for _, s := range ss {
		if regex.MatchString(s) {
			matched = append(matched, s)
		}
	}

	return matched
}

func getCommit() string {
	var commit, dirty string

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch {
			case setting.Key == "vcs.revision":
				commit = setting.Value
			case setting.Key == "vcs.modified":
				dirty = "-dirty"
			}
		}
	}

	return commit + dirty
}

func fmtAge(now time.Time, epoch int64) string {
	return units.HumanDuration(now.Sub(time.Unix(epoch, 0)))
}

func fmtDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	case d >= time.Millisecond:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}
