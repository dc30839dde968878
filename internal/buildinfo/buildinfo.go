// Package buildinfo reports the version data stamped into a binary at link
// time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/petcare/internal/buildinfo.Version=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

const notAvailable = "N/A"

var (
	Version = notAvailable
	Date    = notAvailable
	Commit  = notAvailable
)

func value(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", value(Version))
	fmt.Fprintf(w, "Build date: %s\n", value(Date))
	fmt.Fprintf(w, "Build commit: %s\n", value(Commit))
}
