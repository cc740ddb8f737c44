//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of tjlang, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It also names the configuration and cache
	// directories.
	Name = "tjlang"
	// Description is the one-line summary shown in help output.
	Description = "Interpreter and toolchain for the TJLang scripting language"
	// Extension is the conventional file extension of TJLang sources.
	Extension = ".tj"
)

// AuthorInfo names a project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
