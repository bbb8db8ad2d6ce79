// Package ident resolves RCS usernames to git "Name <email>" identities:
// an authors-map file first, falling back to the bare username (spec.md
// section 6, "Identity"), and separately discovers the host's own identity
// for the committer field when no author-as-committer override is set.
package ident

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// Identity mirrors internal/export.Ident without importing that package,
// avoiding a dependency edge from glue code back into the core; the driver
// wires the two together since both are plain structs.
type Identity struct {
	Name  string
	Email string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// Map is a parsed authors-map: RCS login -> Identity.
type Map struct {
	byLogin map[string]Identity
}

var mapLineRE = regexp.MustCompile(`^(\S+)\s*=\s*([^<]*)<([^>]*)>\s*$`)

// LoadMap reads a "login = Full Name <email>" file, one mapping per line;
// blank lines and lines starting with '#' are skipped (spec.md's CLI
// surface, "authors-map file", elaborated in SPEC_FULL.md section 4.I).
func LoadMap(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Map{byLogin: make(map[string]Identity)}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		match := mapLineRE.FindStringSubmatch(line)
		if match == nil {
			return nil, fmt.Errorf("%s:%d: malformed authors-map entry %q", path, lineNo, line)
		}
		login := match[1]
		name := strings.TrimSpace(match[2])
		email := strings.TrimSpace(match[3])
		m.byLogin[login] = Identity{Name: name, Email: email}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Resolve returns the mapped identity for username, or the fallback
// "<username> <>" if the map has no entry (spec.md section 6).
func (m *Map) Resolve(username string) Identity {
	if m != nil {
		if id, ok := m.byLogin[username]; ok {
			return id
		}
	}
	return Identity{Name: username, Email: ""}
}

// HostIdentity discovers the committer identity the way `git var
// GIT_AUTHOR_IDENT` would report it: environment variables first, then
// `git config` (global or repository), falling back to the current OS user
// (spec.md section 4.F, "obtained from the host identity").
func HostIdentity() Identity {
	name := os.Getenv("GIT_AUTHOR_NAME")
	email := os.Getenv("GIT_AUTHOR_EMAIL")
	if name == "" {
		name = gitConfigValue("user.name")
	}
	if email == "" {
		email = gitConfigValue("user.email")
	}
	if name == "" {
		name = os.Getenv("USER")
	}
	return Identity{Name: name, Email: email}
}

func gitConfigValue(key string) string {
	out, err := exec.Command("git", "config", "--get", key).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

