// Package walk discovers RCS ",v" files under file or directory arguments,
// the directory-traversal glue spec.md section 1 scopes out of the core but
// SPEC_FULL.md's driver still needs to run at all.
package walk

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover expands args (a mix of plain ",v" files and directories) into a
// sorted, deduplicated list of ",v" file paths, skipping any path whose
// base name matches one of the ignore glob patterns (grounded on
// filepath.Walk's use in the teacher's cutter/repocutter.go
// emitNodeAddRecords).
//
// An argument that cannot be stat'd or walked is reported in missing rather
// than aborting the whole call: spec.md section 7 kind 8 requires a
// file-not-found/unreadable input to set exit bit 0 while processing
// continues for the rest of the arguments, the same contract parseAll
// applies to a ,v file it fails to read.
func Discover(args []string, ignore []string) (paths []string, missing []string) {
	seen := make(map[string]bool)
	var out []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		if ignored(filepath.Base(path), ignore) {
			return
		}
		seen[abs] = true
		out = append(out, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			missing = append(missing, arg)
			continue
		}
		if !info.IsDir() {
			if strings.HasSuffix(arg, ",v") {
				add(arg)
			}
			continue
		}
		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if !strings.HasSuffix(path, ",v") {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			missing = append(missing, arg)
			continue
		}
	}

	sort.Strings(out)
	return out, missing
}

func ignored(base string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, err := filepath.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return false
}

// LogicalName derives the exported filename from an on-disk ,v path: the
// "RCS/" directory component and the ",v" suffix are both stripped, since
// neither appears in the working-tree filename the importer will create
// (rcsfile(5)'s standard layout).
func LogicalName(rcsPath string) string {
	name := strings.TrimSuffix(filepath.Base(rcsPath), ",v")
	dir := filepath.Dir(rcsPath)
	if filepath.Base(dir) == "RCS" {
		dir = filepath.Dir(dir)
	}
	if dir == "." {
		return name
	}
	return filepath.Join(dir, name)
}
