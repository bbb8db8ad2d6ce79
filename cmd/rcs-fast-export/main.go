// Command rcs-fast-export converts RCS ",v" files into a git fast-import
// stream on standard output (the driver, component I).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"gitlab.com/esr/rcs-fast-export/internal/export"
	"gitlab.com/esr/rcs-fast-export/internal/ident"
	"gitlab.com/esr/rcs-fast-export/internal/markset"
	"gitlab.com/esr/rcs-fast-export/internal/rcs"
	"gitlab.com/esr/rcs-fast-export/internal/rcslog"
	"gitlab.com/esr/rcs-fast-export/internal/walk"
)

// identityAdapter satisfies export.IdentityResolver over an *ident.Map,
// converting between the two packages' near-identical identity structs so
// internal/export doesn't need to import internal/ident (external glue).
type identityAdapter struct{ m *ident.Map }

func (a identityAdapter) Resolve(username string) export.Ident {
	id := a.m.Resolve(username)
	return export.Ident{Name: id.Name, Email: id.Email}
}

// stringList implements flag.Value for a repeatable -ignore flag.
type stringList []string

func (s *stringList) String() string {
	return fmt.Sprint([]string(*s))
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var (
		authorsFile       string
		fuzz              int
		symbolCheck       bool
		tagEachRev        bool
		logFilename       bool
		authorIsCommitter bool
		warnMissing       bool
		skipBranches      bool
		expandKeywords    bool
		encoding          string
		ignoreList        stringList
	)

	flag.StringVar(&authorsFile, "authors", "", "authors-map file (login = Full Name <email>)")
	flag.IntVar(&fuzz, "fuzz", 300, "commit-coalescing fuzz window in seconds")
	flag.BoolVar(&symbolCheck, "symbol-check", true, "fatal-downgrade-to-warning on symbol-set disagreement during coalescing")
	flag.BoolVar(&tagEachRev, "tag-each-rev", false, "emit an extra tag per revision id")
	flag.BoolVar(&logFilename, "log-filename", false, "prefix each single-file commit's log with its filename")
	flag.BoolVar(&authorIsCommitter, "author-is-committer", false, "use the author identity as committer instead of the host identity")
	flag.BoolVar(&warnMissing, "warn-missing-authors", false, "warn when a username has no authors-map entry")
	flag.BoolVar(&skipBranches, "skip-branches", false, "drop branched revisions instead of refusing multi-file export")
	flag.BoolVar(&expandKeywords, "expand-keywords", false, "reconstruct text via external co instead of delta replay")
	flag.StringVar(&encoding, "encoding", "", "IANA charset name for log/description text (default: UTF-8 sniff, Latin-1 fallback)")
	flag.Var(&ignoreList, "ignore", "glob pattern to exclude during directory walk (repeatable)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: rcs-fast-export [flags] file-or-directory...")
		os.Exit(1)
	}

	var authors *ident.Map
	if authorsFile != "" {
		m, err := ident.LoadMap(authorsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rcs-fast-export: %v\n", err)
			os.Exit(1)
		}
		authors = m
	}
	identities := identityAdapter{m: authors}
	host := ident.HostIdentity()

	paths, missing := walk.Discover(flag.Args(), ignoreList)
	exitCode := 0
	for _, arg := range missing {
		fmt.Fprintf(os.Stderr, "rcs-fast-export: %s: not found or unreadable\n", arg)
		exitCode |= 1
	}

	marks := markset.New()
	out := bufio.NewWriter(os.Stdout)
	writer := export.NewWriter(out)

	rcsFiles, parseExit, fatal := parseAll(paths, marks, writer, expandKeywords, encoding, warnMissing, authors)
	exitCode |= parseExit
	if fatal != nil {
		fmt.Fprintf(os.Stderr, "rcs-fast-export: %v\n", fatal)
		out.Flush()
		os.Exit(2)
	}

	singleOpts := export.Options{
		TagEachRev:        tagEachRev,
		LogFilename:       logFilename,
		AuthorAsCommitter: authorIsCommitter,
		HostCommitter:     export.Ident{Name: host.Name, Email: host.Email},
	}

	if len(rcsFiles) == 1 {
		if err := export.ExportSingle(rcsFiles[0], marks, identities, singleOpts, writer); err != nil {
			fmt.Fprintf(os.Stderr, "rcs-fast-export: %v\n", err)
			out.Flush()
			os.Exit(2)
		}
		out.Flush()
		os.Exit(exitCode)
	}

	candidates, err := export.BuildCandidates(rcsFiles, export.CoalesceOptions{SkipBranches: skipBranches})
	if err != nil {
		fmt.Fprintf(os.Stderr, "rcs-fast-export: %v\n", err)
		out.Flush()
		os.Exit(2)
	}
	merged := export.Coalesce(candidates, export.CoalesceOptions{
		Fuzz:         time.Duration(fuzz) * time.Second,
		SymbolCheck:  symbolCheck,
		SkipBranches: skipBranches,
	})
	if err := export.ExportMulti(merged, marks, identities, writer); err != nil {
		fmt.Fprintf(os.Stderr, "rcs-fast-export: %v\n", err)
		out.Flush()
		os.Exit(2)
	}
	out.Flush()
	os.Exit(exitCode)
}

// parseAll reads and parses every discovered ,v file, emitting blobs to
// writer as each revision's text is reconstructed (spec.md section 4,
// "Blobs are emitted eagerly during parsing"). A file that cannot be
// opened is reported and skipped (spec.md section 7, kind 8); a file that
// fails to parse is fatal (kind 1-5, rethrown with filename/line context).
func parseAll(paths []string, marks *markset.Registry, writer *export.Writer, expandKeywords bool, encoding string, warnMissing bool, authors *ident.Map) ([]*rcs.RcsFile, int, error) {
	exitCode := 0
	var files []*rcs.RcsFile

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rcs-fast-export: %v\n", err)
			exitCode |= 1
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rcs-fast-export: %v\n", err)
			exitCode |= 1
			continue
		}

		filename := walk.LogicalName(path)
		opts := rcs.Options{ExpandKeywords: expandKeywords, RCSPath: path}
		file, err := rcs.Parse(data, filename, opts, marks, writer)
		if err != nil {
			return nil, exitCode, err
		}
		file.Executable = info.Mode()&0o111 != 0

		if err := rcs.ResolveBranches(file); err != nil {
			return nil, exitCode, err
		}
		if err := rcs.Transcode(file, encoding); err != nil {
			return nil, exitCode, err
		}
		if warnMissing {
			warnMissingAuthors(file, authors)
		}
		files = append(files, file)
	}
	return files, exitCode, nil
}

func warnMissingAuthors(file *rcs.RcsFile, authors *ident.Map) {
	if authors == nil {
		return
	}
	seen := map[string]bool{}
	for _, id := range file.SortedIDs() {
		author := file.Revisions[id].Author
		if seen[author] {
			continue
		}
		seen[author] = true
		if resolved := authors.Resolve(author); resolved.Email == "" {
			rcslog.Warn("%s: no authors-map entry for %q", file.Filename, author)
		}
	}
}
