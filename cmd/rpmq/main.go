// rpmq queries a local package-metadata database.
//
// Usage:
//
//	rpmq [flags] <key>          Find packages whose field matches key exactly
//	rpmq -a                     List every package in the database
//	rpmq --repl                 Interactive query shell
//
// Flags:
//
//	-c, --config   Explicit config file path
//	-i, --index    Field to search: name, version, license, summary,
//	               description (default: name)
//	-a, --all      List all packages
//	-l, --long     Show summary and license alongside each package
//
// REPL commands:
//
//	find <index> <key>    Exact-match search on a field
//	all                   List every package
//	info                  Show database info
//	help                  Show this help
//	exit / quit / q       Exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/rpmq"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rpmq", flag.ContinueOnError)

	configPath := fs.StringP("config", "c", "", "explicit config file path")
	indexName := fs.StringP("index", "i", "name", "field to search (name, version, license, summary, description)")
	all := fs.BoolP("all", "a", false, "list all packages")
	long := fs.BoolP("long", "l", false, "show summary and license")
	repl := fs.Bool("repl", false, "interactive query shell")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: rpmq [flags] <key>")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}

	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	db, err := rpmq.Open(rpmq.Options{Config: *configPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpmq: %v\n", err)

		return 1
	}

	defer func() { _ = db.Close() }()

	if *repl {
		r := &shell{db: db}

		runErr := r.run()
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "rpmq: %v\n", runErr)

			return 1
		}

		return 0
	}

	if *all {
		return printPackages(rpmq.InstalledPackages(), *long)
	}

	if fs.NArg() < 1 {
		fs.Usage()

		return 2
	}

	index, err := parseIndex(*indexName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpmq: %v\n", err)

		return 2
	}

	return printPackages(index.Find(fs.Arg(0)), *long)
}

// parseIndex maps a flag value to an Index.
func parseIndex(name string) (rpmq.Index, error) {
	switch strings.ToLower(name) {
	case "name":
		return rpmq.Name, nil
	case "version":
		return rpmq.Version, nil
	case "license":
		return rpmq.License, nil
	case "summary":
		return rpmq.Summary, nil
	case "description":
		return rpmq.Description, nil
	default:
		return 0, fmt.Errorf("unknown index %q (want name, version, license, summary or description)", name)
	}
}

// printPackages drains the iterator to stdout and reports scan errors.
func printPackages(it *rpmq.Iter, long bool) int {
	defer func() { _ = it.Close() }()

	count := 0

	for it.Next() {
		pkg := it.Package()
		count++

		if long {
			fmt.Printf("%-44s %-16s %s\n", pkg, pkg.License, pkg.Summary)
		} else {
			fmt.Println(pkg)
		}
	}

	if err := it.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "rpmq: %v\n", err)

		return 1
	}

	if count == 0 {
		fmt.Fprintln(os.Stderr, "no matches")
	}

	return 0
}

// shell is the interactive query loop.
type shell struct {
	db    *rpmq.Db
	liner *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".rpmq_history")
}

func (s *shell) run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(func(line string) []string {
		var out []string

		for _, cmd := range []string{"find ", "all", "info", "help", "exit", "quit"} {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				out = append(out, cmd)
			}
		}

		return out
	})

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = s.liner.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Printf("rpmq - package query shell (db=%s)\n", s.db.DBPath())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := s.liner.Prompt("rpmq> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		cmdArgs := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")

			s.saveHistory()

			return nil

		case "help", "?":
			s.printHelp()

		case "find":
			s.cmdFind(cmdArgs)

		case "all", "ls", "list":
			printPackages(rpmq.InstalledPackages(), true)

		case "info":
			fmt.Printf("database: %s\n", s.db.DBPath())

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	s.saveHistory()

	return nil
}

func (s *shell) cmdFind(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: find <index> <key>")

		return
	}

	index, err := parseIndex(args[0])
	if err != nil {
		fmt.Println(err)

		return
	}

	printPackages(index.Find(strings.Join(args[1:], " ")), true)
}

func (s *shell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  find <index> <key>   Exact-match search (name, version, license, summary, description)")
	fmt.Println("  all                  List every package")
	fmt.Println("  info                 Show database info")
	fmt.Println("  help                 Show this help")
	fmt.Println("  exit / quit / q      Exit")
}

// saveHistory persists command history to disk.
func (s *shell) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	f, err := os.Create(path) //nolint:gosec // fixed path under the user's home
	if err != nil {
		return
	}

	defer func() { _ = f.Close() }()

	_, _ = s.liner.WriteHistory(f)
}
