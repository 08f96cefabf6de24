package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/liminal-lang/liminal/internal/config"
	"github.com/liminal-lang/liminal/internal/errors"
	"github.com/liminal-lang/liminal/internal/interp"
	"github.com/liminal-lang/liminal/internal/ir"
	"github.com/liminal-lang/liminal/internal/parser"
	"github.com/liminal-lang/liminal/internal/typecheck"
)

// Version is the driver's reported version (§6: "-v|--version prints a
// single line `liminal VERSION\n`").
var Version = "0.1.0"

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements §6's three-mode dispatch. It returns the process exit
// code rather than calling os.Exit directly so it stays testable.
func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return 0
	}

	if args[0] == "-v" || args[0] == "--version" {
		fmt.Printf("liminal %s\n", Version)
		return 0
	}

	if args[0] == "run" {
		jsonErrors := false
		path := ""
		for _, a := range args[1:] {
			if a == "--json-errors" {
				jsonErrors = true
				continue
			}
			path = a
		}
		if path == "" {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			return 1
		}
		return runFile(path, jsonErrors)
	}

	fmt.Fprintf(os.Stderr, "%s: unknown argument %q\n", red("Error"), args[0])
	return 1
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  liminal run [--json-errors] PATH   run a Liminal program")
	fmt.Println("  liminal -v|--version               print version")
	fmt.Println("  liminal -h|--help                   show this help")
}

// printReport prints a single diagnostic report, either as a colored
// plain-text line or, under --json-errors, as the report's deterministic
// JSON encoding (§7's "machine-readable diagnostic mode").
func printReport(rep *errors.Report, jsonErrors bool, label string) {
	if jsonErrors {
		if j, err := rep.ToJSON(); err == nil {
			fmt.Fprintln(os.Stderr, j)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", red(label), rep.Error())
}

// runFile drives the full pipeline: read, lex+parse, type-check, lower,
// validate the IR, then execute (§2, §4). Every phase up through IR
// validation can fail the run outright (§7: "the command-line driver
// short-circuit[s] with a stderr message and a nonzero exit code"); the
// interpreter itself never fails once it starts, so a successful run
// always exits 0 regardless of how many Err(...) values the program
// produced internally.
func runFile(path string, jsonErrors bool) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %q: %s\n", red("Error"), path, err)
		return 1
	}

	prog, perrs := parser.Parse(string(src))
	if len(perrs) > 0 {
		for _, p := range perrs {
			printReport(p, jsonErrors, "Parse error")
		}
		return 1
	}

	checker, ok, terrs := typecheck.CheckWithChecker(prog)
	if !ok {
		for _, t := range terrs {
			printReport(t, jsonErrors, "Type error")
		}
		return 1
	}

	irProg := ir.Lower(prog, checker.Schemas)
	if rep := ir.Validate(irProg); rep != nil {
		printReport(rep, jsonErrors, "IR error")
		return 1
	}

	cfg, err := config.Load("liminal.ini")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: reading liminal.ini: %s\n", yellow("Warning"), err)
	}
	defaultOracle, err := config.BuildOracle(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), err)
		return 1
	}

	catalog, err := config.LoadCatalog("liminal-oracles.yaml", cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: reading liminal-oracles.yaml: %s\n", yellow("Warning"), err)
	}
	declared := make([]string, len(prog.Oracles))
	for i, decl := range prog.Oracles {
		declared[i] = decl.Name
	}
	oracles, err := config.BuildOracles(declared, catalog, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), err)
		return 1
	}

	in := interp.New(irProg, defaultOracle, os.Stdin, os.Stdout)
	for name, oc := range oracles {
		in.SetOracle(name, oc)
	}

	in.Run()
	return 0
}
