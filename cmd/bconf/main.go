// Command bconf is a small front end over the bconf package: it parses
// a file and prints the resulting document, or, given no arguments,
// drops into an interactive REPL that parses the lines typed so far
// as one document each time a blank line is entered.
//
// Usage:
//
//	bconf <path>          Parse a file and print its resolved document
//	bconf                 Start an interactive REPL
//	bconf --help          Display this help message
//	bconf --version       Display version information
package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bconf-lang/bconf"
	"github.com/fatih/color"
)

// VERSION is the current version of the bconf command.
var VERSION = "v1.0.0"

// AUTHOR is left blank; this tool carries no author attribution.
var AUTHOR = ""

// LICENCE specifies the software license (MIT License).
var LICENCE = "MIT"

// PROMPT is the command prompt displayed in REPL mode.
var PROMPT = "bconf >>> "

// BANNER is the logo displayed when starting the REPL.
var BANNER = `
  _                    __
 | |__   ___ ___  _ __ / _|
 | '_ \ / __/ _ \| '_ \| |_
 | |_) | (_| (_) | | | |  _|
 |_.__/ \___\___/|_| |_|_|
`

// LINE is a separator used for visual formatting in the REPL.
var LINE = "----------------------------------------------------------------"

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

func main() {
	if len(os.Args) > 1 {
		arg := os.Args[1]

		if arg == "--help" || arg == "-h" {
			showHelp()
			os.Exit(0)
		}
		if arg == "--version" || arg == "-v" {
			showVersion()
			os.Exit(0)
		}

		runFile(arg)
		return
	}

	repler := NewRepl(BANNER, VERSION, AUTHOR, LINE, LICENCE, PROMPT)
	repler.Start(os.Stdin, os.Stdout)
}

func showHelp() {
	cyanColor.Println("bconf - a hierarchical configuration language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  bconf                    Start interactive REPL mode")
	yellowColor.Println("  bconf <path-to-file>     Parse a .bconf file and print its document")
	yellowColor.Println("  bconf --help             Display this help message")
	yellowColor.Println("  bconf --version          Display version information")
	cyanColor.Println("")
	cyanColor.Println("REPL COMMANDS:")
	yellowColor.Println("  .exit                    Exit the REPL")
}

func showVersion() {
	cyanColor.Println("bconf - a hierarchical configuration language")
	cyanColor.Printf("Version: %s\n", VERSION)
	cyanColor.Printf("License: %s\n", LICENCE)
}

// runFile reads and parses a bconf file, printing its resolved
// document as indented JSON, or the parse error in red.
func runFile(fileName string) {
	content, err := os.ReadFile(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file '%s': %v\n", fileName, err)
		os.Exit(1)
	}

	dir := filepath.Dir(fileName)

	result, err := bconf.Parse(string(content), bconf.WithRootDir(dir), bconf.WithFile(fileName))
	if err != nil {
		redColor.Fprintf(os.Stderr, "[PARSE ERROR] %v\n", err)
		os.Exit(1)
	}

	printResult(os.Stdout, result)
}

// printResult renders a parsed document as indented JSON; the
// exported variables, if any, follow under their own heading.
func printResult(w *os.File, result bconf.Result) {
	encoded, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		redColor.Fprintf(os.Stderr, "[ENCODE ERROR] %v\n", err)
		os.Exit(1)
	}
	yellowColor.Fprintf(w, "%s\n", encoded)

	if vars, ok := result.Variables.(map[string]interface{}); ok && len(vars) > 0 {
		varsEncoded, err := json.MarshalIndent(vars, "", "  ")
		if err == nil {
			cyanColor.Fprintln(w, "exported variables:")
			yellowColor.Fprintf(w, "%s\n", varsEncoded)
		}
	}
}
