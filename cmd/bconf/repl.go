package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/bconf-lang/bconf"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	blueColor  = color.New(color.FgBlue)
	greenColor = color.New(color.FgGreen)
)

// Repl is an interactive session that accumulates lines into a
// document buffer and parses the buffer as one bconf document each
// time the user enters a blank line.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

// NewRepl creates a new REPL instance with the given banner, version,
// author, separator line, license, and prompt.
func NewRepl(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Type a document, one key per line, then a blank line to parse it.")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start begins the REPL main loop, reading from stdin via readline
// and writing results and errors to writer.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	var buf strings.Builder

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good bye!\n"))
			break
		}

		trimmed := strings.TrimRight(line, " \t\r")

		if strings.TrimSpace(trimmed) == ".exit" {
			writer.Write([]byte("Good bye!\n"))
			break
		}

		if trimmed == "" {
			if buf.Len() > 0 {
				r.parseAndPrint(writer, buf.String())
				buf.Reset()
			}
			continue
		}

		rl.SaveHistory(line)
		buf.WriteString(trimmed)
		buf.WriteByte('\n')
	}
}

// parseAndPrint parses one accumulated document and prints its
// resolved data, or the parse error, to writer.
func (r *Repl) parseAndPrint(writer io.Writer, source string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	result, err := bconf.Parse(source, bconf.WithFile("<repl>"))
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}

	encoded, err := json.MarshalIndent(result.Data, "", "  ")
	if err != nil {
		redColor.Fprintf(writer, "[ENCODE ERROR] %v\n", err)
		return
	}
	yellowColor.Fprintf(writer, "%s\n", encoded)
}
