// Command seenc is a thin demo driver over pkg/seen, exercising all five
// public entry points (§6.2) from the command line. It is a consumer of
// the compiler core, not part of it (§1 explicitly scopes CLI argument
// handling and driver concerns out of the core).
//
// Usage:
//
//	seenc [flags] <source.seen>
//
// Flags:
//
//	-pack <path>   Language pack TOML (required)
//	-o <output>    Output file (default: stdout)
//	-emit <stage>  Emit intermediate output: tokens, ast, ir (default: ir)
//	-optimize      Fold constants before printing IR (default: true)
//	-verify        Run the IR verifier before printing (default: true)
//	-target        LLVM target triple name: x86_64-linux, aarch64-linux, wasm32 (default: x86_64-linux)
//	-version       Print version and exit
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/seenlang/seenc/internal/diag"
	"github.com/seenlang/seenc/internal/langpack"
	"github.com/seenlang/seenc/internal/llvmir"
	"github.com/seenlang/seenc/internal/seenlog"
	"github.com/seenlang/seenc/internal/serialize"
	"github.com/seenlang/seenc/internal/span"
	"github.com/seenlang/seenc/internal/token"
	"github.com/seenlang/seenc/pkg/seen"
)

const version = "0.1.0"

func main() {
	var (
		packPath = flag.String("pack", "", "Language pack TOML (required)")
		output   = flag.String("o", "", "Output file (default: stdout)")
		emit     = flag.String("emit", "ir", "Emit stage: tokens, ast, ir")
		optimize = flag.Bool("optimize", true, "Fold constants before printing IR")
		verify   = flag.Bool("verify", true, "Run the IR verifier before printing")
		target   = flag.String("target", "x86_64-linux", "LLVM target triple name")
		ver      = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *ver {
		fmt.Printf("seenc %s\n", version)
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: seenc [flags] <source.seen>")
		os.Exit(1)
	}
	if *packPath == "" {
		fmt.Fprintln(os.Stderr, "error: -pack is required")
		os.Exit(1)
	}

	log := seenlog.NewStderr(seenlog.LevelInfo)

	pack, err := langpack.Load(*packPath)
	if err != nil {
		log.Error("loading language pack: %v", err)
		os.Exit(1)
	}

	filename := flag.Arg(0)
	source, err := os.ReadFile(filename)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Error("creating %s: %v", *output, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	fs := span.NewFileSet()
	fileID := fs.AddFile(filename, string(source))

	toks, lexDiags := seen.Lex(fileID, string(source), pack)
	printDiags(log, lexDiags)
	if lexDiags.HasFatal() {
		os.Exit(1)
	}

	if *emit == "tokens" {
		printTokens(out, toks)
		return
	}

	file, parseDiags := seen.Parse(fileID, toks)
	printDiags(log, parseDiags)
	if file == nil {
		os.Exit(1)
	}

	if *emit == "ast" {
		if err := serialize.WriteText(out, file); err != nil {
			log.Error("serializing ast: %v", err)
			os.Exit(1)
		}
		return
	}

	checker, tcDiags := seen.Typecheck(file)
	printDiags(log, tcDiags)

	_, ownDiags := seen.AnalyzeOwnership(file)
	printDiags(log, ownDiags)

	cfg := llvmir.DefaultConfig()
	cfg.Target = targetFromFlag(*target)
	cfg.SourceFile = filename

	resolve := seen.TypeResolver(checker)
	text, lowerDiags := seen.LowerAndPrint(file, resolve, cfg, seen.LowerOptions{Optimize: *optimize, Verify: *verify})
	printDiags(log, lowerDiags)

	fmt.Fprint(out, text)
}

func targetFromFlag(name string) llvmir.Target {
	switch name {
	case "aarch64-linux":
		return llvmir.TargetAArch64Linux
	case "wasm32":
		return llvmir.TargetWasm32
	default:
		return llvmir.TargetX86_64Linux
	}
}

func printTokens(out *os.File, toks []token.Token) {
	for _, tok := range toks {
		fmt.Fprintf(out, "%s\t%s\t%q\n", tok.Span, tok.Kind, tok.Lexeme)
	}
}

func printDiags(log *seenlog.Logger, bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"stage", "severity", "code", "span", "message"})
	for _, d := range bag.All() {
		sev := d.Severity.String()
		if d.Severity != diag.SevRecovered {
			sev = color.New(color.FgRed, color.Bold).Sprint(sev)
		}
		table.Append([]string{string(d.Stage), sev, d.Code, d.Span.String(), d.Message})
	}
	table.Render()
	if bag.HasFatal() {
		log.Error("%d diagnostic(s), at least one fatal", bag.Len())
	} else {
		log.Warn("%d diagnostic(s)", bag.Len())
	}
}
