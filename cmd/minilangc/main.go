// Command minilangc drives the compilation pipeline end to end: lexer,
// parser, semantic analyzer, desugarer, a second semantic pass over the
// desugared tree, an optional constant folder, and the LLVM IR text
// generator. It reads source from a file argument or from stdin and
// writes the result to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/angelobarone/minilang-compiler/internal/analyzer"
	"github.com/angelobarone/minilang-compiler/internal/cache"
	"github.com/angelobarone/minilang-compiler/internal/codegen"
	"github.com/angelobarone/minilang-compiler/internal/config"
	"github.com/angelobarone/minilang-compiler/internal/desugarer"
	"github.com/angelobarone/minilang-compiler/internal/diagnostics"
	"github.com/angelobarone/minilang-compiler/internal/folder"
	"github.com/angelobarone/minilang-compiler/internal/lexer"
	"github.com/angelobarone/minilang-compiler/internal/parser"
	"github.com/angelobarone/minilang-compiler/internal/pipeline"
	"github.com/angelobarone/minilang-compiler/internal/prettyprinter"
)

var (
	emitStage  = flag.String("emit-stage", "ir", "stop after this stage and print it: tokens|ast|desugared|folded|ir")
	noFold     = flag.Bool("no-fold", false, "skip constant folding")
	cachePath  = flag.String("cache", "", "path to a sqlite compilation cache; empty disables caching")
	cacheStats = flag.Bool("cache-stats", false, "print cache statistics and exit")
)

var logger = newLogger()

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("DEBUG") == "1" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// timeStage logs how long a pipeline stage took at debug level, the way a
// verbose build of the driver would want without threading a timer through
// every Processor.
func timeStage(stage string, fn func()) {
	start := time.Now()
	fn()
	logger.Debug("stage complete", "stage", stage, "elapsed", time.Since(start))
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "this is a bug in the compiler, not in your program")
			os.Exit(1)
		}
	}()

	flag.Parse()

	if *cacheStats {
		handleCacheStats()
		return
	}

	source, filePath, err := readSource(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	var c *cache.Cache
	var key string
	if *cachePath != "" {
		c, err = cache.Open(*cachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			os.Exit(1)
		}
		defer c.Close()

		key = cache.SourceKey(source, !*noFold)
		if ir, found, err := c.Lookup(key); err == nil && found && *emitStage == "ir" {
			fmt.Print(ir)
			return
		}
	}

	output, err := compile(source, filePath)
	if err != nil {
		printDiagnostics(err)
		os.Exit(1)
	}

	fmt.Print(output)

	if c != nil && *emitStage == "ir" {
		if err := c.Store(key, output); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write to cache: %s\n", err)
		}
	}
}

func handleCacheStats() {
	if *cachePath == "" {
		fmt.Fprintln(os.Stderr, "error: -cache-stats requires -cache <path>")
		os.Exit(1)
	}
	c, err := cache.Open(*cachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	defer c.Close()

	stats, err := c.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(stats.String())
}

// compile runs the full pipeline and returns the text for whatever stage
// -emit-stage names.
func compile(source, filePath string) (string, error) {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath

	front := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	)
	timeStage("lex+parse+analyze", func() { ctx = front.Run(ctx) })
	if ctx.HasErrors() {
		return "", diagnosticsErr(ctx.Errors)
	}
	if *emitStage == "tokens" {
		return renderTokens(ctx.TokenStream), nil
	}
	if *emitStage == "ast" {
		return prettyprinter.Print(ctx.AstRoot), nil
	}

	desugarStage := pipeline.New(&desugarer.DesugarerProcessor{})
	timeStage("desugar", func() { ctx = desugarStage.Run(ctx) })
	if ctx.HasErrors() {
		return "", diagnosticsErr(ctx.Errors)
	}

	// Desugaring introduces lambda-lifted functions, so name resolution and
	// arity checks must run again over the rewritten tree (a free variable
	// inside a lifted lambda body is only visible at this point).
	var postDesugarErrs []*diagnostics.DiagnosticError
	timeStage("re-analyze", func() { _, postDesugarErrs = analyzer.Analyze(ctx.AstRoot) })
	if len(postDesugarErrs) > 0 {
		return "", diagnosticsErr(postDesugarErrs)
	}
	if *emitStage == "desugared" {
		return prettyprinter.Print(ctx.AstRoot), nil
	}

	if !*noFold {
		foldStage := pipeline.New(&folder.FolderProcessor{})
		timeStage("fold", func() { ctx = foldStage.Run(ctx) })
		if ctx.HasErrors() {
			return "", diagnosticsErr(ctx.Errors)
		}
	}
	if *emitStage == "folded" {
		return prettyprinter.Print(ctx.AstRoot), nil
	}

	codegenStage := pipeline.New(&codegen.CodeGenProcessor{})
	timeStage("codegen", func() { ctx = codegenStage.Run(ctx) })
	if ctx.HasErrors() {
		return "", diagnosticsErr(ctx.Errors)
	}
	return ctx.IR, nil
}

func renderTokens(stream pipeline.TokenStream) string {
	var out string
	for {
		tok := stream.Next()
		out += tok.String() + "\n"
		if tok.Type == "EOF" {
			break
		}
	}
	return out
}

// diagnosticsErr joins a slice of *diagnostics.DiagnosticError into a
// single error the rest of compile's error-return path can treat uniformly.
type diagnosticList []*diagnostics.DiagnosticError

func (d diagnosticList) Error() string {
	s := ""
	for _, e := range d {
		s += e.Error() + "\n"
	}
	return s
}

func diagnosticsErr(errs []*diagnostics.DiagnosticError) error {
	return diagnosticList(errs)
}

func printDiagnostics(err error) {
	colored := isatty.IsTerminal(os.Stderr.Fd())
	if list, ok := err.(diagnosticList); ok {
		for _, e := range list {
			printOne(e.Error(), colored)
		}
		return
	}
	if de, ok := err.(*diagnostics.DiagnosticError); ok {
		printOne(de.Error(), colored)
		return
	}
	printOne(err.Error(), colored)
}

func printOne(msg string, colored bool) {
	if colored {
		fmt.Fprintf(os.Stderr, "\033[31merror:\033[0m %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}

// readSource reads from the single file argument, or from stdin when none
// is given.
func readSource(args []string) (source string, filePath string, err error) {
	if len(args) == 0 {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			return "", "", fmt.Errorf("usage: minilangc <file> or pipe source on stdin")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	}

	path := args[0]
	if !hasRecognizedExtension(path) {
		fmt.Fprintf(os.Stderr, "warning: %s has no recognized source extension (%s)\n",
			path, strings.Join(config.SourceFileExtensions, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}

func hasRecognizedExtension(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
