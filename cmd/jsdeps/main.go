// Command jsdeps extracts CommonJS and AMD module imports from
// JavaScript and TypeScript sources, statically.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnana997/jsdeps/pkg/indexer"
	"github.com/gnana997/jsdeps/pkg/interrogate"
	mcpserver "github.com/gnana997/jsdeps/pkg/mcp"
	"github.com/gnana997/jsdeps/pkg/mcplog"
	"github.com/gnana997/jsdeps/pkg/parser"
	"github.com/gnana997/jsdeps/pkg/util"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch command := os.Args[1]; command {
	case "extract":
		err = runExtract(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version":
		fmt.Printf("jsdeps %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsdeps: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: jsdeps <command> [flags] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  extract    Extract module imports from files (or stdin with \"-\")")
	fmt.Println("  scan       Scan a workspace and report module usage")
	fmt.Println("  watch      Scan a workspace and keep the index current")
	fmt.Println("  serve      Start the MCP server on stdin/stdout")
	fmt.Println("  version    Print version")
	fmt.Println("  help       Show this help message")
}

func newInterrogator(logLevel string) (*interrogate.Interrogator, *parser.ParserManager, *slog.Logger) {
	logCfg := util.DefaultLoggerConfig()
	logCfg.Level = util.LogLevel(logLevel)
	logger := util.NewLogger(logCfg)

	pm := parser.NewParserManager(logger)
	return interrogate.New(pm, interrogate.WithLogger(logger)), pm, logger
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "emit JSON instead of one module per line")
	lang := fs.String("language", "", "language for stdin input: javascript or typescript")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("extract requires at least one file argument (or \"-\" for stdin)")
	}

	in, pm, _ := newInterrogator(*logLevel)
	defer pm.Close()

	perFile := make(map[string][]string, fs.NArg())
	for _, path := range fs.Args() {
		var modules []string
		var err error

		if path == "-" {
			source, rerr := io.ReadAll(os.Stdin)
			if rerr != nil {
				return fmt.Errorf("read stdin: %w", rerr)
			}
			l := parser.LanguageJavaScript
			if *lang != "" {
				if l = parser.ParseLanguageString(*lang); l == parser.LanguageUnknown {
					return fmt.Errorf("unsupported language: %s", *lang)
				}
			}
			modules, err = in.ExtractModuleImports(source, l, false)
		} else {
			var source []byte
			source, err = os.ReadFile(path)
			if err == nil {
				modules, err = in.ExtractFileImports(path, source)
			}
		}
		if err != nil {
			return err
		}
		perFile[path] = modules

		if !*asJSON {
			for _, m := range modules {
				fmt.Println(m)
			}
		}
	}

	if *asJSON {
		return json.NewEncoder(os.Stdout).Encode(perFile)
	}
	return nil
}

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "emit JSON instead of a usage table")
	include := multiFlag{}
	exclude := multiFlag{}
	fs.Var(&include, "include", "include glob (repeatable)")
	fs.Var(&exclude, "exclude", "exclude glob (repeatable)")
	workers := fs.Int("workers", 0, "worker count; 0 uses the CPU-derived default")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	cfg, err := loadProjectConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts := resolveScanOptions(cfg, include, exclude, *workers)

	in, pm, logger := newInterrogator(resolveLogLevel(cfg, *logLevel))
	defer pm.Close()

	idx, err := indexer.NewDependencyIndex(indexer.DefaultIndexConfig(), logger)
	if err != nil {
		return err
	}

	files := util.NewFileCache(nil)
	defer files.Close()

	scanner := indexer.NewWorkspaceScanner(in, idx, files, logger)
	stats, err := scanner.Scan(root, opts, nil)
	if err != nil {
		return err
	}

	if *asJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"modules": idx.Modules(),
			"stats":   stats,
		})
	}

	for _, u := range idx.Modules() {
		fmt.Printf("%6d  %s\n", u.Count, u.Name)
	}
	fmt.Printf("\n%d files indexed, %d failed, %d modules, %dms\n",
		stats.FilesIndexed, stats.FilesFailed, stats.ModulesExtracted, stats.TotalTimeMs)
	return nil
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	debounce := fs.Int("debounce-ms", 0, "debounce window in milliseconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	cfg, err := loadProjectConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	in, pm, logger := newInterrogator(resolveLogLevel(cfg, *logLevel))
	defer pm.Close()

	idx, err := indexer.NewDependencyIndex(indexer.DefaultIndexConfig(), logger)
	if err != nil {
		return err
	}

	// Watch mode reads straight from disk; a mapped cache would serve
	// stale content for files modified after first load.
	scanner := indexer.NewWorkspaceScanner(in, idx, nil, logger)

	opts := resolveScanOptions(cfg, nil, nil, 0)
	if _, err := scanner.Scan(root, opts, nil); err != nil {
		return err
	}

	watchOpts := indexer.DefaultWatchOptions()
	if *debounce > 0 {
		watchOpts.DebounceMs = *debounce
	}
	watcher, err := indexer.NewFileWatcher(scanner, idx, watchOpts, logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(root); err != nil {
		return err
	}
	defer watcher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn, error")
	mcpLog := fs.String("mcp-log", "", "path for JSONL tool-call log; empty disables")
	warm := fs.Bool("warm", true, "scan the workspace before serving")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	cfg, err := loadProjectConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	in, pm, logger := newInterrogator(resolveLogLevel(cfg, *logLevel))
	defer pm.Close()

	idx, err := indexer.NewDependencyIndex(indexer.DefaultIndexConfig(), logger)
	if err != nil {
		return err
	}
	scanner := indexer.NewWorkspaceScanner(in, idx, nil, logger)

	if *warm {
		opts := resolveScanOptions(cfg, nil, nil, 0)
		if _, err := scanner.Scan(root, opts, nil); err != nil {
			return err
		}
	}

	logPath := *mcpLog
	if logPath == "" && cfg != nil {
		logPath = cfg.MCPLog
	}
	toolLog, err := mcplog.NewLogger(logPath)
	if err != nil {
		return err
	}
	if toolLog != nil {
		defer toolLog.Close()
	}

	srv := mcpserver.NewServer(in, idx, scanner, toolLog)
	return srv.ServeStdio()
}

// multiFlag collects repeated string flags.
type multiFlag []string

func (m *multiFlag) String() string { return fmt.Sprint([]string(*m)) }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}
