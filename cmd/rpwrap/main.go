package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/goliatone/go-rpwrap/pkg/config"
	"github.com/goliatone/go-rpwrap/pkg/debugvalue"
)

const appName = "rpwrap"

type command struct {
	synopsis string
	run      func(ctx context.Context, env *env, args []string) error
}

var commands = map[string]command{
	"generate": {"generate the Python wrapper package", runGenerate},
	"inspect":  {"show the wrappers derived from one header", runInspect},
	"status":   {"list the rp status codes", runStatus},
	"render":   {"render the module template from key=value pairs", runRender},
}

// env carries what every subcommand needs.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// errUsage marks errors caused by bad invocations.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet(appName, flag.ContinueOnError)
	global.SetOutput(stderr)
	verbose := global.Bool("v", false, "enable debug logging")
	global.Usage = func() { usage(stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "%s: unknown command %q\n\n", appName, rest[0])
		usage(stderr)
		return 2
	}

	err := cmd.run(ctx, &env{stdout: stdout, stderr: stderr, logger: logger}, rest[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%s %s: %v\n", appName, rest[0], err)
		return 2
	default:
		logger.Error("command failed", "command", rest[0], "error", err)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "USAGE:\n\n  %s [-v] <command> [flags]\n\nCOMMANDS:\n\n", appName)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].synopsis)
	}
	fmt.Fprintln(w)
}

// configFlags are shared by the commands that read a configuration.
type configFlags struct {
	path         string
	sourceDir    string
	outputDir    string
	templatesDir string
	pkg          string
	commitID     string
}

func (c *configFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.path, "config", "", "YAML or .properties configuration file")
	fs.StringVar(&c.sourceDir, "source-dir", "", "directory holding the rp headers, sha.txt and constants.py")
	fs.StringVar(&c.outputDir, "output-dir", "", "directory receiving the generated package")
	fs.StringVar(&c.templatesDir, "templates-dir", "", "directory overriding the embedded templates")
	fs.StringVar(&c.pkg, "package", "", "Python package name")
	fs.StringVar(&c.commitID, "commit-id", "", "commit id recorded in the generated files")
}

// load applies defaults, then the file, then the flags.
func (c *configFlags) load(logger *slog.Logger) (config.Config, error) {
	cfg := config.Default()
	if c.path != "" {
		loaded, err := config.Load(c.path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
		logger.Debug("loaded configuration", "path", c.path)
	}
	return cfg.Merge(config.Config{
		SourceDir:    c.sourceDir,
		OutputDir:    c.outputDir,
		TemplatesDir: c.templatesDir,
		Package:      c.pkg,
		CommitID:     c.commitID,
	}), nil
}

// setFlag collects repeated -set key=value pairs.
type setFlag map[string]string

func (s setFlag) String() string {
	pairs := make([]string, 0, len(s))
	for key, value := range s {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (s setFlag) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", raw)
	}
	if strings.HasPrefix(value, "@") {
		data, err := os.ReadFile(value[1:])
		if err != nil {
			return err
		}
		value = string(data)
	}
	s[strings.TrimSpace(key)] = value
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// debugAttr logs arbitrary values the way RPPError reports them.
func debugAttr(key string, values ...any) slog.Attr {
	return slog.Any(key, debugvalue.Sanitize(values...))
}
