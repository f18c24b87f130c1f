package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/decktools/decktools/internal/catalog"
	"github.com/decktools/decktools/internal/config"
	"github.com/decktools/decktools/internal/doctor"
	"github.com/decktools/decktools/internal/installer"
	"github.com/decktools/decktools/internal/logging"
	"github.com/decktools/decktools/internal/manifest"
	"github.com/decktools/decktools/internal/platform"
	"github.com/decktools/decktools/internal/remote"
	"github.com/decktools/decktools/internal/tui"
)

type globalOptions struct {
	configPath string
	terminal   string
	debug      bool
}

// app is the wired pipeline for one invocation.
type app struct {
	opts    *globalOptions
	cfg     *config.Instance
	client  *remote.Client
	runner  *installer.TerminalRunner
	catalog *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "decktools",
		Short:         "Browse and install Steam Deck tools from a remote manifest",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			interactive := term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
			if !interactive {
				return runList(ctx, opts, cmd.OutOrStdout())
			}
			return runTUI(ctx, opts, cmd.OutOrStdout())
		},
	}
	root.SetVersionTemplate("decktools {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/decktools/config.toml)")
	flags.StringVar(&opts.terminal, "terminal", "", `terminal emulator for install scripts, "none" to run in place`)
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newInstallCmd(opts),
		newDoctorCmd(opts),
	)

	return root
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tools in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()
			return runList(ctx, opts, cmd.OutOrStdout())
		},
	}
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tool>",
		Short: "Show the details of one tool (title, slug or list number)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, opts, debugConsole(opts))
			if err != nil {
				return err
			}
			index, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			tool, err := a.catalog.Tool(index)
			if err != nil {
				return err
			}
			printTool(cmd.OutOrStdout(), tool)
			return nil
		},
	}
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "install <tool>",
		Short: "Download and run the install script of a tool (title, slug or list number)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, opts, debugConsole(opts))
			if err != nil {
				return err
			}
			index, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			tool, err := a.catalog.Tool(index)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				script, err := a.catalog.Preview(ctx, index)
				if err != nil {
					return err
				}
				fmt.Fprint(out, script)
				return nil
			}

			if t, err := a.runner.Terminal(); err == nil && !t.Direct() {
				platform.PrintInfo(out, fmt.Sprintf("Installing %s in %s", tool.Title, t.Name))
			}
			if err := a.catalog.Install(ctx, index); err != nil {
				return err
			}
			platform.PrintSuccess(out, tool.Title+" installed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the script that would run instead of running it")
	return cmd
}

func newDoctorCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, terminal and remote repository health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			dopts := doctor.Options{Terminal: opts.terminal}
			cfg, err := loadConfig(opts, debugConsole(opts))
			if err != nil {
				dopts.ConfigErr = err
				dopts.Remote = remote.NewClient("")
			} else {
				dopts.ConfigPath = cfg.Path()
				dopts.Remote = remote.NewClient(cfg.BaseURL(), remote.WithTimeout(cfg.FetchTimeout()))
				if dopts.Terminal == "" {
					dopts.Terminal = cfg.Terminal()
				}
			}
			return doctor.RunTo(ctx, cmd.OutOrStdout(), dopts)
		},
	}
}

func debugConsole(opts *globalOptions) io.Writer {
	if opts.debug {
		return os.Stderr
	}
	return nil
}

func startLogging(debug bool, console io.Writer) {
	path, err := logging.Init(logging.Options{Debug: debug, Console: console, NoColor: !platform.ColorEnabled()})
	if err != nil {
		logging.Discard()
		platform.PrintWarn(os.Stderr, "logging disabled: "+err.Error())
		return
	}
	log.Debug().Str("version", version).Str("log", path).Msg("decktools starting")
}

// loadConfig reads the config and then starts logging exactly once, at
// debug level when either --debug or debug_logging asks for it. Logging
// stays off until the level is known.
func loadConfig(opts *globalOptions, console io.Writer) (*config.Instance, error) {
	logging.Discard()
	cfg, err := config.NewConfig(opts.configPath, config.BaseDefaults)
	if err != nil {
		startLogging(opts.debug, console)
		log.Error().Err(err).Msg("config failed to load")
		return nil, err
	}
	cfg.SetDebugLogging(opts.debug)
	startLogging(cfg.DebugLogging(), console)
	return cfg, nil
}

// newApp reads the config, wires the pipeline and loads the catalog.
// console receives log output as well as the log file; nil keeps logs off
// the terminal.
func newApp(ctx context.Context, opts *globalOptions, console io.Writer) (*app, error) {
	cfg, err := loadConfig(opts, console)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	terminal := opts.terminal
	if terminal == "" {
		terminal = cfg.Terminal()
	}

	client := remote.NewClient(cfg.BaseURL(), remote.WithTimeout(cfg.FetchTimeout()))
	runner := installer.NewTerminalRunner(terminal)
	a := &app{
		opts:    opts,
		cfg:     cfg,
		client:  client,
		runner:  runner,
		catalog: catalog.New(client, installer.New(client, runner)),
	}

	_, _ = a.catalog.Load(ctx)
	if a.catalog.State() != catalog.StateReady {
		return nil, a.catalog.Err()
	}
	return a, nil
}

// resolve maps a 1-based list number, title or slug to a catalog index.
func (a *app) resolve(arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(a.catalog.Tools()) {
			return 0, fmt.Errorf("%w: no tool number %d", catalog.ErrUnknownTool, n)
		}
		return n - 1, nil
	}
	if index, ok := a.catalog.Lookup(arg); ok {
		return index, nil
	}
	return 0, fmt.Errorf("%w: %q (run decktools list)", catalog.ErrUnknownTool, arg)
}

func (a *app) doctorOptions() doctor.Options {
	terminal := a.opts.terminal
	if terminal == "" {
		terminal = a.cfg.Terminal()
	}
	return doctor.Options{
		ConfigPath: a.cfg.Path(),
		Terminal:   terminal,
		Remote:     a.client,
	}
}

func runList(ctx context.Context, opts *globalOptions, out io.Writer) error {
	a, err := newApp(ctx, opts, debugConsole(opts))
	if err != nil {
		return err
	}
	printList(out, a.catalog.Tools())
	return nil
}

func runTUI(ctx context.Context, opts *globalOptions, out io.Writer) error {
	a, err := newApp(ctx, opts, nil)
	if err != nil {
		return err
	}

	inPlace := false
	if t, err := a.runner.Terminal(); err == nil {
		inPlace = t.Direct()
	}

	err = tui.Run(ctx, a.catalog, tui.Options{
		Version: version,
		InPlace: inPlace,
		Doctor: func(ctx context.Context, w io.Writer) error {
			return doctor.RunTo(ctx, w, a.doctorOptions())
		},
	})
	if errors.Is(err, tui.ErrAccessible) {
		printList(out, a.catalog.Tools())
		return nil
	}
	return err
}

func printList(w io.Writer, tools []manifest.Tool) {
	if len(tools) == 0 {
		fmt.Fprintln(w, "No tools are listed in the manifest.")
		return
	}
	width := len(strconv.Itoa(len(tools)))
	for i, t := range tools {
		title := platform.Bold(t.Title)
		if t.NeedsRoot {
			title += " " + platform.Yellow("[root]")
		}
		fmt.Fprintf(w, "%*d. %s\n", width, i+1, title)
		for _, line := range t.DescriptionLines() {
			fmt.Fprintf(w, "%*s  %s\n", width, "", platform.Dim(line))
		}
	}
}

func printTool(w io.Writer, t manifest.Tool) {
	platform.PrintBanner(w, t.Title)
	for _, line := range t.DescriptionLines() {
		fmt.Fprintln(w, "  "+line)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-8s %s\n", "Repo", t.Repo)
	fmt.Fprintf(w, "  %-8s %s\n", "Script", installer.ScriptPath(t.Title))
	root := "not required"
	if t.NeedsRoot {
		root = platform.Yellow("required") + " (asks for the sudo password)"
	}
	fmt.Fprintf(w, "  %-8s %s\n", "Root", root)
	if t.HasNote() {
		fmt.Fprintln(w)
		platform.PrintWarn(w, strings.TrimSpace(t.NoteText()))
	}
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
