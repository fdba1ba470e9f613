package main

// Must be first import - fixes Warp terminal delay before lipgloss loads
import _ "github.com/wahlandcase/subsync/internal/termfix"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/wahlandcase/subsync/internal/app"
	"github.com/wahlandcase/subsync/internal/config"
	"github.com/wahlandcase/subsync/internal/git"
	"github.com/wahlandcase/subsync/internal/github"
	"github.com/wahlandcase/subsync/internal/models"
	"github.com/wahlandcase/subsync/internal/subtree"
	"github.com/wahlandcase/subsync/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type options struct {
	token        string
	user         string
	prefix       string
	repos        string
	configPath   string
	sourceURL    string
	sourceBranch string
	branch       string
	provider     string
	baseURL      string
	workdir      string
	cleanup      bool
	dryRun       bool
	tui          bool
	noColor      bool
	logLevel     string
	logFormat    string
}

func main() {
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := 0
	rootCmd := newRootCmd(&code)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return code
}

func newRootCmd(code *int) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "subsync",
		Short: "Pull a shared subtree into many repositories and open one rebase-mergeable pull request each",
		Long: `subsync pulls the latest content of an upstream subtree (by default the shared
.github/ directory) into every repository in the list. For each repository it
closes the previous automated pull request, replays the upstream change as a
single commit on a fresh branch, force-pushes it and opens a new pull request.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := run(cmd, opts)
			*code = c
			return err
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&opts.token, "token", "T", "", "hosting API token, also used for git push (env SUBSYNC_TOKEN, GITHUB_TOKEN, GITLAB_TOKEN)")
	f.StringVarP(&opts.user, "user", "U", "", "user the push is authenticated as (env SUBSYNC_USER)")
	f.StringVarP(&opts.prefix, "prefix", "P", "", "subtree directory, e.g. .github/")
	f.StringVarP(&opts.repos, "repos", "R", "", "YAML file listing the repositories to update")
	f.StringVar(&opts.sourceURL, "source-url", "", "upstream repository holding the subtree content")
	f.StringVar(&opts.sourceBranch, "source-branch", "", "upstream branch to pull")
	f.StringVar(&opts.branch, "branch", "", "pull request branch, force-reset on every run")
	f.StringVar(&opts.provider, "provider", "", "hosting provider: github or gitlab")
	f.StringVar(&opts.baseURL, "base-url", "", "API base URL for GitHub Enterprise or self-managed GitLab")
	f.StringVar(&opts.workdir, "workdir", "", "directory repositories are cloned into")
	f.BoolVar(&opts.cleanup, "cleanup", false, "remove each clone once its repository is done")
	f.BoolVar(&opts.dryRun, "dry-run", false, "run every local step but skip closing, pushing and creating pull requests")
	f.BoolVar(&opts.tui, "tui", false, "show interactive progress")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "settings file (default "+defaultConfigHint()+")")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	rootCmd.AddCommand(newConfigCmd(opts), newHistoryCmd())
	return rootCmd
}

func defaultConfigHint() string {
	p, err := config.Path()
	if err != nil {
		return "subsync.toml in the user config directory"
	}
	return p
}

func run(cmd *cobra.Command, opts *options) (int, error) {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()

	ui.SetupColor(opts.noColor)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return 1, err
	}
	applyFlags(cfg, opts, cmd)
	if err := cfg.Validate(); err != nil {
		return 1, err
	}

	token := opts.token
	if token == "" {
		token = config.TokenFromEnv(cfg.Hosting.Provider)
	}
	user := opts.user
	if user == "" {
		user = config.UserFromEnv()
	}
	if token == "" {
		return 1, &models.ConfigurationError{Source: "flags", Msg: "--token is required (or set SUBSYNC_TOKEN)"}
	}
	if user == "" {
		return 1, &models.ConfigurationError{Source: "flags", Msg: "--user is required (or set SUBSYNC_USER)"}
	}

	targets, err := loadTargets(cfg, opts.repos)
	if err != nil {
		return 1, err
	}

	req, err := cfg.Request(token, user)
	if err != nil {
		return 1, err
	}
	req.DryRun = opts.dryRun

	workDir, err := cfg.WorkspacePath()
	if err != nil {
		return 1, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	logOut := cmd.ErrOrStderr()
	if opts.tui {
		// Log lines would tear the alternate screen; send them to a file instead
		if err := os.MkdirAll(workDir, 0755); err != nil {
			return 1, fmt.Errorf("failed to create workspace: %w", err)
		}
		logFile, err := os.OpenFile(filepath.Join(workDir, "subsync.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 1, fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		logOut = logFile
	}
	if err := setupLogging(logOut, opts.logLevel, opts.logFormat); err != nil {
		return 1, err
	}

	runner, err := git.NewRunner(req.AuthorName, req.AuthorEmail)
	if err != nil {
		return 1, err
	}
	hosting, err := github.New(ctx, cfg.Hosting.Provider, token, cfg.Hosting.BaseURL)
	if err != nil {
		return 1, err
	}

	orch := subtree.New(hosting, git.NewClient(runner), req, workDir)
	orch.Cleanup = cfg.Workspace.Cleanup

	slog.Info("starting subtree update run", "repos", len(targets), "prefix", req.Prefix, "source", req.SourceURL, "dry_run", req.DryRun)

	historyPath, historyErr := app.HistoryPath()

	var results []models.TargetResult
	if opts.tui {
		var history []app.HistoryEntry
		if historyErr == nil {
			history = app.LoadHistory(historyPath, time.Now())
		}
		p := tea.NewProgram(app.New(ctx, orch, targets, history), tea.WithAltScreen(), tea.WithContext(ctx))
		final, err := p.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return 1, fmt.Errorf("error running program: %w", err)
		}
		m, ok := final.(app.Model)
		if !ok || m.Interrupted() {
			return 1, errors.New("interrupted")
		}
		results = m.Results()
	} else {
		fmt.Fprintln(stdout, ui.RenderBanner(req.DryRun))
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, ui.SubtreeFlow(req.SourceURL, req.SourceBranch, req.Prefix, len(targets)))
		fmt.Fprintln(stdout)
		results = orch.Run(ctx, targets)
	}

	fmt.Fprint(stdout, ui.RenderSummary(results, req.DryRun))

	if !req.DryRun && historyErr == nil {
		if err := app.RecordHistory(historyPath, results, time.Now()); err != nil {
			slog.Warn("failed to record history", "path", historyPath, "error", err)
		}
	}

	return subtree.ExitCode(results), nil
}

// applyFlags overlays explicitly set flags on the loaded settings
func applyFlags(cfg *config.Config, opts *options, cmd *cobra.Command) {
	changed := cmd.Flags().Changed
	if changed("prefix") {
		cfg.Source.Prefix = opts.prefix
	}
	if changed("source-url") {
		cfg.Source.URL = opts.sourceURL
	}
	if changed("source-branch") {
		cfg.Source.Branch = opts.sourceBranch
	}
	if changed("branch") {
		cfg.PullRequest.Branch = opts.branch
	}
	if changed("provider") {
		cfg.Hosting.Provider = opts.provider
	}
	if changed("base-url") {
		cfg.Hosting.BaseURL = opts.baseURL
	}
	if changed("workdir") {
		cfg.Workspace.Dir = opts.workdir
	}
	if changed("cleanup") {
		cfg.Workspace.Cleanup = opts.cleanup
	}
}

func loadTargets(cfg *config.Config, reposPath string) ([]models.RepoTarget, error) {
	if reposPath != "" {
		return config.LoadRepos(reposPath)
	}
	if len(cfg.Repos) > 0 {
		return cfg.Repos, nil
	}
	return nil, &models.ConfigurationError{Source: "flags", Msg: "no repository list: pass --repos or add [[repos]] to the settings file"}
}

func setupLogging(w io.Writer, level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return &models.ConfigurationError{Source: "flags", Msg: fmt.Sprintf("invalid --log-level %q", level)}
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text", "":
		handler = slog.NewTextHandler(w, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return &models.ConfigurationError{Source: "flags", Msg: fmt.Sprintf("invalid --log-format %q (want text or json)", format)}
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
