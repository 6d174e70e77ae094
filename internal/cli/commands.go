// Package cli holds the e2eharness commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"

	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"

	"github.com/themizzi/e2eharness/internal/config"
	"github.com/themizzi/e2eharness/internal/logging"
	"github.com/themizzi/e2eharness/internal/stub"
)

// CommandRunner runs an external command with extra environment entries.
type CommandRunner func(ctx context.Context, name string, args, env []string) error

// Installer installs browsers for the playwright driver.
type Installer func(browsers []string) error

// Deps are the side-effecting collaborators of the commands.
type Deps struct {
	Run     CommandRunner
	Install Installer
	Logger  logging.Logger
}

// DefaultDeps runs real processes and installs through playwright.
func DefaultDeps() Deps {
	return Deps{
		Run:     execRunner,
		Install: playwrightInstaller,
		Logger:  logging.New("cli"),
	}
}

func execRunner(ctx context.Context, name string, args, env []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Env = append(os.Environ(), env...)
	return cmd.Run()
}

func playwrightInstaller(browsers []string) error {
	return playwright.Install(&playwright.RunOptions{Browsers: browsers, Verbose: true})
}

// NewApp builds the command line application.
func NewApp(version string, deps Deps) *cli.App {
	return &cli.App{
		Name:    "e2eharness",
		Usage:   "End-to-end test harness for the login flow and the users API",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "dotenv file to load; repeatable",
				Value: cli.NewStringSlice(".env"),
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "INI profile with default settings",
				EnvVars: []string{"E2E_PROFILE"},
			},
		},
		Commands: []*cli.Command{
			ServeStubCommand(deps),
			InstallCommand(deps),
			RunCommand(deps),
			ConfigCommand(deps),
		},
	}
}

// loadConfig resolves the configuration for a command.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if profile := c.String("profile"); profile != "" {
		if err := os.Setenv("E2E_PROFILE", profile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadFromEnvironment(c.StringSlice("env-file")...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// ServeStubCommand returns the serve-stub command
func ServeStubCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:  "serve-stub",
		Usage: "Serve the local stand-in for the web and API targets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port (overrides STUB_PORT)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			stubConfig := cfg.Stub
			if port := c.String("port"); port != "" {
				stubConfig.Port = port
			}

			handler, err := stub.NewRouter(stub.OptionsFor(cfg), logging.New("stub"))
			if err != nil {
				return err
			}

			return RunServe(ServerDependencies{
				StubConfig: stubConfig,
				Handler:    handler,
				Logger:     deps.Logger,
			})
		},
	}
}

// InstallCommand returns the install command
func InstallCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the playwright driver and browsers",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "install every supported browser"},
		},
		Action: func(c *cli.Context) error {
			browsers := []string{config.Chromium, config.Firefox, config.WebKit}
			if !c.Bool("all") {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				browsers = []string{cfg.Browser.Name}
			}

			deps.Logger.Info("Installing playwright browsers", "browsers", browsers)
			if err := deps.Install(browsers); err != nil {
				return fmt.Errorf("failed to install browsers: %w", err)
			}
			deps.Logger.Info("Browsers installed")
			return nil
		},
	}
}

// RunOptions select which specs run and how.
type RunOptions struct {
	Tag     string
	Retries int
	Procs   int
	Real    bool
	Package string
	Verbose bool
}

// TestCommand returns the program and arguments that run the suites. More
// than one process needs the ginkgo CLI; otherwise go test is used.
func TestCommand(opts RunOptions) (string, []string) {
	if opts.Procs > 1 {
		args := []string{"-p", "--procs=" + strconv.Itoa(opts.Procs), "--tags=e2e"}
		if opts.Tag != "" {
			args = append(args, "--label-filter="+opts.Tag)
		}
		if opts.Retries > 0 {
			args = append(args, "--flake-attempts="+strconv.Itoa(opts.Retries+1))
		}
		if opts.Verbose {
			args = append(args, "-v")
		}
		return "ginkgo", append(args, opts.Package)
	}

	args := []string{"test", "-tags", "e2e", "-count=1", opts.Package + "/...", "-args"}
	if opts.Tag != "" {
		args = append(args, "-ginkgo.label-filter="+opts.Tag)
	}
	if opts.Retries > 0 {
		args = append(args, "-ginkgo.flake-attempts="+strconv.Itoa(opts.Retries+1))
	}
	if opts.Verbose {
		args = append(args, "-ginkgo.v")
	}
	return "go", args
}

// RunCommand returns the run command
func RunCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the end-to-end suites",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tag", Usage: "only run specs with this label (ui or api)"},
			&cli.IntFlag{Name: "retries", Usage: "retry a failed spec this many times"},
			&cli.IntFlag{Name: "procs", Value: 1, Usage: "parallel processes"},
			&cli.BoolFlag{Name: "real", Usage: "drive the configured targets instead of the stub"},
			&cli.StringFlag{Name: "package", Value: "./e2e", Usage: "suite package"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "verbose spec output"},
		},
		Action: func(c *cli.Context) error {
			opts := RunOptions{
				Tag:     c.String("tag"),
				Retries: c.Int("retries"),
				Procs:   c.Int("procs"),
				Real:    c.Bool("real"),
				Package: c.String("package"),
				Verbose: c.Bool("verbose"),
			}
			switch opts.Tag {
			case "", "ui", "api":
			default:
				return fmt.Errorf("unknown tag %q: want ui or api", opts.Tag)
			}

			var env []string
			if opts.Real {
				env = append(env, "E2E_USE_STUB=false")
			}
			if files := c.StringSlice("env-file"); len(files) > 0 {
				if err := config.LoadDotEnv(files...); err != nil {
					return err
				}
			}
			if profile := c.String("profile"); profile != "" {
				env = append(env, "E2E_PROFILE="+profile)
			}

			name, args := TestCommand(opts)
			deps.Logger.Info("Running suites", "command", name, "args", args)
			if err := deps.Run(c.Context, name, args, env); err != nil {
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					return cli.Exit("end-to-end suites failed", exitErr.ExitCode())
				}
				return fmt.Errorf("failed to run suites: %w", err)
			}
			return nil
		},
	}
}

// ConfigCommand returns the config command
func ConfigCommand(deps Deps) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the resolved configuration with secrets masked",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			summary := cfg.Summary()
			keys := make([]string, 0, len(summary))
			for k := range summary {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(c.App.Writer, "%s=%s\n", k, summary[k])
			}
			return nil
		},
	}
}
