package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/services"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/desertthunder/tagtune/internal/store"
	"github.com/desertthunder/tagtune/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	service    services.Service
	store      store.Store
	db         *sql.DB
	controller *tasks.Controller
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.Service
	Store   store.Store
	DB      *sql.DB
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	controller := tasks.NewController(tasks.ControllerOpts{
		Service:   opts.Service,
		Store:     opts.Store,
		Logger:    opts.Logger,
		RateLimit: opts.Config.Sync.RateLimit,
	})

	return &Runner{
		config:     opts.Config,
		service:    opts.Service,
		store:      opts.Store,
		db:         opts.DB,
		controller: controller,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, syncCommand, libraryCommand, tagsCommand, playlistsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// user resolves the acting user from the --user flag or config.
func (r *Runner) user(cmd *cli.Command) models.User {
	if u := cmd.String("user"); u != "" {
		return models.User(u)
	}
	return models.User(r.config.Sync.User)
}

// SetLogger swaps the runner's logger, propagating it to the controller.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.controller = tasks.NewController(tasks.ControllerOpts{
		Service:   r.service,
		Store:     r.store,
		Logger:    logger,
		RateLimit: r.config.Sync.RateLimit,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
