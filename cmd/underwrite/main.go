package main

import (
	"context"
	"fmt"
	"os"

	"underwriting/pkg/core/config"
	"underwriting/pkg/core/logging"
	"underwriting/pkg/core/projection"
	"underwriting/pkg/core/store"
	"underwriting/pkg/core/utils"
	"underwriting/pkg/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	backend    string
	dataDir    string

	cfg    *config.Config
	log    *logrus.Logger
	runner *projection.Runner

	store      *store.ScenarioStore
	closeStore func() error
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "underwrite",
		Short:         "Real-estate deal underwriting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeStore != nil {
				return a.closeStore()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "Override the storage backend (memory, file, postgres, redis, sqlite)")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Override the file backend directory")

	rootCmd.AddCommand(
		analyzeCmd(a),
		amortizeCmd(a),
		reportCmd(a),
		sensitivityCmd(a),
		scenariosCmd(a),
		calcCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if a.dataDir != "" {
		cfg.Storage.DataDir = a.dataDir
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Log.Level, cfg.Log.Format)

	a.runner, err = projection.NewRunnerFromConfig(cfg.Analysis)
	return err
}

// scenarios opens the store on first use.
func (a *app) scenarios(ctx context.Context) (*store.ScenarioStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, closeFn, err := store.OpenScenarioStore(ctx, a.cfg.Storage, a.log)
	if err != nil {
		return nil, err
	}
	a.store, a.closeStore = st, closeFn
	return st, nil
}

// loadScenario reads the scenario from file when given, else the stored
// scenario with id, else the active scenario.
func (a *app) loadScenario(ctx context.Context, file, id string) (models.Scenario, error) {
	if file != "" {
		return readScenarioFile(file)
	}
	st, err := a.scenarios(ctx)
	if err != nil {
		return models.Scenario{}, err
	}
	if id != "" {
		return st.Get(ctx, id)
	}
	return st.GetActive(ctx)
}

func readScenarioFile(path string) (models.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Scenario{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var s models.Scenario
	if _, err := utils.ParseDocument(string(raw), &s); err != nil {
		return models.Scenario{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

func (a *app) analyze(s models.Scenario, refinance bool) projection.Analysis {
	if refinance {
		if !projection.HasRefinance(s) {
			a.log.WithField("refi_year", s.RefiYear).Warn("scenario has no refinance inside the hold")
		}
		return a.runner.AnalyzeWithRefinance(s)
	}
	return a.runner.Analyze(s)
}

// sourceFlags registers the --file/--id pair used by the read-only commands.
func sourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Scenario file (JSON, relaxed JSON or Hjson)")
	cmd.Flags().String("id", "", "Stored scenario id (default: the active scenario)")
}

func sourceScenario(cmd *cobra.Command, a *app) (models.Scenario, error) {
	file, _ := cmd.Flags().GetString("file")
	id, _ := cmd.Flags().GetString("id")
	return a.loadScenario(cmd.Context(), file, id)
}
