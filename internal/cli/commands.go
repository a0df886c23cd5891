package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/dyike/ArenaGo/config"
	"github.com/dyike/ArenaGo/internal/debug"
	"github.com/dyike/ArenaGo/internal/display"
	"github.com/dyike/ArenaGo/internal/logs"
	"github.com/dyike/ArenaGo/internal/models"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	var mgr *config.Manager
	getMgr := func() *config.Manager { return mgr }

	rootCmd := &cobra.Command{
		Use:   "arenago",
		Short: "ArenaGo - Investment Debate Tournament",
		Long: `ArenaGo pits eight LLM analyst personas against each other in a
single-elimination debate tournament and distills the bracket into one
investment recommendation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the config file wins over env defaults; env seeds it on
			// first run and always supplies the credentials
			m, err := config.NewManager(filepath.Join(cfg.ProjectDir, "config.json"), cfg)
			if err != nil {
				return fmt.Errorf("open config file: %w", err)
			}
			mgr = m
			*cfg = m.Snapshot()

			if d, _ := cmd.Flags().GetBool("debug"); d {
				cfg.Debug = true
			}
			logs.Init(cfg.Debug)
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create directories: %w", err)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cfg, mgr)
		},
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg, getMgr))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [SYMBOL]",
		Short: "Run a debate tournament for a stock symbol",
		Long: `Generate eight analyst viewpoints, play the bracket, and print the
final recommendation. Example: arenago run AAPL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTournament(cfg, args[0])
		},
	}

	cmd.Flags().Int("turns", 0, "Debate turns per side (default from config)")
	cmd.Flags().Int("concurrency", 0, "Viewpoint generation concurrency (default from config)")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetInt("turns"); v > 0 {
			cfg.TurnsPerSide = v
		}
		if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
			cfg.GenerationConcurrency = v
		}
		return nil
	}

	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the analyst roster",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("🎭 Analyst roster:")
			for _, p := range models.DefaultProfiles() {
				fmt.Printf("  %s %-18s %-12s (%s)\n", p.Avatar, p.DisplayName, p.Methodology, p.ID)
			}
		},
	}
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [SYMBOL]",
		Short: "Show recent tournament runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) == 1 {
				symbol = args[0]
			}
			limit, _ := cmd.Flags().GetInt("limit")

			runner, err := NewRunner(cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			runs, err := runner.Store().RecentRuns(context.Background(), symbol, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				display.Info("No stored runs yet.")
				return nil
			}

			fmt.Printf("%-36s  %-8s  %-8s  %-12s  %-6s  %s\n",
				"RUN", "SYMBOL", "STATUS", "STANCE", "CONF", "STARTED")
			for _, r := range runs {
				fmt.Printf("%-36s  %-8s  %-8s  %-12s  %5.1f  %s\n",
					r.ID, r.Symbol, r.Status, r.Stance, r.Confidence,
					r.StartedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum runs to list")
	return cmd
}

func newConfigCmd(cfg *config.Config, getMgr func() *config.Manager) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg, getMgr())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			display.Success("Configuration is valid.")
			return nil
		},
	})

	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ArenaGo v1.0.0")
			fmt.Println("Investment Debate Tournament")
		},
	}
}

// runTournament executes one tournament end to end.
func runTournament(cfg *config.Config, symbol string) error {
	dbg := debug.NewEinoDebugger(cfg)
	if err := dbg.Initialize(); err != nil {
		logs.Logger().Warn().Err(err).Msg("eino debug unavailable")
	}
	if dbg.IsEnabled() {
		display.Info("Eino debug UI: " + dbg.DebugURL())
	}

	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	_, err = runner.Analyze(context.Background(), symbol)
	return err
}

func showConfig(cfg *config.Config, mgr *config.Manager) {
	fmt.Println("📋 Current ArenaGo Configuration:")
	fmt.Println("═══════════════════════════════════════")
	if mgr != nil {
		fmt.Printf("Config File:          %s\n", mgr.Path())
	}
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Printf("Results DB:           %s\n", cfg.ResultsDBPath)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("Analyst Model:        %s\n", cfg.AnalystLLM)
	fmt.Printf("Debate Model:         %s\n", cfg.DebateLLM)
	fmt.Printf("Backend URL:          %s\n", cfg.BackendURL)
	fmt.Println()
	fmt.Printf("Generation Workers:   %d\n", cfg.GenerationConcurrency)
	fmt.Printf("Turns Per Side:       %d\n", cfg.TurnsPerSide)
	fmt.Printf("Min Entrants:         %d\n", cfg.MinEntrants)
	fmt.Printf("Max Allocation:       %.1f%%\n", cfg.MaxAllocationPct)
	fmt.Printf("Target Horizon:       %d months\n", cfg.TargetHorizonMonths)
	fmt.Println()
	fmt.Printf("Online Tools:         %t\n", cfg.OnlineTools)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Printf("Eino Debug Port:      %d\n", cfg.EinoDebugPort)
	}
	fmt.Println()

	fmt.Println("🔌 API Configuration:")
	fmt.Println("─────────────────────")
	printKeyStatus := func(name, value string) {
		if value != "" {
			fmt.Printf("%-22s✅ Configured\n", name+":")
		} else {
			fmt.Printf("%-22s❌ Not configured\n", name+":")
		}
	}
	printKeyStatus("DeepSeek API", cfg.DeepSeekAPIKey)
	printKeyStatus("OpenAI API", cfg.OpenAIAPIKey)
	printKeyStatus("Longport App Key", cfg.LongportAppKey)
}

// runInteractiveMode loops the survey-driven flow until the user quits.
// Edits to the config file take effect on the next tournament, not
// mid-run.
func runInteractiveMode(cfg *config.Config, mgr *config.Manager) error {
	display.Banner()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan config.Config, 1)
	if mgr != nil {
		if err := mgr.Watch(ctx, func(c config.Config) {
			select {
			case reloads <- c:
			default:
			}
		}); err != nil {
			logs.Logger().Warn().Err(err).Msg("config watch unavailable")
		}
	}

	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	for {
		select {
		case c := <-reloads:
			*cfg = c
			display.Info("Configuration reloaded from " + mgr.Path())
		default:
		}

		symbol, err := PromptForTicker()
		if err != nil {
			// ctrl-c in the prompt exits cleanly
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}

		if _, err := runner.Analyze(context.Background(), symbol); err != nil {
			display.Error(err)
		}

		again, err := PromptContinue()
		if err != nil || !again {
			display.Info("Goodbye!")
			return nil
		}
	}
}
