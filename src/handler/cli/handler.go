package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marklint/src/config"
	"marklint/src/plugin/wix"
	"marklint/src/service/evaluator"
	"marklint/src/service/index"
	"marklint/src/util"
)

// Handler handles CLI commands
type Handler struct {
	cfg        *config.Config
	configPath string
	registry   *evaluator.Registry
	symbols    *index.SymbolIndex
	rootCmd    *cobra.Command
}

// New creates a new CLI handler
func New() *Handler {
	h := &Handler{}
	h.setupCommands()
	return h
}

func (h *Handler) setupCommands() {
	h.rootCmd = &cobra.Command{
		Use:   "marklint",
		Short: "Static analysis for installer authoring XML",
		Long:  "Parses installer XML into a positioned node tree, evaluates rules and reports diagnostics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := h.loadConfig(); err != nil {
				return err
			}
			return h.registerPlugins()
		},
	}

	h.rootCmd.PersistentFlags().StringVarP(&h.configPath, "config", "c", "",
		"Path to configuration file")

	h.rootCmd.AddCommand(h.analyzeCmd())
	h.rootCmd.AddCommand(h.baselineCmd())
	h.rootCmd.AddCommand(h.rulesCmd())
	h.rootCmd.AddCommand(h.versionCmd())
}

func (h *Handler) loadConfig() error {
	loader := config.NewLoader()
	cfg, err := loader.Load(h.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	h.cfg = cfg

	util.SetDefaultLogger(cfg.Logging)
	util.Debug("Configuration loaded successfully")
	return nil
}

// registerPlugins builds the symbol index and plugin registry. Rule
// misconfiguration surfaces here, before any file is scanned.
func (h *Handler) registerPlugins() error {
	h.symbols = index.NewSymbolIndex()
	h.registry = evaluator.NewRegistry()

	wixPlugin, err := wix.New(h.symbols)
	if err != nil {
		return fmt.Errorf("initializing wix plugin: %w", err)
	}
	if err := h.registry.Register(wixPlugin); err != nil {
		return fmt.Errorf("registering wix plugin: %w", err)
	}
	return nil
}

// Execute runs the CLI
func (h *Handler) Execute() error {
	return h.rootCmd.Execute()
}

// Run is the main entry point
func Run() {
	handler := New()
	if err := handler.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
