package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sitesmith/config"
	"sitesmith/logger"
	"sitesmith/server"
)

var rootCmd = &cobra.Command{
	Use:   "sitesmith",
	Short: "Sitesmith generates complete static websites from a description",
	Long:  `Sitesmith uses AI to turn a plain-language website description into HTML, CSS, and JavaScript files, packaged as a ready-to-use zip archive.`,
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseGenFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}

		model, err := newGenerateModel(flags)
		if err != nil {
			fmt.Printf("Error initializing model: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(model)
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running program: %v\n", err)
			os.Exit(1)
		}

		model.Shutdown()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the single-page website generator UI",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if addr != "" {
			cfg.ListenAddress = addr
		}

		logger.InitLogger()
		srv := server.New(cfg, logger.GetLogger())
		if err := srv.Run(); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	rootCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	rootCmd.Flags().StringP("key", "k", "", "API key (defaults to OPENAI_API_KEY)")
	rootCmd.Flags().Float32P("temperature", "t", 0.7, "Sampling temperature, 0.0 to 1.0")
	rootCmd.Flags().IntP("max-tokens", "m", 1000, "Per-call output token cap, 100 to 5000")

	serveCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (overrides config)")
}

type genFlags struct {
	config      string
	key         string
	temperature float32
	maxTokens   int
}

func parseGenFlags(cmd *cobra.Command) (genFlags, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return genFlags{}, err
	}

	key, err := cmd.Flags().GetString("key")
	if err != nil {
		return genFlags{}, err
	}

	temperature, err := cmd.Flags().GetFloat32("temperature")
	if err != nil {
		return genFlags{}, err
	}

	maxTokens, err := cmd.Flags().GetInt("max-tokens")
	if err != nil {
		return genFlags{}, err
	}

	return genFlags{
		config:      configPath,
		key:         key,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
