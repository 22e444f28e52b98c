package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/heycli/hey/internal/config"
	"github.com/heycli/hey/internal/modelcache"
	"github.com/heycli/hey/internal/onboarding"
	"github.com/heycli/hey/internal/provider"
	"github.com/heycli/hey/internal/safety"
	"github.com/heycli/hey/internal/shellhook"
	"github.com/heycli/hey/internal/ui"
)

var (
	// version is set by goreleaser at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// CLI flags
	flagProvider   string
	flagModel      string
	flagBaseURL    string
	flagAPIKey     string
	flagOutputFile string
	flagExplain    bool
	flagJSON       bool
	flagPlain      bool
	flagNoFun      bool
	flagPrint      bool
	debug          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hey [prompt...]",
		Short:         "Natural language to shell commands",
		Long:          "hey turns a natural-language request into a single shell command you can review, run, copy or regenerate.",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "Provider to use (openai, anthropic, openrouter, vercel)")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Model id override")
	rootCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "API base URL override")
	rootCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "API key override")
	rootCmd.Flags().StringVar(&flagOutputFile, "output-file", "", "Write the accepted command to this file instead of executing it")
	rootCmd.Flags().BoolVarP(&flagExplain, "explain", "e", false, "Show the model's explanation")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit one JSON line and exit")
	rootCmd.Flags().BoolVar(&flagPlain, "plain", false, "Emit the bare command and exit")
	rootCmd.Flags().BoolVar(&flagNoFun, "no-fun", false, "Keep output strictly factual")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactive provider, key and model setup",
		RunE:  runSetup,
	}

	initCmd := &cobra.Command{
		Use:   "init [bash|zsh]",
		Short: "Install the shell integration block into your shell profile",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	initCmd.Flags().BoolVar(&flagPrint, "print", false, "Print the integration block instead of installing it")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		ui.ShowError(err.Error())
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	ov := config.Overrides{
		Provider:   flagProvider,
		Model:      flagModel,
		BaseURL:    flagBaseURL,
		APIKey:     flagAPIKey,
		OutputFile: flagOutputFile,
		Explain:    flagExplain,
		JSON:       flagJSON,
		Plain:      flagPlain,
		NoFun:      flagNoFun,
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] Config: loading from %s\n", configPath)
	}
	fileCfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(ov, fileCfg)
	if err != nil {
		return err
	}
	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] Config: resolved (provider=%s, model=%s, base_url=%s)\n",
			cfg.Provider, cfg.Model, cfg.BaseURL)
	}

	classifier, err := loadClassifier()
	if err != nil {
		return err
	}
	gen := provider.New(classifier)
	gen.Debug = debug

	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if cfg.APIKey == "" {
		if !stdinTTY || !stdoutTTY {
			return fmt.Errorf("missing API key. Run `hey setup` or set provider env key (OPENAI_API_KEY / ANTHROPIC_API_KEY / OPENROUTER_API_KEY / VERCEL_AI_GATEWAY_API_KEY)")
		}
		fmt.Fprintln(os.Stderr, "No provider key found. Launching onboarding...")
		saved, err := newWizard(gen).Run(cmd.Context())
		if err != nil {
			return err
		}
		if err := cfg.ApplySetup(saved); err != nil {
			return err
		}
	}

	prompt, err := resolvePrompt(args, stdinTTY)
	if err != nil {
		return err
	}
	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] Main: starting with request: %q\n", prompt)
	}

	interactive := stdinTTY && stdoutTTY && !cfg.JSON && !cfg.Plain
	if !interactive {
		out, err := gen.Generate(cmd.Context(), cfg, prompt)
		if err != nil {
			return err
		}
		return emitNonInteractive(cfg, out)
	}

	session := ui.NewSession(cfg, gen)
	if err := session.Run(cmd.Context(), prompt); err != nil {
		// The child command's own output already went to the terminal, so an
		// accepted command that failed just forwards its exit status.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	return nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	classifier, err := loadClassifier()
	if err != nil {
		return err
	}
	gen := provider.New(classifier)
	gen.Debug = debug

	_, err = newWizard(gen).Run(cmd.Context())
	return err
}

func runInit(cmd *cobra.Command, args []string) error {
	var shell shellhook.Shell
	if len(args) > 0 {
		parsed, ok := shellhook.ParseShell(args[0])
		if !ok {
			return fmt.Errorf("unsupported shell %q (use: bash, zsh)", args[0])
		}
		shell = parsed
	} else {
		detected, ok := shellhook.DetectShell()
		if !ok {
			return fmt.Errorf("could not detect shell. Run `hey init zsh` or `hey init bash`.")
		}
		shell = detected
	}

	if flagPrint {
		fmt.Print(shellhook.Block(shell))
		return nil
	}

	res, err := shellhook.Install(shell)
	if err != nil {
		return err
	}
	if res.Updated {
		ui.ShowSuccess(fmt.Sprintf("Installed shell integration for %s at %s", res.Shell, res.RCPath))
	} else {
		ui.ShowInfo(fmt.Sprintf("Shell integration already up to date for %s at %s", res.Shell, res.RCPath))
	}
	ui.ShowInfo(fmt.Sprintf("Restart shell or run: source %s", res.RCPath))
	return nil
}

// newWizard wires the onboarding flow. A broken model cache only disables
// cached listings, it never blocks setup.
func newWizard(gen *provider.Generator) *onboarding.Wizard {
	var cache *modelcache.Store
	if path, err := modelcache.DefaultPath(); err == nil {
		store, err := modelcache.Open(path)
		if err == nil {
			cache = store
		} else if debug {
			fmt.Fprintf(os.Stderr, "[DEBUG] Setup: model cache unavailable: %v\n", err)
		}
	}
	return onboarding.NewWizard(gen, onboarding.NewModelSource(cache))
}

// loadClassifier reads the optional safety rules overlay next to the config
// file. No overlay means built-in rules only.
func loadClassifier() (*safety.Classifier, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return safety.NewClassifier(), nil
	}
	return safety.LoadClassifier(filepath.Join(dir, "safety.yaml"))
}

// resolvePrompt takes the request from the command line, or asks for one on a
// terminal, or reads it from piped stdin.
func resolvePrompt(args []string, stdinTTY bool) (string, error) {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt != "" {
		return prompt, nil
	}

	if stdinTTY {
		return ui.PromptForRequest()
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	prompt = strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("missing prompt from stdin")
	}
	return prompt, nil
}

// emitNonInteractive prints the generation result for scripted callers: one
// JSON line in json mode, otherwise the bare command with the explanation on
// stderr when requested.
func emitNonInteractive(cfg *config.Config, out provider.Output) error {
	if cfg.JSON {
		payload := struct {
			Provider    string       `json:"provider"`
			Model       string       `json:"model"`
			Command     string       `json:"command"`
			Explanation string       `json:"explanation"`
			Safety      safety.Level `json:"safety"`
		}{
			Provider:    string(cfg.Provider),
			Model:       cfg.Model,
			Command:     out.Command,
			Explanation: out.Explanation,
			Safety:      out.Safety,
		}
		line, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		fmt.Println(string(line))
		return nil
	}

	if cfg.Explain {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(out.Explanation))
	}
	if cfg.OutputFile != "" {
		if err := os.WriteFile(cfg.OutputFile, []byte(strings.TrimSpace(out.Command)+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	fmt.Println(strings.TrimSpace(out.Command))
	return nil
}
