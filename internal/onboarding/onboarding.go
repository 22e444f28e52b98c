// Package onboarding implements the guided setup flow: pick a provider,
// supply credentials, choose a model, verify the trio with a live request
// and persist the result to the config file.
package onboarding

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/heycli/hey/internal/config"
	"github.com/heycli/hey/internal/provider"
	"github.com/heycli/hey/internal/shellhook"
	"github.com/heycli/hey/internal/ui"
)

var (
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

var providerOptions = []string{
	"openai      OpenAI",
	"anthropic   Anthropic",
	"openrouter  OpenRouter",
	"vercel      Vercel AI Gateway",
}

const customModelOption = "Custom model id..."

// Wizard drives the interactive setup flow.
type Wizard struct {
	Out    io.Writer
	Models *ModelSource
	Gen    *provider.Generator
}

// NewWizard returns a Wizard wired to the given generator and model source.
func NewWizard(gen *provider.Generator, models *ModelSource) *Wizard {
	return &Wizard{
		Out:    color.Output,
		Models: models,
		Gen:    gen,
	}
}

// Run executes the full setup flow and returns the saved file config.
func (w *Wizard) Run(ctx context.Context) (*config.FileConfig, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	existing, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	w.renderIntro()

	detected := config.DetectedKeys()
	if len(detected) > 0 {
		names := make([]string, len(detected))
		for i, d := range detected {
			names[i] = string(d.Provider)
		}
		fmt.Fprintf(w.Out, "%s %s\n", green.Sprint("Found keys:"), strings.Join(names, ", "))
	} else {
		fmt.Fprintln(w.Out, yellow.Sprint("No keys found in env. We can paste one in."))
	}
	w.divider()

	w.step("1/3", "Provider")
	prov, err := w.selectProvider(existing, detected)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w.Out, "%s %s\n", dim.Sprint("Selected:"), bold.Sprint(string(prov)))
	w.divider()

	w.step("2/3", "Credentials")
	key, err := w.selectAPIKey(prov, detected, existing)
	if err != nil {
		return nil, err
	}
	baseURL := prov.DefaultBaseURL()
	w.divider()

	w.step("3/3", "Model")
	model, err := w.selectModel(ctx, prov, baseURL, key, existing)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w.Out, "%s %s\n", dim.Sprint("Base URL:"), dim.Sprint(baseURL))
	w.divider()

	staged := &config.Config{
		Provider: prov,
		Model:    model,
		BaseURL:  baseURL,
		APIKey:   key,
		Plain:    true,
	}

	fmt.Fprint(w.Out, cyan.Sprint("Running a tiny test prompt... "))
	if _, err := w.Gen.Generate(ctx, staged, "print current directory"); err != nil {
		fmt.Fprintln(w.Out, red.Sprint("nope, that didn't work."))
		return nil, fmt.Errorf("provider test failed: %w", err)
	}
	fmt.Fprintln(w.Out, green.Sprint("nice, connection looks good."))

	saved := &config.FileConfig{
		Provider: string(prov),
		Model:    model,
		BaseURL:  baseURL,
		APIKey:   key,
	}
	if existing != nil {
		saved.NoFun = existing.NoFun
	}
	if err := config.SaveFile(configPath, saved); err != nil {
		return nil, err
	}

	fmt.Fprintln(w.Out)
	fmt.Fprintln(w.Out, green.Sprint("Setup complete."))
	fmt.Fprintln(w.Out, dim.Sprintf("Saved config: %s", configPath))

	if err := w.offerShellIntegration(); err != nil {
		return nil, err
	}
	return saved, nil
}

func (w *Wizard) selectProvider(existing *config.FileConfig, detected []config.DetectedKey) (config.Provider, error) {
	suggested := config.ProviderOpenAI
	if len(detected) > 0 {
		suggested = detected[0].Provider
	}
	if existing != nil && existing.Provider != "" {
		if p, ok := config.ParseProvider(existing.Provider); ok {
			suggested = p
		}
	}

	defaultOption := providerOptions[0]
	for _, opt := range providerOptions {
		if strings.HasPrefix(opt, string(suggested)+" ") {
			defaultOption = opt
			break
		}
	}

	choice, err := ui.PromptSelect("Pick your model provider", providerOptions, defaultOption)
	if err != nil {
		return "", err
	}
	p, ok := config.ParseProvider(strings.Fields(choice)[0])
	if !ok {
		return "", fmt.Errorf("invalid provider selection %q", choice)
	}
	return p, nil
}

func (w *Wizard) selectAPIKey(p config.Provider, detected []config.DetectedKey, existing *config.FileConfig) (string, error) {
	for _, d := range detected {
		if d.Provider != p {
			continue
		}
		useDetected, err := ui.PromptYesNo("Use detected env key?", true)
		if err != nil {
			return "", err
		}
		if useDetected {
			return d.Value, nil
		}
		break
	}

	if existing != nil && existing.APIKey != "" {
		useSaved, err := ui.PromptYesNo("Use existing saved key?", true)
		if err != nil {
			return "", err
		}
		if useSaved {
			return existing.APIKey, nil
		}
	}

	for {
		value, err := ui.PromptPassword("API key")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(value) != "" {
			return value, nil
		}
		fmt.Fprintln(w.Out, yellow.Sprint("Key was empty. Paste one in, or Ctrl+C to bail out."))
	}
}

func (w *Wizard) selectModel(ctx context.Context, p config.Provider, baseURL, key string, existing *config.FileConfig) (string, error) {
	fmt.Fprintln(w.Out, dim.Sprint("Loading models..."))
	items, source := w.Models.Candidates(ctx, p, baseURL, key)
	switch source {
	case SourceLive:
		fmt.Fprintf(w.Out, "%s %s\n", green.Sprint("Loaded models from API:"), bold.Sprintf("%d", len(items)))
	case SourceCache:
		fmt.Fprintln(w.Out, yellow.Sprint("Using cached model list."))
	default:
		fmt.Fprintln(w.Out, yellow.Sprint("Using built-in model list."))
	}

	defaultModel := p.DefaultModel()
	if existing != nil && existing.Model != "" {
		defaultModel = existing.Model
	}
	if !contains(items, defaultModel) {
		items = append([]string{defaultModel}, items...)
	}
	items = append(items, customModelOption)

	choice, err := ui.PromptSelect("Select model (type to search)", items, defaultModel)
	if err != nil {
		return "", err
	}
	if choice != customModelOption {
		return choice, nil
	}

	for {
		value, err := ui.PromptInput("Enter model id")
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Fprintln(w.Out, yellow.Sprint("Model id cannot be empty."))
	}
}

func (w *Wizard) offerShellIntegration() error {
	shell, ok := shellhook.DetectShell()
	if !ok {
		fmt.Fprintln(w.Out, dim.Sprint("Tip: run `hey init zsh` or `hey init bash` for parent-shell execution + history."))
		return nil
	}

	install, err := ui.PromptYesNo(fmt.Sprintf("Install shell integration for %s? (recommended)", shell), true)
	if err != nil {
		return err
	}
	if !install {
		fmt.Fprintln(w.Out, dim.Sprint("Skipped. You can run `hey init` anytime to enable parent-shell execution + history."))
		return nil
	}

	res, err := shellhook.Install(shell)
	if err != nil {
		return err
	}
	if res.Updated {
		fmt.Fprintf(w.Out, "%s %s\n", green.Sprint("Installed shell integration:"), res.RCPath)
	} else {
		fmt.Fprintf(w.Out, "%s %s\n", green.Sprint("Shell integration already up to date:"), res.RCPath)
	}
	fmt.Fprintf(w.Out, "%s %s\n", dim.Sprint("Reload shell config:"), bold.Sprintf("source %s", res.RCPath))
	return nil
}

const introWidth = 45

func (w *Wizard) renderIntro() {
	edge := strings.Repeat("─", introWidth)
	fmt.Fprintln(w.Out)
	fmt.Fprintln(w.Out, dim.Sprintf("┌%s┐", edge))
	fmt.Fprintln(w.Out, cyan.Sprintf("│%-*s│", introWidth, " hey setup"))
	fmt.Fprintln(w.Out, dim.Sprintf("│%-*s│", introWidth, " Prompt -> command in under a minute."))
	fmt.Fprintln(w.Out, dim.Sprintf("└%s┘", edge))
	fmt.Fprintln(w.Out)
}

func (w *Wizard) step(id, name string) {
	fmt.Fprintf(w.Out, "%s%s%s\n", dim.Sprint("["), cyan.Sprint(id), dim.Sprint("]"))
	fmt.Fprintln(w.Out, bold.Sprint(name))
	fmt.Fprintln(w.Out)
}

func (w *Wizard) divider() {
	fmt.Fprintln(w.Out)
	fmt.Fprintln(w.Out, dim.Sprint(strings.Repeat("─", introWidth+1)))
	fmt.Fprintln(w.Out)
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
