package ui

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
)

// PromptForRequest asks for the natural-language request when none was given
// on the command line.
func PromptForRequest() (string, error) {
	var request string
	prompt := &survey.Input{
		Message: "What command do you want?",
	}
	if err := survey.AskOne(prompt, &request, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(request), nil
}

// PromptSelect asks the user to pick one of options. Typing filters the list.
func PromptSelect(message string, options []string, defaultOption string) (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultOption,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

// PromptYesNo asks a yes/no question
func PromptYesNo(message string, defaultYes bool) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultYes,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// PromptPassword asks for a secret without echoing it
func PromptPassword(message string) (string, error) {
	var value string
	prompt := &survey.Password{
		Message: message,
	}
	if err := survey.AskOne(prompt, &value); err != nil {
		return "", err
	}
	return value, nil
}

// PromptInput asks for a single line of text
func PromptInput(message string) (string, error) {
	var value string
	prompt := &survey.Input{
		Message: message,
	}
	if err := survey.AskOne(prompt, &value); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	c := color.New(color.FgGreen, color.Bold)
	c.Printf("✓ %s\n", message)
}

// ShowError displays an error message on stderr
func ShowError(message string) {
	c := color.New(color.FgRed, color.Bold)
	c.Fprintf(color.Error, "✗ %s\n", message)
}

// ShowInfo displays an info message
func ShowInfo(message string) {
	c := color.New(color.FgBlue)
	c.Println(message)
}
