package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/autoimport/internal/config"
	"github.com/ludo-technologies/autoimport/internal/constants"
	"github.com/ludo-technologies/autoimport/internal/presets"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an autoimport configuration file",
		Long: `Generate a documented autoimport configuration file.

By default, creates autoimport.yaml in the current directory for the chosen framework.
Use --interactive for a guided setup wizard.

Examples:
  # Create autoimport.yaml for a React project
  autoimport init --framework react

  # Add presets on top of the framework's own
  autoimport init --framework vue --preset @vueuse/core

  # Custom output path
  autoimport init --config config/autoimport.yaml

  # Overwrite existing file
  autoimport init --force

  # Generate smaller config with essential options only
  autoimport init --minimal

  # Interactive setup wizard
  autoimport init -i`,
		Args:          cobra.NoArgs,
		RunE:          runInit,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")
	cmd.Flags().String("framework", string(config.FrameworkGeneric),
		"Framework: "+strings.Join(config.Frameworks(), ", "))
	cmd.Flags().StringSlice("preset", nil,
		"Additional built-in presets")
	cmd.Flags().Bool("dts", true,
		"Enable declaration file generation")

	return cmd
}

// initAnswers holds the choices that shape the generated template
type initAnswers struct {
	Framework  config.Framework
	Presets    []string
	Dts        bool
	ConfigPath string
}

func runInit(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	force, _ := flags.GetBool("force")
	minimal, _ := flags.GetBool("minimal")
	interactive, _ := flags.GetBool("interactive")
	framework, _ := flags.GetString("framework")
	extra, _ := flags.GetStringSlice("preset")
	dts, _ := flags.GetBool("dts")

	answers := initAnswers{
		Framework:  config.Framework(framework),
		Presets:    extra,
		Dts:        dts,
		ConfigPath: configPath,
	}

	if interactive {
		var err error
		answers, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if _, ok := config.GetFrameworkPresets()[answers.Framework]; !ok {
		return fmt.Errorf("unknown framework %q (available: %s)",
			answers.Framework, strings.Join(config.Frameworks(), ", "))
	}
	if err := validatePresetNames(answers.Presets); err != nil {
		return err
	}

	configPath = answers.ConfigPath

	// Check if file exists
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	// Check if parent directory exists
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(answers.Framework, answers.Presets, answers.Dts)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", color.GreenString("Created"), displayPath)
	fmt.Fprintln(out, "\nRun 'autoimport transform src/' to inject imports.")

	return nil
}

// validatePresetNames rejects names that are not built-in presets
func validatePresetNames(names []string) error {
	for _, name := range names {
		if _, ok := presets.Lookup(name); !ok {
			return fmt.Errorf("unknown preset %q. Run 'autoimport presets' for the list", name)
		}
	}
	return nil
}

func runInteractiveSetup(defaultConfigPath string) (initAnswers, error) {
	fmt.Println()
	fmt.Println("autoimport Configuration Setup")
	fmt.Println("==============================")
	fmt.Println()

	frameworkLabels := map[config.Framework]string{
		config.FrameworkGeneric: "Generic JavaScript/TypeScript",
		config.FrameworkPreact:  "Preact",
		config.FrameworkReact:   "React/Next.js",
		config.FrameworkSolid:   "Solid",
		config.FrameworkSvelte:  "Svelte/SvelteKit",
		config.FrameworkVue:     "Vue/Nuxt",
	}
	type frameworkItem struct {
		Label   string
		Presets string
		Value   config.Framework
	}
	var items []frameworkItem
	for _, name := range config.Frameworks() {
		f := config.Framework(name)
		presetList := strings.Join(config.GetFrameworkPresets()[f].Presets, ", ")
		if presetList == "" {
			presetList = "no presets"
		}
		items = append(items, frameworkItem{Label: frameworkLabels[f], Presets: presetList, Value: f})
	}

	frameworkPrompt := promptui.Select{
		Label: "Which framework does this project use?",
		Items: items,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Presets | faint }}",
			Inactive: "   {{ .Label | white }} - {{ .Presets | faint }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}
	idx, _, err := frameworkPrompt.Run()
	if err != nil {
		return initAnswers{}, fmt.Errorf("framework selection cancelled: %w", err)
	}
	answers := initAnswers{Framework: items[idx].Value}

	fmt.Println()

	presetPrompt := promptui.Prompt{
		Label: "Additional presets (comma-separated, empty for none)",
		Validate: func(input string) error {
			return validatePresetNames(splitList(input))
		},
	}
	presetInput, err := presetPrompt.Run()
	if err != nil {
		return initAnswers{}, fmt.Errorf("preset input cancelled: %w", err)
	}
	answers.Presets = splitList(presetInput)

	fmt.Println()

	dtsPrompt := promptui.Select{
		Label: "Generate auto-imports.d.ts for TypeScript?",
		Items: []string{"Yes", "No"},
	}
	dtsIdx, _, err := dtsPrompt.Run()
	if err != nil {
		return initAnswers{}, fmt.Errorf("declaration selection cancelled: %w", err)
	}
	answers.Dts = dtsIdx == 0

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	outputPath, err := outputPrompt.Run()
	if err != nil {
		return initAnswers{}, fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}
	answers.ConfigPath = outputPath

	fmt.Println()
	return answers, nil
}

// splitList splits a comma-separated list, dropping blanks
func splitList(input string) []string {
	var items []string
	for _, item := range strings.Split(input, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
