package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antoKeinanen/novarum/pkg/config"
	"github.com/antoKeinanen/novarum/pkg/diagram"
	"github.com/antoKeinanen/novarum/pkg/lint"
	"github.com/antoKeinanen/novarum/pkg/schema"
	"github.com/antoKeinanen/novarum/pkg/tui"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "novarum [script]",
	Short: "Interactive setup scripts",
	Long: `novarum runs line-oriented setup scripts that ask questions (select,
multiselect, searchselect), branch on the answers (if), and run shell
commands. Without arguments it offers the scripts in the config directory.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// --- validate ---

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate [script.novconf|scenario.yaml...]",
	Short: "Check scripts or scenario files without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	report := map[string]any{}
	for _, path := range args {
		if isScenarioPath(path) {
			s, errs := schema.ValidateFile(path)
			report[path] = errs
			if schema.HasErrors(errs) {
				failed++
				if !validateJSON {
					printScenarioErrors(path, errs)
				}
				continue
			}
			if !validateJSON {
				printScenarioErrors(path, errs)
				fmt.Printf("✓ scenario %s is valid (%d answers)\n", s.Name, len(s.Answers))
			}
			continue
		}

		res, err := lint.CheckFile(path)
		if err != nil {
			return err
		}
		report[path] = res
		if !validateJSON {
			printDiagnostics(path, res.Diagnostics)
		}
		if lint.HasErrors(res.Diagnostics) {
			failed++
			continue
		}
		if !validateJSON {
			fmt.Printf("✓ %s is valid (%d prompts)\n", path, len(res.Blocks))
		}
	}
	if validateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)
	}
	if failed > 0 {
		return fmt.Errorf("validation failed for %d file(s)", failed)
	}
	return nil
}

func isScenarioPath(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// --- doc ---

var (
	docRaw     bool
	docDiagram string
)

var docCmd = &cobra.Command{
	Use:   "doc [script]",
	Short: "Show a script's documentation",
	Long: `Render a script's leading comment block and the prompts it asks as
markdown. With --diagram, draw its control flow instead (mermaid or ascii).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveScript(args[0])
		if err != nil {
			return err
		}
		if docDiagram != "" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out, err := diagram.Generate(name, f, diagram.Format(docDiagram))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}
		md, err := lint.Document(path)
		if err != nil {
			return err
		}
		if docRaw {
			fmt.Print(md)
			return nil
		}
		fmt.Println(tui.RenderMarkdown(md, 80))
		return nil
	},
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scripts in the config directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		scripts, err := config.Discover(dir)
		if err != nil {
			return err
		}
		if len(scripts) == 0 {
			fmt.Fprintf(os.Stderr, "No scripts in %s. Run 'novarum init' to create an example.\n", dir)
			return nil
		}
		for _, s := range scripts {
			fmt.Printf("  %-24s %s\n", s.Name, s.Path)
		}
		return nil
	},
}

// --- init ---

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config directory with an example script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		path, err := config.Bootstrap(dir)
		if err != nil {
			return err
		}
		fmt.Printf("✓ config directory ready: %s\n", dir)
		fmt.Printf("  example script: %s\n", path)
		return nil
	},
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Scenario schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the scenario JSON Schema to stdout",
	RunE:  runSchemaExport,
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	// Pretty-print the JSON
	var out json.RawMessage = data
	formatted, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(string(formatted))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("novarum %s (build: %s)\n", version, commit)
	},
}

func init() {
	// run flags, shared by the root command and run
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&runMode, "mode", "real", "Execution mode: real, dry-run, or replay")
		c.Flags().StringVar(&runScenario, "scenario", "", "Path to scenario YAML (required for replay)")
		c.Flags().StringVar(&runTrace, "trace", "", "Write a JSONL trace of the run to this file")
		c.Flags().StringVar(&runRecord, "record", "", "Save the answers and commands as a scenario YAML file")
		c.Flags().BoolVar(&runPlain, "plain", false, "Use line-mode prompts instead of the full-screen picker")
		c.Flags().BoolVar(&runDefaults, "defaults", false, "Answer every prompt with its default (first option, nothing for multiselect)")
	}

	// debug flags
	debugCmd.Flags().StringVar(&debugMode, "mode", "dry-run", "Execution mode: real, dry-run, or replay")
	debugCmd.Flags().StringVar(&debugScenario, "scenario", "", "Path to scenario YAML (required for replay)")

	// test flags
	testCmd.Flags().StringVar(&testScenario, "scenario", "", "Run only the named scenario (default: all)")
	testCmd.Flags().BoolVar(&testJSON, "json", false, "Output results as structured JSON")
	testCmd.Flags().BoolVar(&testFailFast, "fail-fast", false, "Stop after first failure")
	testCmd.Flags().BoolVar(&testStrict, "strict", false, "Fail shell lines the scenario does not list")
	testCmd.Flags().StringVar(&testTimeout, "timeout", "30s", "Per-scenario timeout (e.g. 30s, 1m)")

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output diagnostics as JSON")
	docCmd.Flags().BoolVar(&docRaw, "raw", false, "Print markdown without rendering")
	docCmd.Flags().StringVar(&docDiagram, "diagram", "", "Draw the control flow: mermaid or ascii")

	// schema subcommands
	schemaCmd.AddCommand(schemaExportCmd)

	// root subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}
