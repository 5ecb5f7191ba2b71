package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/drumtwinlabs/drumtwin"
	"github.com/drumtwinlabs/drumtwin/internal/presentation/tui"
)

// segment is one phase of a scripted scenario.
type segment struct {
	Steps int     `yaml:"steps"`
	Fire  float64 `yaml:"fire"`
}

type scenarioFile struct {
	Name     string    `yaml:"name"`
	Segments []segment `yaml:"segments"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an offline simulation scenario",
	Long: `Runs the twin offline for a scripted fire-intensity profile and prints a
run report. Use --scenario for a multi-phase profile, or --fire/--steps for a
constant one.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApp(cmd)
		if err != nil {
			fmt.Printf("Error initializing drumtwin: %v\n", err)
			os.Exit(1)
		}

		name, segments, err := loadScenario(cmd)
		if err != nil {
			fmt.Printf("Error loading scenario: %v\n", err)
			os.Exit(1)
		}
		aiMode, _ := cmd.Flags().GetBool("ai")
		quiet, _ := cmd.Flags().GetBool("quiet")

		tui.PrintBanner()

		ctx := cmd.Context()
		var results []drumtwin.StepResult
		for _, seg := range segments {
			for i := 0; i < seg.Steps; i++ {
				res, err := app.twin.Step(ctx, "run", seg.Fire, aiMode)
				if err != nil {
					fmt.Printf("Step failed: %v\n", err)
					os.Exit(1)
				}
				results = append(results, res)
				if !quiet {
					fmt.Println(tui.StatusLine(res))
				}
				if res.Snapshot.Status.IsTrip() {
					break
				}
			}
		}

		render := tui.NewRenderer()
		out, err := render(tui.RunReport(name, results))
		if err != nil {
			// Fall back to raw markdown on rendering failure.
			out = tui.RunReport(name, results)
		}
		fmt.Println(out)
	},
}

func loadScenario(cmd *cobra.Command) (string, []segment, error) {
	if path, _ := cmd.Flags().GetString("scenario"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, err
		}
		var sc scenarioFile
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return "", nil, err
		}
		if sc.Name == "" {
			sc.Name = path
		}
		return sc.Name, sc.Segments, nil
	}

	fire, _ := cmd.Flags().GetFloat64("fire")
	steps, _ := cmd.Flags().GetInt("steps")
	return fmt.Sprintf("constant fire %.0f%%", fire), []segment{{Steps: steps, Fire: fire}}, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Float64("fire", 30, "Constant fire intensity (0-100%)")
	runCmd.Flags().Int("steps", 100, "Number of steps for a constant run")
	runCmd.Flags().String("scenario", "", "Path to a YAML scenario file")
	runCmd.Flags().Bool("ai", false, "Enable the supervisory override")
	runCmd.Flags().Bool("quiet", false, "Suppress per-step output")
}
