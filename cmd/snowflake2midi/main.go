// Package main is the entry point for snowflake2midi CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/james-see/snowflake2midi/pkg/api"
	"github.com/james-see/snowflake2midi/pkg/config"
	"github.com/james-see/snowflake2midi/pkg/converter"
	"github.com/james-see/snowflake2midi/pkg/converter/voices"
	"github.com/james-see/snowflake2midi/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath   string
	outputFile   string
	order        int
	scale        float64
	duration     float64
	clampHarmony bool
	leadVoice    string
	harmonyVoice string
	serverPort   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snowflake2midi",
	Short: "Turn a fractal snowflake into a two-track score",
	Long: `snowflake2midi generates the boundary curve of a recursively subdivided
square and maps every point of it to a lead note, a parallel harmony note
and, every eighth point, a palette chord.

Examples:
  snowflake2midi midi --order 4 --duration 15 -o snowflake.mid
  snowflake2midi compose -o score.json
  snowflake2midi curve -o curve.csv
  snowflake2midi all --dir out
  snowflake2midi inspect snowflake.mid
  snowflake2midi tui
  snowflake2midi serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Write the curve points as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport(converter.FormatCSV),
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Write the score as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport(converter.FormatJSON),
}

var midiCmd = &cobra.Command{
	Use:   "midi",
	Short: "Write the score as a MIDI file",
	Args:  cobra.NoArgs,
	RunE:  runExport(converter.FormatMIDI),
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Write curve, score and MIDI into a directory",
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.mid>",
	Short: "Summarize a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to a JSON settings file")
	pf.IntVarP(&order, "order", "n", 4, "Subdivision order")
	pf.Float64VarP(&scale, "scale", "s", 10, "Seed square radius")
	pf.Float64VarP(&duration, "duration", "t", 15, "Total duration in seconds")
	pf.BoolVar(&clampHarmony, "clamp-harmony", false, "Clamp harmony pitch and velocity to 0..127")
	pf.StringVar(&leadVoice, "lead", "", "Lead voice preset ("+strings.Join(voices.Names(), ", ")+")")
	pf.StringVar(&harmonyVoice, "harmony", "", "Harmony voice preset ("+strings.Join(voices.Names(), ", ")+")")

	curveCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .csv file path (default snowflake.csv)")
	composeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .json file path (default snowflake.json)")
	midiCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path (default snowflake.mid)")
	allCmd.Flags().StringVarP(&outputFile, "dir", "d", "", "Output directory (default from settings)")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(curveCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(midiCmd)
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings reads the settings file and applies flags the user set.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("order") {
		settings.Order = order
	}
	if flags.Changed("scale") {
		settings.Scale = scale
	}
	if flags.Changed("duration") {
		settings.DurationSeconds = duration
	}
	if flags.Changed("clamp-harmony") {
		settings.ClampHarmony = clampHarmony
	}
	if leadVoice != "" {
		v, ok := voices.Lookup(leadVoice)
		if !ok {
			return nil, fmt.Errorf("unknown lead voice %q", leadVoice)
		}
		settings.LeadProgram = v.Program()
	}
	if harmonyVoice != "" {
		v, ok := voices.Lookup(harmonyVoice)
		if !ok {
			return nil, fmt.Errorf("unknown harmony voice %q", harmonyVoice)
		}
		settings.HarmonyProgram = v.Program()
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func newConverter(settings *config.Settings) *converter.Converter {
	conv := converter.New(
		voices.New("Lead", settings.LeadProgram, voices.LeadChannel),
		voices.New("Harmony", settings.HarmonyProgram, voices.HarmonyChannel),
	)
	conv.SetTicksPerQuarter(settings.TicksPerQuarter)
	return conv
}

func request(settings *config.Settings) converter.Request {
	return converter.Request{
		Order:           settings.Order,
		Scale:           settings.Scale,
		DurationSeconds: settings.DurationSeconds,
		ClampHarmony:    settings.ClampHarmony,
	}
}

func runExport(format converter.Format) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		output := outputFile
		if output == "" {
			output = filepath.Join(settings.OutputDir, "snowflake")
		}
		if converter.DetectFormat(output) != format {
			output += format.Extension()
		}

		res, err := converter.Build(request(settings))
		if err != nil {
			return err
		}

		fmt.Printf("Generated order %d curve: %d points, %d events\n",
			settings.Order, res.Curve.Len(), res.Score.Len())

		if err := newConverter(settings).WriteFile(res, output); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", output)
		return nil
	}
}

func runAll(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dir := outputFile
	if dir == "" {
		dir = settings.OutputDir
	}

	fmt.Printf("Exporting order %d snowflake to %s...\n", settings.Order, dir)
	paths, err := newConverter(settings).ExportAll(cmd.Context(), request(settings), dir, "snowflake")
	if err != nil {
		return err
	}

	for _, f := range converter.GetSupportedFormats() {
		fmt.Printf("  %-5s %s\n", f, paths[f])
	}
	fmt.Println("Export complete!")
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if f := converter.DetectFormatFromContent(data); f != converter.FormatMIDI {
		return fmt.Errorf("%s is not a MIDI file (detected %s)", args[0], f)
	}

	sum, err := converter.NewMIDIConverter(0).ParseMIDI(data)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d tracks, %d ticks per quarter, %.2f BPM\n",
		args[0], sum.Tracks, sum.TicksPerQuarter, sum.Tempo)
	for i := 0; i < sum.Tracks; i++ {
		fmt.Printf("  track %d: %d notes, program %d, %d ticks\n",
			i, sum.NoteOns[i], sum.Programs[i], sum.LengthTicks[i])
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	return tui.Run(settings)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort, settings)
}
