// Package main is the entry point for the rc0patch CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/james-see/rc0patch/pkg/api"
	"github.com/james-see/rc0patch/pkg/config"
	"github.com/james-see/rc0patch/pkg/converter"
	"github.com/james-see/rc0patch/pkg/library"
	"github.com/james-see/rc0patch/pkg/mcpserver"
	"github.com/james-see/rc0patch/pkg/rc0"
	"github.com/james-see/rc0patch/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	channel    int
	outputFile string
	outFormat  string
	serverPort int
)

// app is built from the config and flags before any command runs
var app struct {
	cfg    *config.Config
	logger *log.Logger
	lib    *library.Library
	conv   *converter.Converter
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rc0patch",
	Short: "Read, write and convert looper patch (.RC0) files",
	Long: `rc0patch reads and writes the MEMORYnnnA/B.RC0 and SYSTEMn.RC0 files
of the looper's DATA directory, and converts memories to and from JSON
and YAML.

Examples:
  rc0patch decode MEMORY001A.RC0 -o memory1.json
  rc0patch encode memory1.json -o MEMORY001A.RC0
  rc0patch info MEMORY001A.RC0
  rc0patch list --data-dir /media/RC-600/ROLAND/DATA
  rc0patch recall MEMORY001A.RC0 --channel 2
  rc0patch tui
  rc0patch serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <input.RC0>",
	Short: "Decode a .RC0 file to JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <input.json|input.yaml>",
	Short: "Encode a JSON or YAML patch to a .RC0 file",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect and convert between formats",
	Long:  `Automatically detects input format and converts to the output format based on file extension.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Show a summary of a patch",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the .RC0 files of the DATA directory",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var memoryCmd = &cobra.Command{
	Use:   "memory <n>",
	Short: "Decode the current copy of memory n from the DATA directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemory,
}

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show the control groups of the current SYSTEM file",
	Args:  cobra.NoArgs,
	RunE:  runSystem,
}

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "List the effect types",
	Args:  cobra.NoArgs,
	RunE:  runEffects,
}

var recallCmd = &cobra.Command{
	Use:   "recall <input.RC0>",
	Short: "Write a MIDI file that selects the patch's memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecall,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
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

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve patch tools over MCP on stdio",
	RunE:  runMCP,
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default ~/.config/rc0patch/config.yaml)")
	pf.StringVar(&dataDir, "data-dir", "", "DATA directory of the looper")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.IntVar(&channel, "channel", 0, "MIDI channel 1-16 for recall files")

	decodeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default stdout)")
	decodeCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "Output format (json, yaml)")

	encodeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .RC0 file path")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	memoryCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "Output format (json, yaml)")

	recallCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (default from config)")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(effectsCmd)
	rootCmd.AddCommand(recallCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if channel != 0 {
		cfg.MIDIChannel = channel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	app.cfg = cfg
	app.logger = cfg.NewLogger()
	app.lib = library.New(cfg.DataDir, app.logger)
	app.conv = converter.New(app.lib.Codec())
	app.conv.SetMIDIChannel(cfg.Channel())
	app.conv.SetIndent(cfg.Indent)
	return nil
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

// writeOutput writes data to the -o file, or stdout when none was given
func writeOutput(data []byte) error {
	if outputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	app.logger.Info("wrote file", "path", outputFile)
	return nil
}

func textFormat() (converter.Format, error) {
	switch f := converter.Format(strings.ToLower(outFormat)); f {
	case converter.FormatJSON, converter.FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", outFormat)
	}
}

func runDecode(cmd *cobra.Command, args []string) error {
	format, err := textFormat()
	if err != nil {
		return err
	}
	p, err := app.lib.Codec().ReadPatchFile(args[0])
	if err != nil {
		return err
	}
	out, err := app.conv.Encode(p, format)
	if err != nil {
		return err
	}
	return writeOutput(out)
}

func runEncode(cmd *cobra.Command, args []string) error {
	input := args[0]
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	from := converter.DetectFormat(input)
	if from != converter.FormatJSON && from != converter.FormatYAML {
		from = converter.DetectFormatFromContent(data)
	}
	p, err := app.conv.Decode(data, from)
	if err != nil {
		return err
	}

	output := getOutputPath(input, ".RC0")
	if err := app.lib.Codec().WritePatchFile(output, p); err != nil {
		return err
	}
	fmt.Printf("Encoded %s -> %s\n", input, output)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	fmt.Printf("Converting %s -> %s\n", input, outputFile)
	if err := app.conv.ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	from := converter.DetectFormat(args[0])
	if from == converter.FormatUnknown {
		from = converter.DetectFormatFromContent(data)
	}
	p, err := app.conv.Decode(data, from)
	if err != nil {
		return err
	}
	fmt.Print(tui.Summary(p))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	entries, err := app.lib.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No .RC0 files in %s\n", app.lib.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tKIND\tNUMBER\tCOUNT\tSIZE")
	for _, e := range entries {
		count := "-"
		if e.HasCount {
			count = rc0.FormatCount(e.Count)
		}
		fmt.Fprintf(w, "%s\t%s\t%d%s\t%s\t%d\n", e.Name, e.Kind, e.Number, e.Variant, count, e.Size)
	}
	return w.Flush()
}

func runMemory(cmd *cobra.Command, args []string) error {
	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
		return fmt.Errorf("invalid memory number %q", args[0])
	}
	format, err := textFormat()
	if err != nil {
		return err
	}

	p, name, err := app.lib.Memory(n)
	if err != nil {
		return err
	}
	app.logger.Debug("current copy", "memory", n, "file", name)

	out, err := app.conv.Encode(p, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func runSystem(cmd *cobra.Command, args []string) error {
	name, err := app.lib.AuthoritativeSystemFile()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(app.lib.Dir(), name))
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", name)
	fmt.Print(rc0.EncodeControlSettings(rc0.DecodeControlSettings(string(data))))
	return nil
}

func runEffects(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSEQ")
	for _, e := range rc0.Effects() {
		seq := ""
		if e.Sequence {
			seq = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Name, seq)
	}
	return w.Flush()
}

func runRecall(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".mid")

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	result, err := app.conv.RC0ToMIDI(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, result, 0644); err != nil {
		return err
	}

	fmt.Printf("Converted %s -> %s\n", input, output)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := app.cfg.Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	dir := app.cfg.DataDir
	if _, err := os.Stat(dir); err != nil {
		dir = ""
	}
	return tui.Run(app.conv, dir)
}

func runServe(cmd *cobra.Command, args []string) error {
	port := app.cfg.Port
	if serverPort != 0 {
		port = serverPort
	}
	app.logger.Info("starting API server", "port", port, "data", app.cfg.DataDir)
	return api.StartServer(port, app.conv, app.lib)
}

func runMCP(cmd *cobra.Command, args []string) error {
	return mcpserver.NewTools(app.conv, app.lib, app.logger).Serve(version)
}
