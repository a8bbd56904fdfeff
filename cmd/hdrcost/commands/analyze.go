package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.trai.ch/hdrcost/internal/app"
	"go.trai.ch/hdrcost/internal/core/domain"
)

const analyzeLong = `Traces the includes of every source under the given paths (default: the
current directory), times the headers shared by enough sources in isolation
and prints them ranked by total cost, with the attributed include tree and
the set of common headers.`

func (c *CLI) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "analyze [paths...]",
		Aliases: []string{"header"},
		Short:   "Rank headers by the compile time they cost",
		Long:    analyzeLong,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			configPath, _ := flags.GetString("config")
			format, _ := flags.GetString("format")
			outputMode, _ := flags.GetString("output")
			noCache, _ := flags.GetBool("no-cache")
			watch, _ := flags.GetBool("watch")

			return c.app.Analyze(cmd.Context(), args, app.AnalyzeOptions{
				ConfigPath: configPath,
				Overrides:  overrides(flags),
				NoCache:    noCache,
				Format:     format,
				OutputMode: outputMode,
				Watch:      watch,
			})
		},
	}

	f := cmd.Flags()
	f.Int("min-refs", domain.DefaultMinRefs, "Minimum number of including sources before a header is timed")
	f.String("min-duration", domain.DefaultMinDuration.String(), "Cpu time below which headers are not reported and their subtrees are not timed (seconds or a duration)")
	f.Float64("common-pct", domain.DefaultCommonPercent, "Percentage of sources a header must reach to count as common")
	f.String("bin", domain.DefaultCompiler, "Compiler driver")
	f.String("flags", "", "Compiler flags, split like a shell command line")
	f.String("cache-dir", domain.DefaultCachePath(), "Directory for cached traces and timings")
	f.StringSlice("ext", []string{domain.DefaultExtension}, "Source file extensions to analyze")
	f.IntP("jobs", "j", 0, "Number of concurrent compiler invocations (default: number of CPUs)")
	f.String("timer", string(domain.TimerHarness), "Timing method: harness or rusage")
	f.String("harness", domain.DefaultHarness, "Timing harness program for the harness timer")
	f.StringP("config", "c", "", "Path to the config file (default: "+domain.ConfigFileName+" if present)")
	f.StringP("format", "f", "text", "Report format: text or json")
	f.StringP("output", "o", "auto", "Progress output: auto, progress, or quiet")
	f.BoolP("no-cache", "n", false, "Do not read or write the result cache")
	f.BoolP("watch", "w", false, "Analyze again whenever a file under the given paths changes")
	return cmd
}

// overrides collects the option flags the user set explicitly, so values
// from the config file survive unless overridden.
func overrides(flags *pflag.FlagSet) app.Overrides {
	var o app.Overrides
	if flags.Changed("min-refs") {
		v, _ := flags.GetInt("min-refs")
		o.MinRefs = &v
	}
	if flags.Changed("min-duration") {
		v, _ := flags.GetString("min-duration")
		o.MinDuration = &v
	}
	if flags.Changed("common-pct") {
		v, _ := flags.GetFloat64("common-pct")
		o.CommonPercent = &v
	}
	if flags.Changed("bin") {
		v, _ := flags.GetString("bin")
		o.Compiler = &v
	}
	if flags.Changed("flags") {
		v, _ := flags.GetString("flags")
		o.Flags = &v
	}
	if flags.Changed("cache-dir") {
		v, _ := flags.GetString("cache-dir")
		o.CacheDir = &v
	}
	if flags.Changed("ext") {
		o.Extensions, _ = flags.GetStringSlice("ext")
	}
	if flags.Changed("jobs") {
		v, _ := flags.GetInt("jobs")
		o.Jobs = &v
	}
	if flags.Changed("timer") {
		v, _ := flags.GetString("timer")
		o.Timer = &v
	}
	if flags.Changed("harness") {
		v, _ := flags.GetString("harness")
		o.Harness = &v
	}
	return o
}
