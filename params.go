package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/suitest/suitest/framework"
)

const commandName = "suitest"

type commandParams struct {
	configPath string
	filters    framework.RegexFilters
	delayMS    int
	timeoutMS  int
	noColor    bool
	progress   bool
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(commandName, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.configPath, "config", "", "JSON or YAML file with report and scheduling options")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run, matched against \"module/test\"")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.IntVar(&c.delayMS, "delay", -1, "milliseconds before each test action starts (overrides config)")
	fs.IntVar(&c.timeoutMS, "timeout", -1, "milliseconds before a module is finalized with incomplete tests (overrides config)")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored status words in the report")
	fs.BoolVar(&c.progress, "progress", false, "show a progress bar instead of per-test log lines")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	return true
}

// config loads the config file, if any, and applies the flags on top of it.
func (c *commandParams) config(colorByDefault bool) (framework.Config, error) {
	var config framework.Config
	if c.configPath != "" {
		loaded, err := framework.LoadConfig(c.configPath)
		if err != nil {
			return framework.Config{}, fmt.Errorf("%s: %w", c.configPath, err)
		}
		config = loaded
	} else {
		config.Color = colorByDefault
	}
	if c.delayMS >= 0 {
		config.DefaultDelayMS = ldvalue.NewOptionalInt(c.delayMS)
	}
	if c.timeoutMS >= 0 {
		config.RunTimeoutMS = ldvalue.NewOptionalInt(c.timeoutMS)
	}
	if c.noColor {
		config.Color = false
	}
	return config, config.Validate()
}

// rerunCommand returns a command line that runs only the named tests again with the same
// options.
func (c *commandParams) rerunCommand(testNames []string) string {
	var b commandBuilder
	b.add(commandName)
	if c.configPath != "" {
		b.add("-config", c.configPath)
	}
	for _, name := range testNames {
		b.add("-run", "^"+regexp.QuoteMeta(name)+"$")
	}
	if c.delayMS >= 0 {
		b.add("-delay", fmt.Sprint(c.delayMS))
	}
	if c.timeoutMS >= 0 {
		b.add("-timeout", fmt.Sprint(c.timeoutMS))
	}
	if c.noColor {
		b.add("-no-color")
	}
	b.add("-debug")
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
