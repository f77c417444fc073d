package cli

import "flag"

const versionString = "0.4.0"
const defaultConfigPath = "./rosview.toml"

type cliOptions struct {
	configPath  string
	once        bool
	ui          bool
	graphPath   string
	exportGraph string
	records     bool
	since       string
	until       string
	limit       int
	level       int
	verbose     bool
	version     bool
	args        []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("rosview", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", false, "Ingest existing logs once and exit")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode")
	fs.StringVar(&opts.graphPath, "graph", "", "Graph description file (overrides graph.file)")
	fs.StringVar(&opts.exportGraph, "export-graph", "", "Write the loaded graph description to this path and exit")
	fs.BoolVar(&opts.records, "records", false, "Print stored records that pass the console filters and exit")
	fs.StringVar(&opts.since, "since", "", "Only records at/after this timestamp (RFC3339 or YYYY-MM-DD)")
	fs.StringVar(&opts.until, "until", "", "Only records at/before this timestamp (RFC3339 or YYYY-MM-DD)")
	fs.IntVar(&opts.limit, "limit", 0, "Maximum number of records to print (0 = no limit)")
	fs.IntVar(&opts.level, "level", -1, "Highlight level 0-3 (overrides graph.highlight_level)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
