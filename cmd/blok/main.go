// Command blok registers blok modules and instantiates objects by name.
//
//	blok [-config file] [-list] [-create name]... [-metrics] module...
//
// With -list it prints the descriptor of every module and stops. Otherwise
// each module is registered, then each -create name is instantiated, one
// OK or FAILED line per step.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/AnatoleLucet/blok"
	"github.com/AnatoleLucet/blok/blocks"
	"github.com/AnatoleLucet/blok/config"
	"github.com/AnatoleLucet/blok/errors"
	"github.com/AnatoleLucet/blok/metric"
)

var modules = map[string]blok.Module{
	blocks.Module.Name: blocks.Module,
}

// names is a repeatable string flag.
type names []string

func (n *names) String() string {
	return strings.Join(*n, ",")
}

func (n *names) Set(v string) error {
	*n = append(*n, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		create  names
		fs      = flag.NewFlagSet("blok", flag.ContinueOnError)
		path    = fs.String("config", "", "YAML configuration `file`")
		list    = fs.Bool("list", false, "print module descriptors and exit")
		metrics = fs.Bool("metrics", false, "print collected metrics before exiting")
	)
	fs.Var(&create, "create", "instantiate the object registered under `name` (repeatable)")
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	logger := cfg.Logger(stderr)

	var (
		m   *metric.Metrics
		reg = prometheus.NewRegistry()
	)
	if cfg.Metrics.Enabled || *metrics {
		m = metric.New(cfg.Metrics.Namespace)
		if err := m.Register(reg); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	blok.Init(
		blok.WithLogger(logger),
		blok.WithMetrics(m),
		blok.WithDefaultExecutive(cfg.Executive.Default),
	)
	defer blok.Reset()

	requested := append(append([]string{}, cfg.Modules...), fs.Args()...)
	if *list {
		return describe(requested, stdout)
	}

	status := 0
	for _, name := range requested {
		mod, ok := modules[name]
		if !ok || mod.Register == nil || !mod.Register() {
			logger.Warn("module registration failed", "module", name, "known", ok)
			fmt.Fprintf(stdout, "register %s FAILED\n", name)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "register %s OK\n", name)
	}

	for _, name := range append(append([]string{}, cfg.Create...), create...) {
		obj := blok.CreateUnique(name)
		if obj == nil {
			logger.Warn("create failed", "error", errors.Wrap(errors.ErrUnknownName, "blok", "create", name+" lookup"))
			fmt.Fprintf(stdout, "create %s FAILED\n", name)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "create %s OK\n", name)
		logger.Debug("created", "name", name, "id", obj.ID().String(), "format", obj.Format().String())

		if d, ok := obj.(interface{ Destroy() }); ok {
			d.Destroy()
		}
	}

	if m != nil {
		if err := dump(reg, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return status
}

func describe(requested []string, stdout io.Writer) int {
	status := 0
	for _, name := range requested {
		mod, ok := modules[name]
		if !ok || mod.Describe == nil {
			fmt.Fprintf(stdout, "%s: unknown module\n", name)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "%s: %s\n", name, mod.Describe())
	}
	return status
}

func dump(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
