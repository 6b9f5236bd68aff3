/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/pathx"
	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/builder"
	"dirpx.dev/pathx/config"
	"dirpx.dev/pathx/segment"
)

const (
	name        = "pathx"
	description = "Inspect template path segments and resolve them against documents."
)

// errNotFound is returned by resolve when the path names nothing.
var errNotFound = apis.NewError("pathx: path not found")

// CLI is the top-level command-line interface.
type CLI struct {
	Config   string     `help:"YAML configuration file." short:"c" type:"existingfile"`
	LogLevel slog.Level `default:"warn" help:"Log level (debug, info, warn, error)."`
	NoColor  bool       `help:"Disable colored output."`

	Segment segmentCmd `cmd:"" help:"Classify path components."`
	Resolve resolveCmd `cmd:"" help:"Resolve a dotted path through a YAML or JSON document."`
	Bench   benchCmd   `cmd:"" help:"Measure warm member resolution."`
}

// env is what commands run against.
type env struct {
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
	kind   func(...any) string
	muted  func(...any) string
	value  func(...any) string
}

// run parses args and executes the selected command.
func run(args []string, stdin io.Reader, stdout io.Writer, exit func(int)) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name(name),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(stdout, os.Stderr),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
		kong.Vars{"profile_modes": strings.Join(profileModes(), ",")},
	)
	if err != nil {
		return err
	}
	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cli.LogLevel}))
	cfg := config.DefaultConfig()
	if cli.Config != "" {
		if cfg, err = config.LoadFile(cli.Config); err != nil {
			return err
		}
	}
	pathx.SetAll(&cfg, nil, nil, nil, builder.New(builder.WithLogger(logger)))

	color.NoColor = cli.NoColor || !isTerminal(stdout)
	e := &env{
		in:     stdin,
		out:    stdout,
		logger: logger,
		kind:   color.New(color.FgCyan, color.Bold).SprintFunc(),
		muted:  color.New(color.FgHiBlack).SprintFunc(),
		value:  color.New(color.FgGreen).SprintFunc(),
	}
	return ktx.Run(e)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// segmentCmd prints how each argument is interned.
type segmentCmd struct {
	Raw []string `arg:"" help:"Path components, e.g. '@index' or '[first name]'."`
}

func (c *segmentCmd) Run(e *env) error {
	for _, raw := range c.Raw {
		s := pathx.Intern(raw)
		fmt.Fprintf(e.out, "%s\t%s\t%s\n",
			e.value(fmt.Sprintf("%q", raw)),
			e.kind(s.Kind()),
			e.muted(fmt.Sprintf("trimmed=%q lower=%q this=%t variable=%t value=%t hash=%016x",
				s.Trimmed(), s.Lower(), s.IsThis(), s.IsVariable(), s.IsValue(), s.Hash())))
	}
	return nil
}

// resolveCmd walks a dotted path through a decoded document.
type resolveCmd struct {
	File string `default:"-" help:"Document to read, '-' for stdin." short:"f"`
	Path string `arg:"" help:"Dotted path, e.g. person.address.city."`
}

func (c *resolveCmd) Run(e *env) error {
	r := e.in
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("pathx: decode %s: %w", c.File, err)
	}

	v := doc
	for _, part := range strings.Split(c.Path, ".") {
		seg := pathx.Intern(part)
		if seg.IsThis() {
			continue
		}
		next, found, err := pathx.Resolve(v, nil, seg)
		if err != nil {
			return err
		}
		if !found {
			return errNotFound.With(
				slog.String("path", c.Path),
				slog.String("segment", seg.String()),
				slog.Any("suggestions", suggest(v, seg)))
		}
		v = next
	}
	e.logger.Debug("path resolved", slog.String("path", c.Path))

	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.out, e.value(string(out)))
	return err
}

// maxSuggestions bounds the names offered for a missing segment.
const maxSuggestions = 3

// suggest returns the member or key names of v closest to seg.
func suggest(v any, seg *segment.Segment) []string {
	d := pathx.DescribeValue(v)
	switch d.Iterator().Shape() {
	case apis.ShapeMap, apis.ShapeObject:
	default:
		return nil
	}

	var names []string
	for k := range d.Enumerate(v) {
		names = append(names, fmt.Sprint(k))
	}
	matches := fuzzy.Find(seg.Trimmed(), names)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// benchCmd measures warm resolution against an in-process sample.
type benchCmd struct {
	N           int    `default:"1000000" help:"Resolutions per worker."`
	Parallel    int    `default:"1" help:"Concurrent workers (0 means GOMAXPROCS)."`
	Profile     string `default:"none" enum:"${profile_modes}" help:"Profile the timed loop (${profile_modes})."`
	ProfilePath string `default:"." help:"Directory for profile output." type:"path"`
}

type benchAddress struct {
	City string
}

type benchPerson struct {
	FirstName string `json:"first"`
	Age       int
	Address   *benchAddress
}

func (p *benchPerson) FullName() string { return p.FirstName + " Doe" }

func (c *benchCmd) Run(e *env) error {
	if c.N <= 0 {
		return errors.New("pathx: bench needs a positive --n")
	}
	workers := c.Parallel
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sample := &benchPerson{FirstName: "John", Age: 42, Address: &benchAddress{City: "Oslo"}}
	paths := [][]*segment.Segment{
		{pathx.Intern("firstname")},
		{pathx.Intern("FullName")},
		{pathx.Intern("first")},
		{pathx.Intern("address"), pathx.Intern("city")},
		{pathx.Intern("age")},
	}
	// Warm the caches.
	for _, p := range paths {
		if _, found, err := pathx.ResolvePath(sample, p...); err != nil || !found {
			return fmt.Errorf("pathx: bench sample path %v: found=%t err=%v", p, found, err)
		}
	}

	defer startProfile(c.Profile, c.ProfilePath).Stop()

	start := time.Now()
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < c.N; i++ {
				if _, _, err := pathx.ResolvePath(sample, paths[i%len(paths)]...); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	total := c.N * workers
	fmt.Fprintf(e.out, "%s resolutions on %s workers in %s (%s/op)\n",
		e.value(total), e.value(workers), e.kind(elapsed.Round(time.Microsecond)),
		e.kind(elapsed/time.Duration(total)))
	return nil
}
