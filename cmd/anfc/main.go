// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// anfc compiles a single source file through the full lex -> parse ->
// check -> lower -> optimize -> save pipeline, grounded on the plain
// flag.Parse-driven shape of the teacher's cmd/dump and cmd/sdb
// tools: read one positional input file, write to the -o path
// (default <input>.anf), exit non-zero with a message on error rather than panicking.
package main

import (
	"flag"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/anf-ir/anf/check"
	"github.com/anf-ir/anf/diag"
	"github.com/anf-ir/anf/ir"
	"github.com/anf-ir/anf/lower"
	"github.com/anf-ir/anf/parser"
	"github.com/anf-ir/anf/passes"
	"github.com/anf-ir/anf/serialize"
)

// config is the optional -config YAML file controlling pass
// ordering and iteration limits, parsed with sigs.k8s.io/yaml the
// same way the teacher's blockfmt index configuration is loaded.
type config struct {
	LogicFirst bool `json:"logicFirst"`
	DNF        bool `json:"dnf"`
	MaxRounds  int  `json:"maxRounds"`
}

func defaultConfig() config {
	return config{DNF: true, MaxRounds: 16}
}

func loadConfig(path string) (config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

func main() {
	out := flag.String("o", "", "output path (default: <input>.anf)")
	configPath := flag.String("config", "", "optional YAML file controlling optimizer pass order")
	noOpt := flag.Bool("noopt", false, "skip passes/peval, flatten, mem2reg, and logicnorm entirely")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: anfc [-o out.anf] [-config opt.yaml] [-noopt] input.anf.src")
		os.Exit(2)
	}
	in := args[0]

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	src, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't read %q: %s\n", in, err)
		os.Exit(1)
	}

	errs := &diag.List{}
	p := parser.New(in, string(src), errs)
	file := p.ParseFile()
	if errs.Len() > 0 {
		errs.WriteTo(os.Stderr)
		os.Exit(1)
	}

	m := ir.NewModule()
	info := check.Check(m, file, errs)
	if errs.Len() > 0 {
		errs.WriteTo(os.Stderr)
		os.Exit(1)
	}

	lower.Lower(m, file, info, errs)
	if errs.Len() > 0 {
		errs.WriteTo(os.Stderr)
		os.Exit(1)
	}

	if !*noOpt {
		order := passes.OrderEvalFirst
		if cfg.LogicFirst {
			order = passes.OrderLogicFirst
		}
		passes.RunAll(m, order, cfg.DNF, cfg.MaxRounds)
	}

	outPath := *out
	if outPath == "" {
		outPath = in + ".anf"
	}
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't create %q: %s\n", outPath, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := serialize.Save(m, f); err != nil {
		fmt.Fprintf(os.Stderr, "writing %q: %s\n", outPath, err)
		os.Exit(1)
	}
}
