// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// diff is a small CLI to manually run the diffing implementations used for benchmarking on two
// flat list documents.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"znkr.io/listdiff/internal/benchmarks"
	"znkr.io/listdiff/internal/document"
)

type config struct {
	lib  string
	x, y string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.lib, "lib", "listdiff", "library to use for diffing")
	flag.Parse()

	if flag.CommandLine.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "error: usage: diff <x> <y>\n")
		os.Exit(1)
	}
	cfg.x = flag.CommandLine.Arg(0)
	cfg.y = flag.CommandLine.Arg(1)

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	var lib *benchmarks.Impl
	for _, l := range benchmarks.Impls {
		if l.Name == cfg.lib {
			lib = &l
		}
	}
	if lib == nil {
		return fmt.Errorf("lib not found %q", cfg.lib)
	}

	x, err := load(cfg.x)
	if err != nil {
		return err
	}
	y, err := load(cfg.y)
	if err != nil {
		return err
	}

	out := lib.Diff(x, y)
	os.Stdout.Write(out)
	return nil
}

// load reads a flat document and renders it with one item per line.
func load(name string) ([]byte, error) {
	doc, err := document.Load(name)
	if err != nil {
		return nil, err
	}
	if doc.Sectioned() {
		return nil, fmt.Errorf("%s: sectioned documents are not supported", name)
	}
	var buf bytes.Buffer
	for _, item := range doc.Items {
		fmt.Fprintln(&buf, item)
	}
	return buf.Bytes(), nil
}
