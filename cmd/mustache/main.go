// Binary mustache renders a mustache template file against a JSON or YAML
// data file and writes the result to stdout or a file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/benjaminschreck/go-mustache/pkg/mustache"
)

func main() {
	var (
		dataPath     string
		output       string
		partialsPath string
		partialsExt  string
		leftDelim    string
		rightDelim   string
		onMissing    string
		keep         bool
		noEscape     bool
	)

	flag.StringVar(
		&dataPath, "data", "",
		"Data file path (.json, .yaml or .yml)",
	)

	flag.StringVar(
		&output, "output", "",
		"Output file path (stdout if empty)",
	)

	flag.StringVar(
		&partialsPath, "partials", ".",
		"Directory searched for partial files (empty disables)",
	)

	flag.StringVar(
		&partialsExt, "ext", "mustache",
		"File extension for partials",
	)

	flag.StringVar(
		&leftDelim, "left", "{{",
		"Left delimiter",
	)

	flag.StringVar(
		&rightDelim, "right", "}}",
		"Right delimiter",
	)

	flag.StringVar(
		&onMissing, "missing", "ignore",
		"Missing key policy: ignore, warn or error",
	)

	flag.BoolVar(
		&keep, "keep", false,
		"Keep unmatched tags in the output",
	)

	flag.BoolVar(
		&noEscape, "no-escape", false,
		"Do not HTML escape variable values",
	)

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: mustache [flags] <template-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	policy, err := missingKeyPolicy(onMissing)
	if err != nil {
		log.Fatal(err)
	}

	template, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading template: %v", err)
	}

	data, err := loadData(dataPath)
	if err != nil {
		log.Fatalf("loading data: %v", err)
	}

	rendered, err := mustache.RenderWithOptions(string(template), data, &mustache.Options{
		PartialsPath: partialsPath,
		PartialsExt:  partialsExt,
		LeftDelim:    leftDelim,
		RightDelim:   rightDelim,
		OnMissingKey: policy,
		Keep:         keep,
		NoEscape:     noEscape,
	})
	if err != nil {
		log.Fatalf("rendering: %v", err)
	}

	if output == "" {
		fmt.Print(rendered)
		return
	}

	if err := os.WriteFile(output, []byte(rendered), 0o666); err != nil {
		log.Fatalf("writing output: %v", err)
	}
}

// loadData reads the data file and decodes it by extension. An empty path
// yields an empty scope.
func loadData(path string) (interface{}, error) {
	if path == "" {
		return mustache.TemplateData{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	return data, nil
}

func missingKeyPolicy(name string) (mustache.MissingKeyPolicy, error) {
	switch name {
	case "ignore":
		return mustache.MissingKeyIgnore, nil
	case "warn":
		return mustache.MissingKeyWarn, nil
	case "error":
		return mustache.MissingKeyError, nil
	default:
		return 0, fmt.Errorf("unknown missing key policy %q", name)
	}
}
