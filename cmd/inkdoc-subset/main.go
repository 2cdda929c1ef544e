// Command inkdoc-subset reads a font file, subsets it down to a used
// character set, and writes the re-serialized result. Character sets
// come either from a literal -chars string or a -profile YAML file of
// named presets, matching the teacher's flag-only CLI shape
// (cmd/render_pdf.go) extended with the profile idea other pack repos
// use for structured config-ish input (SPEC_FULL.md's DOMAIN STACK
// entry for gopkg.in/yaml.v2).
package main

import (
	"flag"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/inkdoc/inkdoc/internal/obslog"
	"github.com/inkdoc/inkdoc/pkg/font"
)

// profile is the shape of a -profile YAML file: named presets, each a
// literal run of characters to keep, e.g.
//
//	latin-basic: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
type profile map[string]string

func main() {
	in := flag.String("in", "", "input font file (.ttf)")
	out := flag.String("out", "", "output subsetted font file")
	chars := flag.String("chars", "", "literal characters to keep")
	profilePath := flag.String("profile", "", "YAML file of named charset presets")
	preset := flag.String("preset", "", "preset name to use from -profile")
	flag.Parse()

	log := obslog.GetLogger()

	if *in == "" || *out == "" {
		log.Error("usage: inkdoc-subset -in font.ttf -out subset.ttf [-chars ... | -profile file.yaml -preset name]")
		os.Exit(2)
	}

	used, err := resolveUsedChars(*chars, *profilePath, *preset)
	if err != nil {
		log.Error("resolve charset: %v", err)
		os.Exit(1)
	}
	if len(used) == 0 {
		log.Error("no characters to keep: pass -chars or -profile/-preset")
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Error("read %s: %v", *in, err)
		os.Exit(1)
	}

	f, err := font.ParseFont(data)
	if err != nil {
		log.Error("parse font: %v", err)
		os.Exit(1)
	}

	subset, err := font.Subset(f, used)
	if err != nil {
		log.Error("subset font: %v", err)
		os.Exit(1)
	}

	out2, err := font.Serialize(subset)
	if err != nil {
		log.Error("serialize font: %v", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, out2, 0o644); err != nil {
		log.Error("write %s: %v", *out, err)
		os.Exit(1)
	}

	log.Info("subsetted %s -> %s (%d characters)", *in, *out, len(used))
}

func resolveUsedChars(chars, profilePath, preset string) (map[rune]bool, error) {
	used := map[rune]bool{}
	for _, r := range chars {
		used[r] = true
	}
	if profilePath == "" {
		return used, nil
	}

	data, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, err
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	literal, ok := p[preset]
	if !ok {
		return used, nil
	}
	for _, r := range literal {
		used[r] = true
	}
	return used, nil
}
