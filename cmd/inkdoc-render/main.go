// Command inkdoc-render parses a scene document, compiles it, and
// assembles the result into a one-page PDF file. It replaces the
// teacher's cairo-rasterize debug scripts (cmd/render_pdf.go,
// cmd/render_pdf_vector.go) with the content-stream emission path
// SPEC_FULL.md actually implements.
package main

import (
	"flag"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/inkdoc/inkdoc/internal/obslog"
	"github.com/inkdoc/inkdoc/internal/pdlassemble"
	"github.com/inkdoc/inkdoc/pkg/compile"
	"github.com/inkdoc/inkdoc/pkg/scene"
)

func main() {
	in := flag.String("in", "", "input scene file (.svg)")
	out := flag.String("out", "", "output PDF file")
	flag.Parse()

	log := obslog.GetLogger()

	if *in == "" || *out == "" {
		log.Error("usage: inkdoc-render -in scene.svg -out out.pdf")
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Error("read %s: %v", *in, err)
		os.Exit(1)
	}

	doc, err := scene.ParseScene(data)
	if err != nil {
		log.Error("parse scene: %v", err)
		os.Exit(1)
	}

	compiled, err := compile.Compile(doc)
	if err != nil {
		log.Error("compile: %v", err)
		os.Exit(1)
	}

	pdf, err := pdlassemble.Assemble(compiled, doc.Width, doc.Height)
	if err != nil {
		log.Error("assemble: %v", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		log.Error("write %s: %v", *out, err)
		os.Exit(1)
	}

	if err := api.ValidateFile(*out, nil); err != nil {
		log.Warn("validate %s: %v", *out, err)
	}
}
