// Command planlayout computes the layout plan for a single image and prints
// it as JSON.
//
//	planlayout -in photo.jpg -ops "auto_orient;fit_crop=500x500" -preview plan.webp
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"layoutplan/internal/batch"
	"layoutplan/internal/codec"
	"layoutplan/internal/geom"
	"layoutplan/internal/joblist"
	"layoutplan/internal/pipeline"
	"layoutplan/internal/preview"
	"layoutplan/internal/probe"
)

func main() {
	in := flag.String("in", "", "Input image path")
	opsArg := flag.String("ops", "", "Layout ops, e.g. \"auto_orient;fit=800x600;pad=10\"")
	sub := flag.String("subsampling", "420", "Chroma subsampling: 444, 422 or 420")
	previewPath := flag.String("preview", "", "Write a schematic WebP of the plan")
	compact := flag.Bool("compact", false, "Single-line JSON output")

	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		flag.Usage()
		os.Exit(1)
	}

	info, err := probe.File(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ops, err := joblist.ParseOps(*opsArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cmds, err := joblist.OpsCommands(ops, info.EXIFOrientation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ideal, req, err := pipeline.ComputeLayoutSequential(geom.Size{W: info.Width, H: info.Height}, cmds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	offer := pipeline.FullDecode(info.Width, info.Height)
	plan := ideal.Finalize(&req, &offer)

	scheme, err := joblist.ParseSubsampling(*sub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := batch.PlanFile{
		File:   *in,
		Source: info,
		Ideal:  ideal,
		Plan:   plan,
		Codec:  codec.ForCanvas(plan.Canvas, scheme),
	}

	enc := json.NewEncoder(os.Stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *previewPath != "" {
		img := preview.Render(plan)
		if err := preview.WriteWebP(*previewPath, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Preview written to %s\n", *previewPath)
	}
}
