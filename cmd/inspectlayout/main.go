// Command inspectlayout evaluates layout ops against bare dimensions and
// prints the ideal layout, the decoder request and the codec geometry. It
// touches no files, which makes it handy for checking op strings.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"layoutplan/internal/codec"
	"layoutplan/internal/geom"
	"layoutplan/internal/joblist"
	"layoutplan/internal/pipeline"
)

func main() {
	width := flag.Uint("width", 0, "Source width in pixels")
	height := flag.Uint("height", 0, "Source height in pixels")
	opsArg := flag.String("ops", "", "Layout ops, e.g. \"rotate=90;fit=800x600\"")
	sub := flag.String("subsampling", "420", "Chroma subsampling: 444, 422 or 420")

	flag.Parse()

	ops, err := joblist.ParseOps(*opsArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cmds, err := joblist.OpsCommands(ops, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ideal, req, err := pipeline.ComputeLayoutSequential(
		geom.Size{W: uint32(*width), H: uint32(*height)}, cmds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	offer := pipeline.FullDecode(uint32(*width), uint32(*height))
	plan := ideal.Finalize(&req, &offer)

	scheme, err := joblist.ParseSubsampling(*sub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := struct {
		Ideal   pipeline.IdealLayout   `json:"ideal"`
		Request pipeline.DecoderRequest `json:"request"`
		Plan    pipeline.LayoutPlan    `json:"plan"`
		Codec   codec.CodecLayout      `json:"codec"`
	}{ideal, req, plan, codec.ForCanvas(plan.Canvas, scheme)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
