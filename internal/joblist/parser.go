package joblist

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"layoutplan/internal/codec"
	"layoutplan/internal/geom"
	"layoutplan/internal/layout"
	"layoutplan/internal/pipeline"
)

// Parse reads a job file: either a bare JSON array of jobs or an object
// with a "jobs" array.
func Parse(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("joblist: read %s: %w", path, err)
	}

	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err == nil {
		return jobs, nil
	}

	var wrapped struct {
		Jobs []Job `json:"jobs"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("joblist: parse %s: %w", path, err)
	}
	return wrapped.Jobs, nil
}

// Commands translates a job's op list into pipeline commands. probedEXIF is
// substituted for auto_orient ops that carry no explicit tag.
func Commands(job Job, probedEXIF int) ([]pipeline.Command, error) {
	cmds, err := OpsCommands(job.Ops, probedEXIF)
	if err != nil {
		return nil, fmt.Errorf("joblist: %s: %w", job.File, err)
	}
	return cmds, nil
}

// OpsCommands translates a bare op list.
func OpsCommands(ops []OpSpec, probedEXIF int) ([]pipeline.Command, error) {
	cmds := make([]pipeline.Command, 0, len(ops))
	for i, op := range ops {
		cmd, err := toCommand(op, probedEXIF)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func toCommand(op OpSpec, probedEXIF int) (pipeline.Command, error) {
	switch op.Op {
	case "auto_orient":
		v := op.Value
		if v == 0 {
			v = probedEXIF
		}
		return pipeline.CmdAutoOrient(v), nil
	case "rotate":
		return pipeline.CmdRotate(op.Value), nil
	case "flip_h":
		return pipeline.CmdFlipH(), nil
	case "flip_v":
		return pipeline.CmdFlipV(), nil
	case "crop":
		return pipeline.CmdCrop(layout.CropPixels(geom.Rect{
			X: uint32(op.X), Y: uint32(op.Y), W: uint32(op.W), H: uint32(op.H),
		})), nil
	case "crop_percent":
		return pipeline.CmdCrop(layout.CropPercent(op.PX, op.PY, op.PW, op.PH)), nil
	case "region":
		color, err := ParseColor(op.Color)
		if err != nil {
			return pipeline.Command{}, err
		}
		return pipeline.CmdRegion(layout.Region{
			Left:   layout.RegionCoord{Percent: op.PX, Pixels: op.Left},
			Top:    layout.RegionCoord{Percent: op.PY, Pixels: op.Top},
			Right:  layout.RegionCoord{Percent: op.PW, Pixels: op.Right},
			Bottom: layout.RegionCoord{Percent: op.PH, Pixels: op.Bottom},
			Color:  color,
		}), nil
	case "pad":
		color, err := ParseColor(op.Color)
		if err != nil {
			return pipeline.Command{}, err
		}
		return pipeline.CmdPad(pipeline.Padding{
			Left: uint32(op.X), Top: uint32(op.Y), Right: uint32(op.W), Bottom: uint32(op.H),
			Color: color, HasColor: op.Color != "",
		}), nil
	case "max":
		return pipeline.CmdMax(uint32(op.W), uint32(op.H)), nil
	case "min":
		return pipeline.CmdMin(uint32(op.W), uint32(op.H)), nil
	case "align":
		mode, err := parseAlignMode(op.Mode)
		if err != nil {
			return pipeline.Command{}, err
		}
		return pipeline.CmdAlign(layout.Align{Mode: mode, X: uint32(op.X), Y: uint32(op.Y)}), nil
	}

	if mode, ok := constraintModes[op.Op]; ok {
		color, err := ParseColor(op.Color)
		if err != nil {
			return pipeline.Command{}, err
		}
		g := layout.GravityCenter()
		if op.GravityX != 0 || op.GravityY != 0 {
			g = layout.GravityAt(op.GravityX, op.GravityY)
		}
		return pipeline.CmdConstrain(layout.Constraint{
			Mode:    mode,
			Width:   uint32(op.W),
			Height:  uint32(op.H),
			Gravity: g,
			Color:   color,
		}), nil
	}
	return pipeline.Command{}, fmt.Errorf("unknown op %q", op.Op)
}

var constraintModes = map[string]layout.ConstraintMode{
	"distort":     layout.Distort,
	"within":      layout.Within,
	"fit":         layout.Fit,
	"within_crop": layout.WithinCrop,
	"fit_crop":    layout.FitCrop,
	"within_pad":  layout.WithinPad,
	"fit_pad":     layout.FitPad,
	"aspect_crop": layout.AspectCrop,
}

func parseAlignMode(s string) (layout.AlignMode, error) {
	switch s {
	case "crop":
		return layout.AlignCrop, nil
	case "extend":
		return layout.AlignExtend, nil
	case "distort":
		return layout.AlignDistort, nil
	}
	return 0, fmt.Errorf("unknown align mode %q", s)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". Empty means transparent.
func ParseColor(s string) (layout.CanvasColor, error) {
	if s == "" {
		return layout.Transparent(), nil
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return layout.CanvasColor{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return layout.CanvasColor{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(h) == 6 {
		return layout.Srgb(uint8(v>>16), uint8(v>>8), uint8(v), 255), nil
	}
	return layout.Srgb(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// ParseSubsampling maps a config string to a subsampling scheme.
func ParseSubsampling(s string) (codec.Subsampling, error) {
	switch s {
	case "", "420", "4:2:0":
		return codec.Sub420, nil
	case "422", "4:2:2":
		return codec.Sub422, nil
	case "444", "4:4:4":
		return codec.Sub444, nil
	}
	return 0, fmt.Errorf("joblist: unknown subsampling %q", s)
}
