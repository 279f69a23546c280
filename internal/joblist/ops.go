package joblist

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOps parses the compact op string used by the CLI tools, e.g.
//
//	auto_orient;crop=100:50:800:600;fit_pad=400x400#202020;align=extend:16x16
//
// Ops are separated by ';'. A trailing '#rrggbb[aa]' attaches a color.
func ParseOps(s string) ([]OpSpec, error) {
	var ops []OpSpec
	for _, tok := range strings.Split(s, ";") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		op, err := parseOp(tok)
		if err != nil {
			return nil, fmt.Errorf("joblist: %q: %w", tok, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseOp(tok string) (OpSpec, error) {
	name, arg, _ := strings.Cut(tok, "=")
	var op OpSpec
	op.Op = name
	if i := strings.IndexByte(arg, '#'); i >= 0 {
		op.Color = arg[i:]
		arg = arg[:i]
	}

	switch name {
	case "flip_h", "flip_v":
		return op, nil

	case "auto_orient", "rotate":
		if arg == "" {
			return op, nil
		}
		v, err := strconv.Atoi(arg)
		if err != nil {
			return op, err
		}
		op.Value = v
		return op, nil

	case "crop", "region":
		vals, err := splitInts(arg, 4)
		if err != nil {
			return op, err
		}
		if name == "crop" {
			op.X, op.Y, op.W, op.H = vals[0], vals[1], vals[2], vals[3]
		} else {
			op.Left, op.Top = int32(vals[0]), int32(vals[1])
			op.Right, op.Bottom = int32(vals[2]), int32(vals[3])
		}
		return op, nil

	case "crop_percent":
		parts := strings.Split(arg, ":")
		if len(parts) != 4 {
			return op, fmt.Errorf("want 4 fields, got %d", len(parts))
		}
		fs := make([]float64, 4)
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 32)
			if err != nil {
				return op, err
			}
			fs[i] = f
		}
		op.PX, op.PY = float32(fs[0]), float32(fs[1])
		op.PW, op.PH = float32(fs[2]), float32(fs[3])
		return op, nil

	case "pad":
		vals, err := splitInts(arg, 0)
		if err != nil {
			return op, err
		}
		switch len(vals) {
		case 1:
			op.X, op.Y, op.W, op.H = vals[0], vals[0], vals[0], vals[0]
		case 4:
			op.X, op.Y, op.W, op.H = vals[0], vals[1], vals[2], vals[3]
		default:
			return op, fmt.Errorf("want 1 or 4 fields, got %d", len(vals))
		}
		return op, nil

	case "max", "min":
		w, h, err := parseSize(arg)
		if err != nil {
			return op, err
		}
		op.W, op.H = w, h
		return op, nil

	case "align":
		mode, size, ok := strings.Cut(arg, ":")
		if !ok {
			return op, fmt.Errorf("want mode:WxH")
		}
		w, h, err := parseSize(size)
		if err != nil {
			return op, err
		}
		op.Mode, op.X, op.Y = mode, w, h
		return op, nil
	}

	if _, ok := constraintModes[name]; ok {
		w, h, err := parseSize(arg)
		if err != nil {
			return op, err
		}
		op.W, op.H = w, h
		return op, nil
	}
	return op, fmt.Errorf("unknown op %q", name)
}

func parseSize(s string) (int64, int64, error) {
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("want WxH, got %q", s)
	}
	w, err := strconv.ParseInt(ws, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.ParseInt(hs, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func splitInts(s string, want int) ([]int64, error) {
	parts := strings.Split(s, ":")
	if want > 0 && len(parts) != want {
		return nil, fmt.Errorf("want %d fields, got %d", want, len(parts))
	}
	vals := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
