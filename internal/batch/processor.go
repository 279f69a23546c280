// Package batch plans layouts for many images using a worker pool: probe
// each image, evaluate its op list, finalize against a full decode, and
// write one plan file per image.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"layoutplan/internal/codec"
	"layoutplan/internal/config"
	"layoutplan/internal/geom"
	"layoutplan/internal/joblist"
	"layoutplan/internal/layout"
	"layoutplan/internal/pipeline"
	"layoutplan/internal/probe"
)

// Result holds the outcome of planning one job.
type Result struct {
	Name    string
	File    string
	Success bool
	Error   string
}

// PlanFile is the JSON document written for each job.
type PlanFile struct {
	File   string               `json:"file"`
	Source probe.Info           `json:"source"`
	Ideal  pipeline.IdealLayout `json:"ideal"`
	Plan   pipeline.LayoutPlan  `json:"plan"`
	Codec  codec.CodecLayout    `json:"codec"`
}

// Run plans all jobs using a worker pool.
func Run(cfg config.Config, jobs []joblist.Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f plans/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = planJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func planJob(cfg config.Config, job joblist.Job) Result {
	name := job.Name
	if name == "" {
		base := filepath.Base(job.File)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	res := Result{Name: name, File: job.File}

	srcPath := job.File
	if !filepath.IsAbs(srcPath) {
		srcPath = filepath.Join(cfg.SourceDir, srcPath)
	}
	info, err := probe.File(srcPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	cmds, err := joblist.Commands(job, info.EXIFOrientation)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	cmds = appendDefaults(cfg, job, cmds)

	ideal, req, err := pipeline.ComputeLayoutSequential(geom.Size{W: info.Width, H: info.Height}, cmds)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	offer := pipeline.FullDecode(info.Width, info.Height)
	plan := ideal.Finalize(&req, &offer)

	subStr := job.Subsampling
	if subStr == "" {
		subStr = cfg.Subsampling
	}
	sub, err := joblist.ParseSubsampling(subStr)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	out := PlanFile{
		File:   job.File,
		Source: info,
		Ideal:  ideal,
		Plan:   plan,
		Codec:  codec.ForCanvas(plan.Canvas, sub),
	}
	outPath := filepath.Join(cfg.OutputDir, name+".plan.json")
	if err := writeJSON(outPath, out); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

// appendDefaults applies the configured max cap and alignment to jobs that
// do not set their own.
func appendDefaults(cfg config.Config, job joblist.Job, cmds []pipeline.Command) []pipeline.Command {
	hasMax, hasAlign := false, false
	for _, op := range job.Ops {
		switch op.Op {
		case "max":
			hasMax = true
		case "align":
			hasAlign = true
		}
	}
	if !hasMax && cfg.MaxWidth > 0 && cfg.MaxHeight > 0 {
		cmds = append(cmds, pipeline.CmdMax(uint32(cfg.MaxWidth), uint32(cfg.MaxHeight)))
	}
	if !hasAlign && cfg.AlignMode != "" && cfg.AlignX > 0 && cfg.AlignY > 0 {
		var mode layout.AlignMode
		switch cfg.AlignMode {
		case "extend":
			mode = layout.AlignExtend
		case "distort":
			mode = layout.AlignDistort
		default:
			mode = layout.AlignCrop
		}
		cmds = append(cmds, pipeline.CmdAlign(layout.Align{Mode: mode, X: uint32(cfg.AlignX), Y: uint32(cfg.AlignY)}))
	}
	return cmds
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
