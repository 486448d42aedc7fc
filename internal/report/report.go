// Package report runs every primitive over one color image and measures it
// against the reference backend.
//
// A run reduces the image to gray, convolves it with each configured kernel,
// fuses Sobel responses into an edge magnitude, thresholds the gray image,
// labels it, and enumerates its blobs. Each stage is paired with the
// reference backend's output and scored with compare.SumOfAbsoluteDifferences.
// Reference output is informational: a mismatch is logged, never fatal.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ironsheep/pixel-primitives/internal/compare"
	"github.com/ironsheep/pixel-primitives/internal/config"
	"github.com/ironsheep/pixel-primitives/internal/contour"
	pimg "github.com/ironsheep/pixel-primitives/internal/imaging"
	"github.com/ironsheep/pixel-primitives/internal/labeling"
	"github.com/ironsheep/pixel-primitives/internal/logger"
	"github.com/ironsheep/pixel-primitives/internal/moments"
	"github.com/ironsheep/pixel-primitives/internal/pixel"
	"github.com/ironsheep/pixel-primitives/internal/reference"
)

const component = "report"

// DefaultMaxObjects caps blob enumeration when Options.MaxObjects is 0.
const DefaultMaxObjects = 32

// NamedKernel pairs a kernel with the name it is reported under.
type NamedKernel struct {
	Name   string
	Kernel pixel.Kernel
}

// DefaultKernels are the kernels a run applies when Options.Kernels is empty.
func DefaultKernels() []NamedKernel {
	return []NamedKernel{
		{"sharpen", pixel.Sharpen},
		{"sobel_x", pixel.SobelX},
		{"sobel_y", pixel.SobelY},
	}
}

// Options controls a run. The zero value is usable.
type Options struct {
	Log     logger.Logger
	Kernels []NamedKernel

	BinaryLevel   uint8
	LabelCapacity int
	HuThreshold   float64
	MaxObjects    int

	// Sheet, when set, receives one row per stage.
	Sheet *pimg.Sheet
	// Dump, when set, receives labeling.WriteDump output.
	Dump io.Writer
}

// OptionsFrom fills the tunables from cfg.
func OptionsFrom(cfg *config.Config, log logger.Logger) Options {
	return Options{
		Log:           log,
		BinaryLevel:   cfg.BinaryLevel,
		LabelCapacity: cfg.LabelCapacity,
		HuThreshold:   cfg.HuThreshold,
	}
}

func (o *Options) defaults() {
	if o.Log == nil {
		o.Log = logger.NewNop()
	}
	if len(o.Kernels) == 0 {
		o.Kernels = DefaultKernels()
	}
	if o.LabelCapacity == 0 {
		o.LabelCapacity = labeling.DefaultCapacity
	}
	if o.HuThreshold <= 0 {
		o.HuThreshold = compare.MatchThreshold
	}
	if o.MaxObjects == 0 {
		o.MaxObjects = DefaultMaxObjects
	}
}

// Diff scores one stage against the reference backend.
type Diff struct {
	Stage string  `json:"stage"`
	SAD   uint64  `json:"sad"`
	Mean  float64 `json:"mean"`
}

// LabelSummary compares label counts.
type LabelSummary struct {
	Allocated int    `json:"allocated"`
	Survivors int    `json:"survivors"`
	Reference int    `json:"reference"`
	Error     string `json:"error,omitempty"`
}

// ObjectSummary describes one enumerated blob.
type ObjectSummary struct {
	Index     int           `json:"index"`
	Rect      contour.Rect  `json:"rect"`
	Area      float64       `json:"area"`
	CentroidX float64       `json:"centroid_x"`
	CentroidY float64       `json:"centroid_y"`
	Hu        [7]float64    `json:"hu"`
	Axes      *moments.Axes `json:"axes,omitempty"`
	Reference MomentDiff    `json:"reference"`
}

// ShapeMatch scores one pair of blobs. Distance is nil when the Hu
// distance is infinite.
type ShapeMatch struct {
	A           int      `json:"a"`
	B           int      `json:"b"`
	Distance    *float64 `json:"distance"`
	LogDistance float64  `json:"log_distance"`
	Match       bool     `json:"match"`
}

// Report is the outcome of a run.
type Report struct {
	Backend     string          `json:"backend"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	BinaryLevel uint8           `json:"binary_level"`
	Stages      []Diff          `json:"stages"`
	Labels      LabelSummary    `json:"labels"`
	Objects     []ObjectSummary `json:"objects"`
	Matches     []ShapeMatch    `json:"matches,omitempty"`
}

// Stage returns the diff recorded for name.
func (r *Report) Stage(name string) (Diff, bool) {
	for _, d := range r.Stages {
		if d.Stage == name {
			return d, true
		}
	}
	return Diff{}, false
}

type run struct {
	opts   Options
	report *Report
}

// Run executes every stage over src, which must be a three-channel buffer.
func Run(src *pixel.Buffer, opts Options) (*Report, error) {
	if src == nil || src.Channels != 3 {
		return nil, fmt.Errorf("report needs a color image: %w", pixel.ErrChannelCount)
	}
	opts.defaults()

	r := &run{
		opts: opts,
		report: &Report{
			Backend:     reference.Name(),
			Width:       src.Width,
			Height:      src.Height,
			BinaryLevel: opts.BinaryLevel,
		},
	}
	opts.Log.Info(component, "starting report", map[string]interface{}{
		"width":   src.Width,
		"height":  src.Height,
		"backend": r.report.Backend,
	})

	if err := r.sheet("source", src, nil); err != nil {
		return nil, err
	}

	gray, err := pixel.Grayscale(src)
	if err != nil {
		return nil, fmt.Errorf("failed to reduce to gray: %w", err)
	}
	refGray, err := reference.Grayscale(src)
	if err != nil {
		return nil, fmt.Errorf("reference grayscale failed: %w", err)
	}
	if err := r.score("gray", gray, refGray); err != nil {
		return nil, err
	}

	for _, nk := range opts.Kernels {
		ours := pixel.ApplyKernel(src, nk.Kernel)
		ref, err := reference.Convolve(src, nk.Kernel)
		if err != nil {
			return nil, fmt.Errorf("reference convolve %s failed: %w", nk.Name, err)
		}
		if err := r.score(nk.Name, ours, ref); err != nil {
			return nil, err
		}
	}

	edges := pixel.SobelMagnitude(gray)
	refEdges, err := referenceSobel(gray)
	if err != nil {
		return nil, err
	}
	if err := r.score("edges", edges, refEdges); err != nil {
		return nil, err
	}

	binary, err := pixel.Threshold(gray, opts.BinaryLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to threshold: %w", err)
	}
	refBinary, err := reference.Threshold(gray, opts.BinaryLevel)
	if err != nil {
		return nil, fmt.Errorf("reference threshold failed: %w", err)
	}
	if err := r.score("threshold", binary, refBinary); err != nil {
		return nil, err
	}

	if err := r.label(binary); err != nil {
		return nil, err
	}
	if err := r.objects(src, binary); err != nil {
		return nil, err
	}
	r.match()

	opts.Log.Info(component, "report complete", map[string]interface{}{
		"stages":  len(r.report.Stages),
		"objects": len(r.report.Objects),
		"matches": len(r.report.Matches),
	})
	return r.report, nil
}

// score records the SAD between ours and ref and adds the pair to the sheet.
func (r *run) score(stage string, ours, ref *pixel.Buffer) error {
	sad, err := compare.SumOfAbsoluteDifferences(ours, ref)
	if err != nil {
		return fmt.Errorf("failed to compare %s: %w", stage, err)
	}
	mean, err := compare.MeanAbsoluteDifference(ours, ref)
	if err != nil {
		return fmt.Errorf("failed to compare %s: %w", stage, err)
	}

	r.report.Stages = append(r.report.Stages, Diff{Stage: stage, SAD: sad, Mean: mean})
	r.opts.Log.Debug(component, "abs diff", map[string]interface{}{
		"stage": stage,
		"sad":   sad,
		"mean":  mean,
	})
	return r.sheet(stage, ours, ref)
}

func (r *run) sheet(title string, left, right *pixel.Buffer) error {
	if r.opts.Sheet == nil {
		return nil
	}
	return r.opts.Sheet.AddPair(title, left, right)
}

func (r *run) label(binary *pixel.Buffer) error {
	sum := &r.report.Labels

	refCount, err := reference.Components(binary)
	if err != nil {
		return fmt.Errorf("reference components failed: %w", err)
	}
	sum.Reference = refCount

	res, err := labeling.LabelWithCapacity(binary, r.opts.LabelCapacity)
	if errors.Is(err, labeling.ErrCapacityExceeded) {
		sum.Error = err.Error()
		r.opts.Log.Warning(component, "label capacity exceeded", map[string]interface{}{
			"capacity": r.opts.LabelCapacity,
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to label: %w", err)
	}

	sum.Allocated = res.Count
	sum.Survivors = res.Survivors()
	fields := map[string]interface{}{
		"allocated": sum.Allocated,
		"survivors": sum.Survivors,
		"reference": sum.Reference,
	}
	if sum.Survivors != sum.Reference {
		r.opts.Log.Warning(component, "label count differs from reference", fields)
	} else {
		r.opts.Log.Debug(component, "labels resolved", fields)
	}

	if r.opts.Dump != nil {
		if err := labeling.WriteDump(r.opts.Dump, res); err != nil {
			return err
		}
	}
	return r.sheet("labels", res.AsBuffer(), nil)
}

func (r *run) objects(src, binary *pixel.Buffer) error {
	annotated := src.Clone()
	ex := contour.NewExtractor(r.opts.Log)
	objs, err := ex.ExtractAll(binary.Clone(), annotated, r.opts.MaxObjects)
	if err != nil {
		return fmt.Errorf("failed to enumerate objects: %w", err)
	}

	r.report.Objects = make([]ObjectSummary, 0, len(objs))
	for i, obj := range objs {
		set, err := moments.ComputeBinary(obj.Crop)
		if err != nil {
			return fmt.Errorf("failed to compute moments of object %d: %w", i, err)
		}
		cx, cy := set.Centroid()
		sum := ObjectSummary{
			Index:     i,
			Rect:      obj.Rect,
			Area:      set.M00,
			CentroidX: cx + float64(obj.Rect.Left),
			CentroidY: cy + float64(obj.Rect.Top),
			Hu:        set.Hu,
		}
		if axes, err := moments.PrincipalAxes(set); err == nil {
			sum.Axes = &axes
		}

		diff, err := DiffMoments(obj.Crop, true, set)
		if err != nil {
			return fmt.Errorf("failed to compare moments of object %d: %w", i, err)
		}
		sum.Reference = diff
		r.opts.Log.Debug(component, "moment diff", map[string]interface{}{
			"object":     i,
			"centroid_x": diff.CentroidX,
			"centroid_y": diff.CentroidY,
			"mu20":       diff.Mu20,
			"mu11":       diff.Mu11,
			"mu02":       diff.Mu02,
		})
		r.report.Objects = append(r.report.Objects, sum)
	}
	return r.sheet("objects", annotated, nil)
}

// match scores every pair of enumerated objects.
func (r *run) match() {
	objs := r.report.Objects
	for i := 0; i < len(objs); i++ {
		for j := i + 1; j < len(objs); j++ {
			d := compare.CompareHu(objs[i].Hu, objs[j].Hu)
			m := ShapeMatch{
				A:           i,
				B:           j,
				LogDistance: compare.HuLogDistance(objs[i].Hu, objs[j].Hu),
				Match:       compare.HuMatchWithin(objs[i].Hu, objs[j].Hu, r.opts.HuThreshold),
			}
			if !math.IsInf(d, 0) && !math.IsNaN(d) {
				m.Distance = &d
			}
			r.report.Matches = append(r.report.Matches, m)
		}
	}
}

// referenceSobel fuses the reference backend's Sobel responses the same way
// pixel.SobelMagnitude fuses its own.
func referenceSobel(gray *pixel.Buffer) (*pixel.Buffer, error) {
	gx, err := reference.Convolve(gray, pixel.SobelX)
	if err != nil {
		return nil, fmt.Errorf("reference sobel x failed: %w", err)
	}
	gy, err := reference.Convolve(gray, pixel.SobelY)
	if err != nil {
		return nil, fmt.Errorf("reference sobel y failed: %w", err)
	}
	return pixel.Combine(gx, gy, pixel.Hypotenuse)
}
