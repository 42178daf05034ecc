package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/model"
)

// Decoder is the HCL implementation of config.Decoder.
type Decoder struct{}

// NewDecoder creates a new HCL workflow decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// fileRoot is the top-level structure of a workflow file.
type fileRoot struct {
	Workflows []*hclWorkflow `hcl:"workflow,block"`
	Jobs      []*hclJob      `hcl:"job,block"`
}

type hclWorkflow struct {
	Name            string `hcl:"name,label"`
	RequiredVersion string `hcl:"required_version,optional"`
}

type hclJob struct {
	Name     string            `hcl:"name,label"`
	Platform hcl.Expression    `hcl:"platform,optional"`
	FailFast *bool             `hcl:"fail_fast,optional"`
	Env      map[string]string `hcl:"env,optional"`
	Matrix   *hclMatrix        `hcl:"matrix,block"`
	Cache    *hclCache         `hcl:"cache,block"`
	Steps    []*hclStep        `hcl:"step,block"`
}

// hclMatrix keeps the raw body: axes are arbitrary attributes mixed with
// exclude blocks, which gohcl cannot split on its own.
type hclMatrix struct {
	Body hcl.Body `hcl:",remain"`
}

type hclCache struct {
	Key   string   `hcl:"key,optional"`
	Paths []string `hcl:"paths,optional"`
}

type hclStep struct {
	Name string            `hcl:"name,label"`
	Run  string            `hcl:"run,optional"`
	Uses string            `hcl:"uses,optional"`
	With map[string]string `hcl:"with,optional"`
	Env  map[string]string `hcl:"env,optional"`
}

// Extensions implements config.Decoder.
func (d *Decoder) Extensions() []string {
	return []string{".hcl"}
}

// Decode implements config.Decoder.
func (d *Decoder) Decode(ctx context.Context, filename string, src []byte) (*model.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding HCL workflow file.", "file", filename, "bytes", len(src))

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	def := &model.Definition{}
	switch len(root.Workflows) {
	case 0:
	case 1:
		def.Name = root.Workflows[0].Name
		def.RequiredVersion = root.Workflows[0].RequiredVersion
	default:
		return nil, fmt.Errorf("failed to decode HCL file %s: only one \"workflow\" block is allowed, found %d", filename, len(root.Workflows))
	}

	for _, hj := range root.Jobs {
		job, jobDiags := translateJob(hj, filename)
		diags = append(diags, jobDiags...)
		if job != nil {
			def.Jobs = append(def.Jobs, job)
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("error parsing job in file %s: %w", filename, diags)
	}

	logger.Debug("HCL workflow file decoded.", "file", filename, "workflow", def.Name, "jobs", len(def.Jobs))
	return def, nil
}

// translateJob converts a decoded job block into the model.
func translateJob(hj *hclJob, filename string) (*model.Job, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	job := &model.Job{
		Name:          hj.Name,
		Env:           hj.Env,
		FailFast:      true,
		FSInformation: model.NewFSInfo(filename),
	}
	if hj.FailFast != nil {
		job.FailFast = *hj.FailFast
	}

	platform, axis, platformDiags := parsePlatform(hj.Platform)
	diags = append(diags, platformDiags...)
	job.Platform = platform
	job.PlatformAxis = axis

	if hj.Matrix != nil {
		m, matrixDiags := parseMatrix(hj.Matrix)
		diags = append(diags, matrixDiags...)
		job.Matrix = m
	}

	if hj.Cache != nil {
		job.Cache = &model.Cache{Key: hj.Cache.Key, Paths: hj.Cache.Paths}
	}

	for _, hs := range hj.Steps {
		job.Steps = append(job.Steps, model.Step{
			Name: hs.Name,
			Run:  hs.Run,
			Uses: hs.Uses,
			With: hs.With,
			Env:  hs.Env,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return job, diags
}
