// Package yaml_adapter decodes GitHub Actions style YAML workflow files into
// model definitions.
//
//	name: ci
//	jobs:
//	  cargo-test:
//	    runs-on: ${{ matrix.os }}
//	    strategy:
//	      fail-fast: false
//	      matrix:
//	        os: [ubuntu-latest, windows-latest]
//	        features: ["--all-features", "--no-default-features --lib"]
//	        exclude:
//	          - os: windows-latest
//	            features: --all-features
//	    steps:
//	      - run: cargo test
//
// Mapping order is read from the YAML node tree, so jobs and matrix axes keep
// the order they are written in.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/model"
	"gopkg.in/yaml.v3"
)

// matrixRef matches a runs-on value that takes its platform from an axis.
var matrixRef = regexp.MustCompile(`^\$\{\{\s*matrix\.([A-Za-z0-9_-]+)\s*\}\}$`)

// Decoder is the YAML implementation of config.Decoder.
type Decoder struct{}

// NewDecoder creates a new YAML workflow decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

type yamlFile struct {
	Name            string    `yaml:"name"`
	RequiredVersion string    `yaml:"required_version"`
	Jobs            yaml.Node `yaml:"jobs"`
}

type yamlJob struct {
	RunsOn   string            `yaml:"runs-on"`
	Env      map[string]string `yaml:"env"`
	Strategy *yamlStrategy     `yaml:"strategy"`
	Cache    *yamlCache        `yaml:"cache"`
	Steps    []yamlStep        `yaml:"steps"`
}

type yamlStrategy struct {
	FailFast *bool     `yaml:"fail-fast"`
	Matrix   yaml.Node `yaml:"matrix"`
}

type yamlCache struct {
	Key   string   `yaml:"key"`
	Paths []string `yaml:"paths"`
}

type yamlStep struct {
	Name string            `yaml:"name"`
	Run  string            `yaml:"run"`
	Uses string            `yaml:"uses"`
	With map[string]string `yaml:"with"`
	Env  map[string]string `yaml:"env"`
}

// Extensions implements config.Decoder.
func (d *Decoder) Extensions() []string {
	return []string{".yml", ".yaml"}
}

// Decode implements config.Decoder.
func (d *Decoder) Decode(ctx context.Context, filename string, src []byte) (*model.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding YAML workflow file.", "file", filename, "bytes", len(src))

	var file yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	def := &model.Definition{
		Name:            file.Name,
		RequiredVersion: file.RequiredVersion,
	}

	if file.Jobs.Kind != 0 {
		if file.Jobs.Kind != yaml.MappingNode {
			return nil, nodeErrorf(filename, &file.Jobs, "jobs must be a mapping of job names to jobs")
		}
		for i := 0; i+1 < len(file.Jobs.Content); i += 2 {
			job, err := translateJob(filename, file.Jobs.Content[i], file.Jobs.Content[i+1])
			if err != nil {
				return nil, err
			}
			def.Jobs = append(def.Jobs, job)
		}
	}

	logger.Debug("YAML workflow file decoded.", "file", filename, "workflow", def.Name, "jobs", len(def.Jobs))
	return def, nil
}

func translateJob(filename string, keyNode, valueNode *yaml.Node) (*model.Job, error) {
	var yj yamlJob
	if err := valueNode.Decode(&yj); err != nil {
		return nil, fmt.Errorf("failed to decode job %q in %s: %w", keyNode.Value, filename, err)
	}

	job := &model.Job{
		Name:          keyNode.Value,
		Env:           yj.Env,
		FailFast:      true,
		FSInformation: model.NewFSInfo(filename),
	}

	if m := matrixRef.FindStringSubmatch(yj.RunsOn); m != nil {
		job.PlatformAxis = m[1]
	} else {
		job.Platform = yj.RunsOn
	}

	if yj.Strategy != nil {
		if yj.Strategy.FailFast != nil {
			job.FailFast = *yj.Strategy.FailFast
		}
		if yj.Strategy.Matrix.Kind != 0 {
			m, err := translateMatrix(filename, &yj.Strategy.Matrix)
			if err != nil {
				return nil, fmt.Errorf("job %q: %w", job.Name, err)
			}
			job.Matrix = m
		}
	}

	if yj.Cache != nil {
		job.Cache = &model.Cache{Key: yj.Cache.Key, Paths: yj.Cache.Paths}
	}

	for _, ys := range yj.Steps {
		job.Steps = append(job.Steps, model.Step{
			Name: ys.Name,
			Run:  ys.Run,
			Uses: ys.Uses,
			With: ys.With,
			Env:  ys.Env,
		})
	}

	return job, nil
}
