// Package plan runs the expansion pipeline over a whole workflow: every job
// is expanded into instances and every instance gets its cache scope. The
// resulting Plan is what an external runner consumes.
package plan

import (
	"context"

	"github.com/specialistvlad/burstmatrix/internal/cachekey"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
	"github.com/specialistvlad/burstmatrix/internal/model"
)

// Plan is the ordered set of scheduled instances of one workflow.
type Plan struct {
	Workflow string    `json:"workflow"`
	Jobs     []JobPlan `json:"jobs"`
}

// JobPlan holds the instances of one job, in expansion order.
type JobPlan struct {
	Job        string            `json:"job"`
	Source     string            `json:"source,omitempty"`
	FailFast   bool              `json:"fail_fast"`
	Env        map[string]string `json:"env,omitempty"`
	Steps      []model.Step      `json:"steps,omitempty"`
	CachePaths []string          `json:"cache_paths,omitempty"`
	Instances  []Instance        `json:"instances"`
}

// Instance is a job instance together with its cache scope.
type Instance struct {
	model.JobInstance
	Name        string       `json:"name"`
	CacheKey    cachekey.Key `json:"cache_key"`
	CacheDigest string       `json:"cache_digest"`
	RestoreKeys []string     `json:"restore_keys,omitempty"`
}

// Build expands and resolves every job of wf in declaration order.
func Build(ctx context.Context, wf *model.Workflow, resolver *cachekey.Resolver) *Plan {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building plan.", "workflow", wf.Name(), "jobs", wf.Len())

	p := &Plan{
		Workflow: wf.Name(),
		Jobs:     make([]JobPlan, 0, wf.Len()),
	}

	for _, job := range wf.Jobs() {
		jp := JobPlan{
			Job:      job.Name,
			Source:   job.Source(),
			FailFast: job.FailFast,
			Env:      job.Env,
			Steps:    job.Steps,
		}
		if job.Cache != nil {
			jp.CachePaths = job.Cache.Paths
		}

		for _, inst := range matrix.Expand(job) {
			key := resolver.Resolve(inst, job.Cache)
			jp.Instances = append(jp.Instances, Instance{
				JobInstance: inst,
				Name:        inst.DisplayName(),
				CacheKey:    key,
				CacheDigest: key.Digest(),
				RestoreKeys: resolver.RestoreKeys(inst, job.Cache),
			})
		}

		logger.Debug("Job expanded.", "job", job.Name, "instances", len(jp.Instances), "product", matrix.Count(job))
		p.Jobs = append(p.Jobs, jp)
	}

	logger.Info("Plan built.", "workflow", p.Workflow, "jobs", len(p.Jobs), "instances", p.InstanceCount())
	return p
}

// InstanceCount returns the total number of instances across all jobs.
func (p *Plan) InstanceCount() int {
	n := 0
	for _, jp := range p.Jobs {
		n += len(jp.Instances)
	}
	return n
}

// Keys returns every cache key of the plan in plan order.
func (p *Plan) Keys() []cachekey.Key {
	keys := make([]cachekey.Key, 0, p.InstanceCount())
	for _, jp := range p.Jobs {
		for _, inst := range jp.Instances {
			keys = append(keys, inst.CacheKey)
		}
	}
	return keys
}
