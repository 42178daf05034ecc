package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/specialistvlad/burstmatrix/internal/fsutil"
	"github.com/specialistvlad/burstmatrix/internal/model"
)

// ErrNoWorkflowFiles is returned when none of the paths contains a file any
// decoder understands.
var ErrNoWorkflowFiles = errors.New("no workflow files found")

// Loader discovers workflow files on a filesystem and merges their
// definitions.
type Loader struct {
	fs       billy.Filesystem
	decoders map[string]Decoder
}

// NewLoader creates a Loader reading from fsys with the given decoders. A
// later decoder wins when two claim the same extension.
func NewLoader(fsys billy.Filesystem, decoders ...Decoder) *Loader {
	l := &Loader{
		fs:       fsys,
		decoders: make(map[string]Decoder),
	}
	for _, d := range decoders {
		for _, ext := range d.Extensions() {
			l.decoders[ext] = d
		}
	}
	return l
}

// Load reads every supported file under paths and merges them into one
// definition. Files are processed in lexical order within each path, paths in
// the order given. A path that does not exist is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Workflow loader started.", "path_count", len(paths))

	files, err := l.findFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoWorkflowFiles, strings.Join(paths, ", "))
	}
	logger.Debug("Discovered workflow files.", "count", len(files))

	merged := &model.Definition{}
	for _, file := range files {
		src, err := util.ReadFile(l.fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow file %s: %w", file, err)
		}

		def, err := l.decoderFor(file).Decode(ctx, file, src)
		if err != nil {
			return nil, err
		}
		if err := merge(merged, def, file); err != nil {
			return nil, err
		}
		logger.Debug("Workflow file decoded.", "file", file, "jobs", len(def.Jobs))
	}

	if merged.Name == "" {
		merged.Name = defaultName(paths[0])
	}

	logger.Debug("Workflow loading complete.", "name", merged.Name, "jobs", len(merged.Jobs))
	return merged, nil
}

func (l *Loader) extensions() []string {
	exts := make([]string, 0, len(l.decoders))
	for ext := range l.decoders {
		exts = append(exts, ext)
	}
	return exts
}

// decoderFor picks the decoder with the longest extension matching file, so
// ".wf.hcl" beats ".hcl" regardless of map order.
func (l *Loader) decoderFor(file string) Decoder {
	var best Decoder
	bestLen := 0
	for ext, d := range l.decoders {
		if len(ext) > bestLen && strings.HasSuffix(file, ext) {
			best, bestLen = d, len(ext)
		}
	}
	return best
}

// findFiles walks all given paths and returns a flat, de-duplicated list of
// supported files.
func (l *Loader) findFiles(paths []string) ([]string, error) {
	if len(l.decoders) == 0 {
		return nil, errors.New("no workflow decoders registered")
	}

	var all []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		if _, err := l.fs.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("workflow path %s does not exist", path)
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		files, err := fsutil.FindFilesByExtension(l.fs, path, l.extensions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to find workflow files in %s: %w", path, err)
		}
		for _, f := range files {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				all = append(all, f)
			}
		}
	}
	return all, nil
}

// defaultName derives a workflow name from a path: its base name without
// extension.
func defaultName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// merge folds def into dst. Jobs are appended; the workflow name and version
// constraint may be declared by at most one distinct value.
func merge(dst, def *model.Definition, file string) error {
	if def.Name != "" {
		if dst.Name != "" && dst.Name != def.Name {
			return fmt.Errorf("conflicting workflow names %q and %q in %s", dst.Name, def.Name, file)
		}
		dst.Name = def.Name
	}
	if def.RequiredVersion != "" {
		if dst.RequiredVersion != "" && dst.RequiredVersion != def.RequiredVersion {
			return fmt.Errorf("conflicting required_version %q and %q in %s", dst.RequiredVersion, def.RequiredVersion, file)
		}
		dst.RequiredVersion = def.RequiredVersion
	}
	dst.Jobs = append(dst.Jobs, def.Jobs...)
	return nil
}
