package linker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/errors"
	dotfs "github.com/arthur-debert/dotstow/pkg/filesystem"
	"github.com/arthur-debert/dotstow/pkg/logging"
)

// Status of an applied decision
type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
)

// Result is the outcome of applying one decision
type Result struct {
	Decision Decision      `json:"decision" yaml:"decision"`
	Status   Status        `json:"status" yaml:"status"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// NativeExecutor applies link decisions as a synthfs pipeline with rollback
type NativeExecutor struct {
	logger     zerolog.Logger
	filesystem filesystem.FullFileSystem
	fs         afero.Fs
	rollback   bool
}

// NewNativeExecutor creates an executor working on absolute paths. fs is
// used for the operations synthfs has no primitive for (recursive removal,
// moves).
func NewNativeExecutor(fs afero.Fs) *NativeExecutor {
	osfs := filesystem.NewOSFileSystem("/")
	pathAwareFS := synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()

	return &NativeExecutor{
		logger:     logging.GetLogger("linker.native"),
		filesystem: pathAwareFS,
		fs:         fs,
		rollback:   true,
	}
}

// Execute applies the mutating decisions (backup excluded, it runs before).
// On failure the pipeline rolls back and completed decisions are undone.
func (e *NativeExecutor) Execute(ctx context.Context, decisions []Decision) ([]Result, error) {
	sfs := synthfs.New()
	var ops []synthfs.Operation
	byID := make(map[synthfs.OperationID]int)

	for i, d := range decisions {
		op, err := e.convert(sfs, i, d)
		if err != nil {
			return nil, err
		}
		if op == nil {
			continue
		}
		ops = append(ops, op)
		byID[op.ID()] = i
	}
	if len(ops) == 0 {
		return nil, nil
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = e.rollback

	e.logger.Info().
		Int("operationCount", len(ops)).
		Bool("rollbackEnabled", e.rollback).
		Msg("Executing link operations")

	result, err := synthfs.RunWithOptions(ctx, e.filesystem, options, ops...)
	results := e.convertResults(result, byID, decisions)
	if err != nil {
		e.undo(results)
		return results, errors.Wrap(err, errors.ErrLinkExecute, "failed to apply link operations")
	}
	return results, nil
}

func (e *NativeExecutor) convert(sfs *synthfs.SynthFS, i int, d Decision) (synthfs.Operation, error) {
	id := synthfs.OperationID(fmt.Sprintf("%03d_%s_%s", i, d.Op, filepath.Base(d.Target)))
	target := d.Target
	switch d.Op {
	case OpLink, OpRelink, OpReplace, OpAdopt, OpUnlink:
	default:
		return nil, nil
	}
	dest, err := relativeDest(d.Source, target)
	if d.Op != OpUnlink && err != nil {
		return nil, err
	}
	if d.Through != "" {
		// relative text would resolve from the ancestor's destination
		dest = d.Source
	}

	// Custom operations touch the disk through the afero fs: synthfs'
	// OSFileSystem only accepts fs.ValidPath link text, and stow-compatible
	// links are relative. synthfs still sequences the operations.
	switch d.Op {
	case OpLink:
		return sfs.CustomOperationWithID(string(id), func(ctx context.Context, _ filesystem.FileSystem) error {
			if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			return dotfs.Symlink(e.fs, dest, target)
		}), nil

	case OpRelink:
		return sfs.CustomOperationWithID(string(id), func(ctx context.Context, _ filesystem.FileSystem) error {
			if err := e.fs.Remove(target); err != nil && !os.IsNotExist(err) {
				return err
			}
			return dotfs.Symlink(e.fs, dest, target)
		}), nil

	case OpReplace:
		return sfs.CustomOperationWithID(string(id), func(ctx context.Context, _ filesystem.FileSystem) error {
			if err := e.fs.RemoveAll(target); err != nil {
				return err
			}
			return dotfs.Symlink(e.fs, dest, target)
		}), nil

	case OpAdopt:
		source := d.Source
		return sfs.CustomOperationWithID(string(id), func(ctx context.Context, _ filesystem.FileSystem) error {
			return adopt(e.fs, target, source, dest)
		}), nil

	case OpUnlink:
		return sfs.CustomOperationWithID(string(id), func(ctx context.Context, _ filesystem.FileSystem) error {
			if err := e.fs.Remove(target); err != nil && !os.IsNotExist(err) {
				return err
			}
			return nil
		}), nil

	default:
		return nil, nil
	}
}

// relativeDest returns the symlink text for source as seen from target's
// directory. Relative links are what GNU Stow writes, so both backends
// recognise each other's links.
func relativeDest(source, target string) (string, error) {
	if source == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "no source for %s", target)
	}
	rel, err := filepath.Rel(filepath.Dir(target), source)
	if err != nil {
		return source, nil
	}
	return rel, nil
}

func (e *NativeExecutor) convertResults(result *synthfs.Result, byID map[synthfs.OperationID]int, decisions []Decision) []Result {
	if result == nil {
		return nil
	}
	var results []Result
	for _, opResult := range result.GetOperations() {
		r, ok := opResult.(synthfs.OperationResult)
		if !ok {
			continue
		}
		idx, exists := byID[r.OperationID]
		if !exists {
			e.logger.Warn().Str("operationID", string(r.OperationID)).Msg("Operation result without decision")
			continue
		}
		res := Result{Decision: decisions[idx], Duration: r.Duration}
		switch r.Status {
		case synthfs.StatusSuccess:
			res.Status = StatusApplied
		case synthfs.StatusFailure, synthfs.StatusValidation:
			res.Status = StatusFailed
			if r.Error != nil {
				res.Error = r.Error.Error()
			}
		default:
			res.Status = StatusFailed
		}
		results = append(results, res)
	}
	return results
}

// undo reverses applied link, relink and unlink decisions, newest first.
// Custom operations carry no reverse operation, so the pipeline rollback
// has nothing to undo for them and this is the only undo. Replaced real
// files are not restored here; their copies live in the backup directory.
func (e *NativeExecutor) undo(results []Result) {
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		if r.Status != StatusApplied {
			continue
		}
		d := r.Decision
		var err error
		switch d.Op {
		case OpLink:
			err = removeIfSymlink(e.fs, d.Target)
		case OpRelink, OpUnlink:
			if d.Previous == "" {
				continue
			}
			if err = removeIfSymlink(e.fs, d.Target); err == nil {
				err = dotfs.Symlink(e.fs, d.Previous, d.Target)
			}
		default:
			continue
		}
		if err != nil {
			e.logger.Warn().Err(err).Str("target", d.Target).Msg("Failed to undo operation")
		} else {
			e.logger.Info().Str("target", d.Target).Str("op", string(d.Op)).Msg("Undid operation")
		}
	}
}
