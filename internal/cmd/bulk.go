package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/etherpad/eplite-go/internal/dryrun"
	"github.com/etherpad/eplite-go/internal/iocontext"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult represents the outcome of a single bulk operation
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	err error
}

// runBulkOperation executes operation for every ID with bounded
// parallelism. Results keep the order of ids; a cancelled context leaves
// the remaining entries marked as failed with the context error.
func runBulkOperation(
	ctx context.Context,
	ids []string,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	operation func(ctx context.Context, id string) error,
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]BulkResult, len(ids))
	total := len(ids)
	var done int64

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		results[i] = BulkResult{ID: id}
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i].err = err
				return nil
			}
			defer sem.Release(1)

			if err := gctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			if err := operation(gctx, id); err != nil {
				results[i].err = err
			} else {
				results[i].Success = true
			}

			if progress && total > 0 {
				current := atomic.AddInt64(&done, 1)
				mu.Lock()
				_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d", current, total)
				mu.Unlock()
			}
			// individual failures never cancel the group
			return nil
		})
	}
	_ = g.Wait()

	if progress && total > 0 {
		_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d\n", atomic.LoadInt64(&done), total)
	}

	for i := range results {
		if results[i].err != nil {
			results[i].Error = results[i].err.Error()
		}
	}
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// bulkError aggregates the failures of a bulk run, nil when all succeeded.
func bulkError(results []BulkResult) error {
	var merr *multierror.Error
	for _, r := range results {
		if r.err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", r.ID, r.err))
		}
	}
	return merr.ErrorOrNil()
}

// bulkDeleteOptions are the flags shared by the delete commands.
type bulkDeleteOptions struct {
	concurrency int64
	progress    bool
}

func (o *bulkDeleteOptions) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&o.concurrency, "concurrency", DefaultConcurrency, "Number of concurrent deletions")
	cmd.Flags().BoolVar(&o.progress, "progress", false, "Show progress on stderr")
}

// runBulkDelete deletes every ID named by args and reports the outcome.
func runBulkDelete(cmd *cobra.Command, args []string, resource string, opts bulkDeleteOptions, del func(ctx context.Context, id string) error) error {
	ids, err := expandIDs(cmdContext(cmd), args)
	if err != nil {
		return err
	}
	if len(ids) == 1 {
		if err := del(cmdContext(cmd), ids[0]); err != nil {
			return err
		}
		return printWriteResult(cmd, "Deleted", resource, ids[0])
	}

	ioStreams := iocontext.GetIO(cmd.Context())
	progress := opts.progress && !isJSON(cmd) && !flags.Quiet
	concurrency := opts.concurrency
	if dryrun.IsEnabled(cmd.Context()) {
		// previews share one writer
		concurrency = 1
	}
	results := runBulkOperation(cmdContext(cmd), ids, concurrency, progress, ioStreams.ErrOut, del)
	success, failure := countResults(results)

	if isJSON(cmd) {
		if err := printJSON(cmd, map[string]any{
			"results":   results,
			"succeeded": success,
			"failed":    failure,
			"dry_run":   dryrun.IsEnabled(cmd.Context()),
		}); err != nil {
			return err
		}
	} else if !flags.Quiet && !dryrun.IsEnabled(cmd.Context()) {
		_, _ = fmt.Fprintf(ioStreams.Out, "Deleted %d of %d %ss\n", success, len(ids), resource)
	}
	return bulkError(results)
}
