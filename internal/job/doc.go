// Package job runs a resumable chain of tasks against an evolving state.
//
// A job is an ordered list of units: tasks and labels. Every task receives the
// current state and returns an [Action] that tells the engine where to go next
// and carries the new state. After every step the engine stores a checkpoint
// (the cursor of the next task and the state) in a
// [storage.CheckpointRepository], so a job started again with the same ID
// continues exactly where the previous process left it.
//
//	j, err := job.NewJob(job.JobConfig[int]{
//	    ID:         "doubler",
//	    Repository: repo,
//	    Units: []job.Unit{
//	        job.Label("begin"),
//	        job.Task[int](func(ctx context.Context, s int) (job.Action[int], error) {
//	            return job.Next(s + 10), nil
//	        }),
//	        job.Task[int](func(ctx context.Context, s int) (job.Action[int], error) {
//	            if s < 1000 {
//	                return job.Goto("begin", s*2), nil
//	            }
//	            return job.Next(s), nil
//	        }),
//	    },
//	})
//	result, err := j.Start(ctx, 5) // 1590.
//
// A running job can be asked to stop with [Job.Terminate] (or by cancelling the
// Start context). The request is honoured between steps, never in the middle of
// a task, and the run fails with [model.ErrTerminated] keeping the last
// checkpoint for a later resume.
package job
