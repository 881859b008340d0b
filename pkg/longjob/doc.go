// Package longjob runs long chains of tasks that survive process restarts.
//
// A job is an ordered list of tasks and labels. Every task receives the
// current state and returns an action telling the engine what to do next.
// After every task the position and the new state are stored in a [Store],
// so a job that is stopped, crashes or is terminated resumes from its last
// finished task the next time it is started with the same ID.
//
// # Quick Start
//
//	store := longjob.NewMemoryStore()
//
//	j, err := longjob.New(longjob.Config[int]{
//	    ID:    "my-job",
//	    Store: store,
//	    Units: []longjob.Unit{
//	        longjob.Label("begin"),
//	        longjob.Task[int](func(ctx context.Context, s int) (longjob.Action[int], error) {
//	            return longjob.Next(s + 10), nil
//	        }),
//	        longjob.Task[int](func(ctx context.Context, s int) (longjob.Action[int], error) {
//	            if s < 1000 {
//	                return longjob.Goto("begin", s*2), nil
//	            }
//	            return longjob.Next(s), nil
//	        }),
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
//	result, err := j.Start(ctx, 5) // 1590
//
// # Actions
//
//   - [Next]: run the following task.
//   - [Repeat]: run the same task again.
//   - [Goto]: run the task after a [Label]. An unknown label fails the run with [ErrUnknownLabel].
//   - [Done]: finish the job now.
//
// # Stores
//
// [NewMemoryStore] keeps checkpoints in memory, [NewSQLiteStore] in a SQLite
// database and [NewFileStore] as one file per job in a directory. Any type
// implementing [Store] can be used.
//
// # Termination
//
// [Job.Terminate] and the cancellation of the Start context stop the job
// before its next task, the running task is never interrupted. In both
// cases Start returns an error matching [ErrTerminated].
package longjob
