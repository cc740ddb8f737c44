package interp

import (
	"errors"
	"log/slog"

	"github.com/ardnew/tjlang/lang/ast"
	"github.com/ardnew/tjlang/lang/diag"
	"github.com/ardnew/tjlang/lang/value"
)

// spawn evaluates x on a new goroutine against a deep copy of the scope
// chain. A failure inside the task is logged and never reaches the
// spawner.
func (e *evaluator) spawn(x *ast.SpawnExpr) (value.Value, error) {
	in := e.in
	task := &value.Task{ID: in.taskID.Add(1)}
	env := e.env.Snapshot()

	globals := env
	for globals.parent != nil {
		globals = globals.parent
	}

	child := in.evaluator(e.ctx, globals)
	child.table = e.table
	child.env = env

	in.logger.TraceContext(e.ctx, "spawn", slog.Int64("task", task.ID))

	in.tasks.Go(func() error {
		defer task.Finish()

		if _, err := child.eval(x.X); err != nil {
			in.logger.ErrorContext(e.ctx, "task failed", taskFailure(task, err)...)
		}

		return nil
	})

	return task, nil
}

func taskFailure(task *value.Task, err error) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("code", string(diag.RuntimeTaskError)),
		slog.Int64("task", task.ID),
	}

	var re *Error
	if errors.As(err, &re) {
		return append(attrs, slog.Any("cause", re))
	}

	return append(attrs, slog.String("cause", err.Error()))
}
