// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"sync"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/counter"
	"github.com/ava-labs/todovm/event"
	"github.com/ava-labs/todovm/pebble"
	"github.com/ava-labs/todovm/state"
	"github.com/ava-labs/todovm/todolist"
)

func newRunCmd(r *rootCmd) *cobra.Command {
	var dbDir string
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run a plan of todo list and counter calls against a local store",
		Long:  "Run a plan of todo list and counter calls. The plan is read from [path], or from stdin when [path] is \"-\".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planBytes, err := readPlan(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(planBytes)
			if err != nil {
				return err
			}
			if err := plan.verify(); err != nil {
				return err
			}

			log, err := r.logger("run", logging.Info, logging.Info, defaultLogDir)
			if err != nil {
				return err
			}

			var db state.Database = memdb.New()
			if len(dbDir) > 0 {
				pdb, _, err := pebble.New(dbDir, pebble.NewDefaultConfig())
				if err != nil {
					return err
				}
				defer func() {
					if err := pdb.Close(); err != nil {
						log.Error("failed to close database", zap.Error(err))
					}
				}()
				db = pdb
			}

			runner, err := newRunner(log, db, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if err := runner.todos.Close(); err != nil {
					log.Warn("failed to close event subscriptions", zap.Error(err))
				}
			}()
			return runner.Run(cmd.Context(), plan)
		},
	}
	cmd.Flags().StringVar(&dbDir, "database", "", "pebble directory to run against (defaults to in-memory)")
	return cmd
}

func readPlan(stdin io.Reader, p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(p)
}

// runner executes plan steps against an in-process todo list and counter.
type runner struct {
	log     logging.Logger
	out     io.Writer
	todos   *todolist.TodoList
	counter *counter.Counter

	// events emitted by the step being run
	lock   sync.Mutex
	events []*todolist.Event
}

func newRunner(log logging.Logger, db state.Database, out io.Writer) (*runner, error) {
	r := &runner{
		log:     log,
		out:     out,
		counter: counter.New(log, db),
	}
	subs, err := event.NewSubscriptions[*todolist.Event](event.SubscriptionFuncFactory[*todolist.Event]{
		AcceptF: func(_ context.Context, e *todolist.Event) error {
			r.lock.Lock()
			defer r.lock.Unlock()

			r.events = append(r.events, e)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	todos, err := todolist.New(log, db, todolist.NewDefaultConfig(), prometheus.NewRegistry(), subs...)
	if err != nil {
		return nil, err
	}
	r.todos = todos
	return r, nil
}

// Run prints one response per step and stops at the first failed
// assertion. Errors from steps without an assertion are only reported in
// the response.
func (r *runner) Run(ctx context.Context, plan *Plan) error {
	r.log.Info("running plan",
		zap.String("name", plan.Name),
		zap.String("description", plan.Description),
		zap.Int("steps", len(plan.Steps)),
	)

	for i, step := range plan.Steps {
		caller := step.Caller
		if len(caller) == 0 {
			caller = plan.Caller
		}
		r.log.Info("running step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("method", string(step.Method)),
			zap.String("caller", caller),
		)

		resp := newResponse(i, step.Method)
		result, err := r.runStep(ctx, caller, &step)
		if err != nil {
			resp.setError(err)
		} else {
			resp.Result = result
		}
		if printErr := resp.Print(r.out); printErr != nil {
			return printErr
		}
		if err := checkRequire(step.Require, result, err); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (r *runner) runStep(ctx context.Context, caller string, step *Step) (*Result, error) {
	r.lock.Lock()
	r.events = nil
	r.lock.Unlock()

	result := &Result{}
	switch step.Method {
	case CreateTodo:
		actor, err := parseCaller(caller)
		if err != nil {
			return nil, err
		}
		priority, err := todolist.ParsePriority(step.Params.Priority)
		if err != nil {
			return nil, err
		}
		id, err := r.todos.CreateTodo(ctx, actor, step.Params.Name, priority)
		if err != nil {
			return nil, err
		}
		result.setUint(id)
	case UpdateItem:
		actor, err := parseCaller(caller)
		if err != nil {
			return nil, err
		}
		if err := r.todos.UpdateItem(ctx, actor, step.Params.ID); err != nil {
			return nil, err
		}
	case GetMyTodo:
		owner := step.Params.Owner
		if len(owner) == 0 {
			owner = caller
		}
		addr, err := parseCaller(owner)
		if err != nil {
			return nil, err
		}
		items, err := r.todos.GetMyTodo(ctx, addr)
		if err != nil {
			return nil, err
		}
		result.Items = items
		result.setUint(uint64(len(items)))
	case GetAllTodo:
		count, err := r.todos.GetAllTodo(ctx)
		if err != nil {
			return nil, err
		}
		result.setUint(count)
	case GetItem:
		item, err := r.todos.GetItem(ctx, step.Params.ID)
		if err != nil {
			return nil, err
		}
		result.Item = item
		result.setUint(item.ID)
	case InitializeCounter:
		if err := r.counter.Initialize(ctx, step.Params.Value); err != nil {
			return nil, err
		}
		result.setInt(step.Params.Value)
	case GetCounter:
		v, err := r.counter.Get(ctx)
		if err != nil {
			return nil, err
		}
		result.setInt(v)
	case IncrementCounter:
		v, err := r.counter.Increment(ctx)
		if err != nil {
			return nil, err
		}
		result.setInt(v)
	case DecrementCounter:
		v, err := r.counter.Decrement(ctx)
		if err != nil {
			return nil, err
		}
		result.setInt(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, step.Method)
	}

	r.lock.Lock()
	result.Events = r.events
	r.lock.Unlock()
	return result, nil
}

func (r *Result) setInt(v int64) {
	r.Value = big.NewInt(v)
}

func (r *Result) setUint(v uint64) {
	r.Value = new(big.Int).SetUint64(v)
}

// parseCaller treats an empty caller as the empty address so the store
// rejects it rather than the runner.
func parseCaller(s string) (codec.Address, error) {
	if len(s) == 0 {
		return codec.EmptyAddress, nil
	}
	return codec.ParseAddress(s)
}

func checkRequire(req *Require, result *Result, err error) error {
	if req == nil {
		return nil
	}
	if len(req.Error) > 0 {
		ok, verr := validateError(err, req.Error)
		if verr != nil {
			return verr
		}
		if !ok {
			return fmt.Errorf("%w: expected error %q but got %v", ErrAssertionFailed, req.Error, err)
		}
		return nil
	}
	if req.Result == nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssertionFailed, err)
	}
	if result.Value == nil {
		return fmt.Errorf("%w: step has no numeric result", ErrAssertionFailed)
	}
	ok, verr := validateAssertion(result.Value, req.Result)
	if verr != nil {
		return verr
	}
	if !ok {
		return fmt.Errorf("%w: %d %s %s", ErrAssertionFailed, result.Value, req.Result.Operator, req.Result.Value)
	}
	return nil
}
