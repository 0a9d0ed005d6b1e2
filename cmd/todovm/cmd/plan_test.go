// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/todovm/todolist"
)

const yamlPlan = `
name: scenario
description: two owners share the store
caller: alice
steps:
  - description: alice creates an item
    method: create_todo
    params:
      name: Buy milk
      priority: low
    require:
      result:
        operator: "=="
        value: "1"
  - method: update_item
    caller: bob
    params:
      id: 1
    require:
      error: unauthorized
`

const jsonPlan = `{
  "name": "scenario",
  "caller": "alice",
  "steps": [
    {"method": "create_todo", "params": {"name": "Buy milk", "priority": "LOW"}, "require": {"result": {"operator": "==", "value": "1"}}},
    {"method": "update_item", "caller": "bob", "params": {"id": 1}, "require": {"error": "unauthorized"}}
  ]
}`

func TestUnmarshalPlan(t *testing.T) {
	for name, b := range map[string]string{
		"yaml": yamlPlan,
		"json": jsonPlan,
	} {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			p, err := unmarshalPlan([]byte(b))
			require.NoError(err)
			require.NoError(p.verify())
			require.Equal("scenario", p.Name)
			require.Equal("alice", p.Caller)
			require.Len(p.Steps, 2)

			require.Equal(CreateTodo, p.Steps[0].Method)
			require.Equal("Buy milk", p.Steps[0].Params.Name)
			require.NotNil(p.Steps[0].Require)
			require.Equal(&ResultAssertion{Operator: NumericEq, Value: "1"}, p.Steps[0].Require.Result)

			require.Equal(UpdateItem, p.Steps[1].Method)
			require.Equal("bob", p.Steps[1].Caller)
			require.Equal(uint64(1), p.Steps[1].Params.ID)
			require.Equal("unauthorized", p.Steps[1].Require.Error)
		})
	}
}

func TestUnmarshalPlanInvalid(t *testing.T) {
	_, err := unmarshalPlan([]byte("not a plan"))
	require.ErrorIs(t, err, ErrInvalidConfigFormat)
}

func TestPlanVerify(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		err  error
	}{
		{
			name: "no steps",
			plan: Plan{},
			err:  ErrInvalidPlan,
		},
		{
			name: "unknown method",
			plan: Plan{Steps: []Step{{Method: "delete_item"}}},
			err:  ErrUnknownMethod,
		},
		{
			name: "bad priority",
			plan: Plan{Steps: []Step{{Method: CreateTodo, Params: Params{Priority: "urgent"}}}},
			err:  todolist.ErrInvalidPriority,
		},
		{
			name: "unknown operator",
			plan: Plan{Steps: []Step{{
				Method:  GetAllTodo,
				Require: &Require{Result: &ResultAssertion{Operator: "~", Value: "1"}},
			}}},
			err: ErrUnknownOperator,
		},
		{
			name: "unknown error code",
			plan: Plan{Steps: []Step{{
				Method:  UpdateItem,
				Require: &Require{Error: "forbidden"},
			}}},
			err: ErrUnknownErrorCode,
		},
		{
			name: "valid",
			plan: Plan{Steps: []Step{
				{Method: CreateTodo, Params: Params{Priority: "medium"}},
				{Method: IncrementCounter, Require: &Require{Result: &ResultAssertion{Operator: NumericGe, Value: "-1"}}},
				{Method: UpdateItem, Require: &Require{Error: anyError}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.verify()
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		operator Operator
		actual   int64
		expected bool
	}{
		{NumericEq, 2, true},
		{NumericEq, 3, false},
		{NumericNe, 3, true},
		{NumericGt, 3, true},
		{NumericGt, 2, false},
		{NumericGe, 2, true},
		{NumericLt, 1, true},
		{NumericLt, 2, false},
		{NumericLe, 2, true},
		{NumericLe, 3, false},
	}
	for _, tt := range tests {
		ok, err := validateAssertion(big.NewInt(tt.actual), &ResultAssertion{Operator: tt.operator, Value: "2"})
		require.NoError(t, err)
		require.Equal(t, tt.expected, ok, "%d %s 2", tt.actual, tt.operator)
	}

	_, err := validateAssertion(big.NewInt(1), &ResultAssertion{Operator: NumericEq, Value: "one"})
	require.ErrorIs(t, err, ErrInvalidStep)
}

func TestValidateError(t *testing.T) {
	require := require.New(t)

	ok, err := validateError(todolist.ErrNotFound, "not_found")
	require.NoError(err)
	require.True(ok)

	ok, err = validateError(nil, "not_found")
	require.NoError(err)
	require.False(ok)

	ok, err = validateError(errors.New("boom"), anyError)
	require.NoError(err)
	require.True(ok)

	_, err = validateError(nil, "boom")
	require.ErrorIs(err, ErrUnknownErrorCode)
}
