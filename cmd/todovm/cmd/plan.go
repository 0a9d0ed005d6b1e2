// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/todovm/codec"
	"github.com/ava-labs/todovm/todolist"
)

type Method string

const (
	CreateTodo        Method = "create_todo"
	UpdateItem        Method = "update_item"
	GetMyTodo         Method = "get_my_todo"
	GetAllTodo        Method = "get_all_todo"
	GetItem           Method = "get_item"
	InitializeCounter Method = "initialize_counter"
	GetCounter        Method = "get_counter"
	IncrementCounter  Method = "increment_counter"
	DecrementCounter  Method = "decrement_counter"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// The caller used by steps that do not name one.
	Caller string `json:"caller" yaml:"caller"`
	// Steps to perform, in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// The operation to call. (required)
	Method Method `json:"method" yaml:"method"`
	// Caller identity: a name or a 0x-prefixed address.
	Caller string `json:"caller" yaml:"caller"`
	// The parameters to pass to the method.
	Params Params `json:"params" yaml:"params"`
	// Define required assertions against this step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Params struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Priority string `json:"priority,omitempty" yaml:"priority,omitempty"`
	ID       uint64 `json:"id,omitempty" yaml:"id,omitempty"`
	Owner    string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Value    int64  `json:"value,omitempty" yaml:"value,omitempty"`
}

type Require struct {
	// Assertion against the numeric result of the step.
	Result *ResultAssertion `json:"result,omitempty" yaml:"result,omitempty"`
	// The error the step must fail with, see [errorCodes].
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

type ResultAssertion struct {
	// The operator to use for the assertion.
	Operator Operator `json:"operator" yaml:"operator"`
	// The value to compare against.
	Value string `json:"value" yaml:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

// errorCodes are the names plans use for expected errors. "any" matches
// every error.
var errorCodes = map[string]error{
	"not_found":        todolist.ErrNotFound,
	"unauthorized":     todolist.ErrUnauthorized,
	"invalid_owner":    todolist.ErrInvalidOwner,
	"name_too_large":   todolist.ErrNameTooLarge,
	"invalid_name":     todolist.ErrInvalidName,
	"invalid_priority": todolist.ErrInvalidPriority,
	"id_overflow":      todolist.ErrIDOverflow,
	"invalid_address":  codec.ErrInvalidAddress,
}

const anyError = "any"

// validateAssertion reports whether [actual] satisfies [assertion]. Values
// are compared as integers of any width so uint64 ids and int64 counter
// values share one comparison.
func validateAssertion(actual *big.Int, assertion *ResultAssertion) (bool, error) {
	value, ok := new(big.Int).SetString(assertion.Value, 10)
	if !ok {
		return false, fmt.Errorf("%w: assertion value %q is not an integer", ErrInvalidStep, assertion.Value)
	}

	cmp := actual.Cmp(value)
	switch assertion.Operator {
	case NumericGt:
		return cmp > 0, nil
	case NumericLt:
		return cmp < 0, nil
	case NumericGe:
		return cmp >= 0, nil
	case NumericLe:
		return cmp <= 0, nil
	case NumericEq:
		return cmp == 0, nil
	case NumericNe:
		return cmp != 0, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownOperator, assertion.Operator)
	}
}

// validateError reports whether [err] is the error named by [code].
func validateError(err error, code string) (bool, error) {
	if code == anyError {
		return err != nil, nil
	}
	expected, ok := errorCodes[code]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownErrorCode, code)
	}
	return errors.Is(err, expected), nil
}

func unmarshalPlan(bytes []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(string(bytes)):
		if err := json.Unmarshal(bytes, &p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFormat, err)
		}
	case isYAML(string(bytes)):
		if err := yaml.Unmarshal(bytes, &p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFormat, err)
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(s string) bool {
	var js map[string]interface{}
	return json.Unmarshal([]byte(s), &js) == nil
}

func isYAML(s string) bool {
	var y map[string]interface{}
	return yaml.Unmarshal([]byte(s), &y) == nil
}

// verify checks every step before anything runs so a bad plan never
// leaves partial state behind.
func (p *Plan) verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i, step := range p.Steps {
		if err := step.verify(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify() error {
	switch s.Method {
	case CreateTodo:
		if _, err := todolist.ParsePriority(s.Params.Priority); err != nil {
			return err
		}
	case UpdateItem, GetMyTodo, GetAllTodo, GetItem,
		InitializeCounter, GetCounter, IncrementCounter, DecrementCounter:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, s.Method)
	}
	if s.Require == nil {
		return nil
	}
	if s.Require.Result != nil && len(s.Require.Error) > 0 {
		return errors.New("require may assert a result or an error, not both")
	}
	if s.Require.Result != nil {
		if _, err := validateAssertion(new(big.Int), s.Require.Result); err != nil {
			return err
		}
	}
	if len(s.Require.Error) > 0 && s.Require.Error != anyError {
		if _, ok := errorCodes[s.Require.Error]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownErrorCode, s.Require.Error)
		}
	}
	return nil
}

func newResponse(id int, method Method) *Response {
	return &Response{
		ID:     id,
		Method: method,
	}
}

// Response is printed as one JSON line per step.
type Response struct {
	// The index of the step that generated this response.
	ID     int    `json:"id"`
	Method Method `json:"method"`
	// The result of the step.
	Result *Result `json:"result,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

type Result struct {
	// The numeric result of the step: an id, a count or a counter value.
	Value  *big.Int          `json:"value,omitempty"`
	Item   *todolist.Item    `json:"item,omitempty"`
	Items  []*todolist.Item  `json:"items,omitempty"`
	Events []*todolist.Event `json:"events,omitempty"`
}

func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func (r *Response) setError(err error) {
	r.Error = strings.TrimSpace(err.Error())
}
