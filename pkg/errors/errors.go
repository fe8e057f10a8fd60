// Package errors provides structured error handling for the keel core.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindLifecycle indicates a component lifecycle misuse.
	KindLifecycle
	// KindLayout indicates a layout computation error.
	KindLayout
	// KindState indicates a state tracking or flush error.
	KindState
	// KindDispatch indicates an event routing error.
	KindDispatch
	// KindConfig indicates a configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindLifecycle:
		return "lifecycle"
	case KindLayout:
		return "layout"
	case KindState:
		return "state"
	case KindDispatch:
		return "dispatch"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// KeelError represents a structured error in the keel core.
type KeelError struct {
	// Op is the operation that failed (e.g., "layout.Engine.Compute").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *KeelError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *KeelError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "component.Tree.Mount").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// HookError represents a failure inside a user-supplied component hook.
type HookError struct {
	// Component is the type name of the component whose hook failed.
	Component string
	// Hook is the hook name (BeforeMount, OnUpdate, ...).
	Hook string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *HookError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.%s(): %v", e.Component, e.Hook, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.%s(): %v", e.Component, e.Hook, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.%s()", e.Component, e.Hook)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the keel core.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *KeelError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleHookError is called when a component hook fails.
	HandleHookError(err *HookError)
}
