package object

import (
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one frame of the lexical scope chain. A frame holds a single
// binding and is never mutated after it is created, so frames can be shared
// freely between closures and concurrent evaluations.
type Environment struct {
	ID    uint64
	Name  string
	Value Object
	Outer *Environment
	Depth int
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

// NewEnvironment returns an empty root frame.
func NewEnvironment() *Environment {
	return &Environment{ID: nextEnvID()}
}

// NewEnclosedEnvironment chains a frame binding name to val onto outer.
func NewEnclosedEnvironment(outer *Environment, name string, val Object) *Environment {
	return &Environment{
		ID:    nextEnvID(),
		Name:  name,
		Value: val,
		Outer: outer,
		Depth: outer.Depth + 1,
	}
}

// Get resolves name, innermost frame first. The root frame binds nothing.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if env.Outer != nil && env.Name == name {
			return env.Value, true
		}
	}
	return nil, false
}
