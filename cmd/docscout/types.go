package main

import (
	"fmt"

	"github.com/fwojciec/docscout"
)

// Run executes the types command.
func (c *TypesCmd) Run(deps *Dependencies) error {
	types, err := deps.DocumentTypes(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}
	for _, t := range types {
		fmt.Fprintln(deps.Stdout, t)
	}
	return nil
}

// requestedTypes returns types, or every supported type when empty.
func requestedTypes(deps *Dependencies, types []string) ([]string, error) {
	if len(types) > 0 {
		return types, nil
	}
	return deps.DocumentTypes(deps.Ctx)
}
