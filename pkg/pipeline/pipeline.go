// Package pipeline runs the diagram filter over one pandoc document.
//
// This package ties the stages together so the filter command and the
// tests drive exactly the same code:
//
//  1. Decode: read the JSON document tree from pandoc
//  2. Transform: render every diagram block and replace it with the node
//     chosen by the run's embedding strategy
//  3. Encode: write the tree back, only when no fatal error occurred
//
// # Usage
//
//	reg := rc.Registry()
//	defer reg.Close()
//	strategy, err := rc.Strategy()
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(reg, strategy, logger)
//	result, err := runner.Run(ctx, os.Stdin, os.Stdout)
//
// A diagram that fails to parse does not stop the run; it becomes a visible
// error node in the output (see [ErrorNode]). Every other failure aborts it.
package pipeline

import (
	"time"
)

// ErrorClass is the class of the Div that replaces a rejected diagram.
const ErrorClass = "dotfilter-error"

// ErrorStyle is the inline style of the error Div, honored by HTML writers.
const ErrorStyle = "color: red; border: 5px double red; padding: 1em;"

// Result contains the outcome of a run.
type Result struct {
	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Blocks       int // diagram blocks found
	Rendered     int // blocks replaced with an image
	SyntaxErrors int // blocks replaced with an error node
	Skipped      int // fixture blocks left untouched
	Duration     time.Duration
}
