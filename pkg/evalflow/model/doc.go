// Package model provides the data structures shared by the evalflow packages.
// It defines the tabular types an evaluation flows through,
// the callable contract for targets and evaluators, and the monitor hooks
// observing an evaluation's lifecycle.
package model
