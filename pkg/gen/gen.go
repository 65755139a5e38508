// Package gen contains small generic helpers used by the tracklet arithmetic
package gen

import "golang.org/x/exp/constraints"

type Ordered = constraints.Ordered
type Integer = constraints.Integer
type Float = constraints.Float
