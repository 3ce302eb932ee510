package gdrr

import (
	"github.com/piwi3910/gdrrcut/internal/config"
	"github.com/piwi3910/gdrrcut/internal/problem"
)

// Kernel runs one worker's ruin/recreate passes against its own Problem.
// A LAHC worker owns exactly one Kernel; nothing here is safe to share
// across goroutines (each worker owns its Problem outright, spec §5).
type Kernel struct {
	Problem *problem.Problem
	Config  *config.Config
}
