package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Epsilon biases over/under points off a surface and is the smallest t accepted as a hit
const Epsilon = 1e-5

// ParallelEpsilon is the threshold below which a ray is treated as parallel to a plane or triangle
const ParallelEpsilon = 1e-8
