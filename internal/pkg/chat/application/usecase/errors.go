package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use case.
// It marks transient store trouble: safe to retry, mapped to 503 at the edge.
var ErrPersistence = fmt.Errorf("chat use case persistence error")
