//go:build !profile

package profiler

import "io"

// No-op implementation compiled in by default; build with -tags profile to
// record frame spans.

func Init(capacity int) {}

func Start(name string) func() { return func() {} }

func WriteTrace(w io.Writer) error { return nil }
