package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Timeout bounds the total execution time. Zero means no timeout.
	// On expiry the process tree is killed and the error classifies as
	// a command timeout.
	Timeout time.Duration
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// Result holds what a finished subprocess produced.
type Result struct {
	// Stdout holds everything the process wrote to standard output.
	Stdout []byte
	// Stderr holds everything the process wrote to standard error.
	Stderr []byte
	// ExitCode is the exit status, or -1 when the process never started
	// or was killed before exiting on its own.
	ExitCode int
	// Duration measures start to exit.
	Duration time.Duration
}
