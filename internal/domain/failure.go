package domain

// Process exit codes shared by all tools.
const (
	ExitEmptyInput = 2
	ExitUpstream   = 3
)

// Failure is a terminal error that carries the process exit code and the
// structured payload printed to stdout before exiting.
type Failure struct {
	Code    int
	Message string
	Details any
}

func (f *Failure) Error() string {
	return f.Message
}

// Report renders the failure as the JSON error object the tools print.
func (f *Failure) Report() ErrorReport {
	return ErrorReport{Error: f.Message, Details: f.Details}
}

// ErrorReport is the JSON shape of a whole-run error.
type ErrorReport struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
