package log

const (
	Args     = "args"
	Artifact = "artifact"
	Cmd      = "cmd"
	Count    = "count"
	Dir      = "dir"
	Duration = "duration"
	Error    = "error"
	ExitCode = "exit_code"
	GateID   = "gate_id"
	Hook     = "hook"
	Path     = "path"
	Pattern  = "pattern"
	Policy   = "policy"
	State    = "state"
)
