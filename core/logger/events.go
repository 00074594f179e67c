package logger

// LogEntry is a single record in the event log. Exactly one of the
// event fields is set per entry.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart   *SessionStart   `json:"session_start,omitempty"`
	SessionEnd     *SessionEnd     `json:"session_end,omitempty"`
	PipelineRun    *PipelineRun    `json:"pipeline_run,omitempty"`
	ParseError     *ParseError     `json:"parse_error,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	Panic          *Panic          `json:"panic,omitempty"`
}

// Event is the contract every loggable event satisfies.
type Event interface {
	attach(le *LogEntry)
}

// SessionStart records the beginning of a shell session and where it
// came from. Command is set for sessions that requested a one-shot
// command instead of an interactive shell.
type SessionStart struct {
	Username   string   `json:"username,omitempty"`
	RemoteAddr string   `json:"remote_addr,omitempty"`
	Term       string   `json:"term,omitempty"`
	IsPty      bool     `json:"is_pty,omitempty"`
	Command    []string `json:"command,omitempty"`
}

func (e *SessionStart) attach(le *LogEntry) { le.SessionStart = e }

// SessionEnd records the end of a shell session.
type SessionEnd struct {
	ExitStatus     int   `json:"exit_status"`
	DurationMicros int64 `json:"duration_micros,omitempty"`
}

func (e *SessionEnd) attach(le *LogEntry) { le.SessionEnd = e }

// PipelineRun records one executed command line with the status of
// every stage.
type PipelineRun struct {
	Line           string     `json:"line"`
	Commands       [][]string `json:"commands"`
	Statuses       []int      `json:"statuses"`
	LastStatus     int        `json:"last_status"`
	DurationMicros int64      `json:"duration_micros,omitempty"`
}

func (e *PipelineRun) attach(le *LogEntry) { le.PipelineRun = e }

// ParseError records a command line the shell could not parse.
type ParseError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

func (e *ParseError) attach(le *LogEntry) { le.ParseError = e }

// UnknownCommand records a stage whose command could not be resolved.
type UnknownCommand struct {
	Command []string `json:"command"`
}

func (e *UnknownCommand) attach(le *LogEntry) { le.UnknownCommand = e }

// Panic records a recovered panic so crashes show up in the log rather
// than tearing down the whole process.
type Panic struct {
	Context    string `json:"context"`
	Stacktrace string `json:"stacktrace,omitempty"`
}

func (e *Panic) attach(le *LogEntry) { le.Panic = e }
