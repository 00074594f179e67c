package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	SessionStart   SessionStartReport   `json:"session_start_report"`
	PipelineRun    PipelineRunReport    `json:"pipeline_run_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	ParseError     ParseErrorReport     `json:"parse_error_report"`
	Panic          PanicReport          `json:"panic_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch {
	case le.SessionStart != nil:
		r.SessionStart.update(le.SessionStart)
	case le.PipelineRun != nil:
		r.PipelineRun.update(le.PipelineRun)
	case le.UnknownCommand != nil:
		r.UnknownCommand.update(le.UnknownCommand)
	case le.ParseError != nil:
		r.ParseError.update(le.ParseError)
	case le.Panic != nil:
		r.Panic.update(le.Panic)
	case le.SessionEnd != nil:
		// Ignore
	default:
		r.InvalidEntries.Increment("unknown")
	}
}

type SessionStartReport struct {
	// List of usernames and their counts.
	Usernames StrCounter `json:"usernames"`
	// List of remote addresses and their counts.
	RemoteAddrs StrCounter `json:"remote_addrs"`
	// List of terminal names and their counts.
	Terms StrCounter `json:"terms"`
}

func (r *SessionStartReport) update(e *SessionStart) {
	r.Usernames.Increment(e.Username)
	r.RemoteAddrs.Increment(e.RemoteAddr)
	r.Terms.Increment(e.Term)
}

type PipelineRunReport struct {
	// Name of each command run as a pipeline stage.
	CommandNames StrCounter `json:"command_names"`
	// Exit status of the whole pipeline.
	LastStatuses StrCounter `json:"last_statuses"`
}

func (r *PipelineRunReport) update(e *PipelineRun) {
	for _, argv := range e.Commands {
		if len(argv) > 0 {
			r.CommandNames.Increment(argv[0])
		}
	}
	r.LastStatuses.Increment(fmt.Sprint(e.LastStatus))
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(e *UnknownCommand) {
	if len(e.Command) > 0 {
		r.CommandNames.Increment(e.Command[0])
	}
}

type ParseErrorReport struct {
	Errors *PathCounter `json:"errors,omitempty"`
}

func (r *ParseErrorReport) update(e *ParseError) {
	if r.Errors == nil {
		r.Errors = NewPathCounter("line", "error")
	}
	r.Errors.Increment(e.Line, e.Error)
}

type PanicReport struct {
	Contexts []string `json:"contexts"`
}

func (r *PanicReport) update(p *Panic) {
	r.Contexts = append(r.Contexts, p.Context)
}

// InteractionReport groups events by session.
type InteractionReport struct {
	// Map of sessionID -> interactions
	interactions map[string]*InteractiveSession
}

type InteractiveSession struct {
	Login struct {
		Username   string `json:"username"`
		RemoteAddr string `json:"remote_addr,omitempty"`
	} `json:"login"`
	LogEntries   int    `json:"log_entries"`
	TerminalName string `json:"terminal_name"`
	IsPty        bool   `json:"is_pty"`
	ExitStatus   int    `json:"exit_status"`

	Commands []string `json:"commands"`
}

func (i *InteractiveSession) Update(le *LogEntry) {
	i.LogEntries++

	switch {
	case le.SessionStart != nil:
		i.Login.Username = le.SessionStart.Username
		i.Login.RemoteAddr = le.SessionStart.RemoteAddr
		i.TerminalName = le.SessionStart.Term
		i.IsPty = le.SessionStart.IsPty
	case le.SessionEnd != nil:
		i.ExitStatus = le.SessionEnd.ExitStatus
	case le.PipelineRun != nil:
		i.Commands = append(i.Commands, le.PipelineRun.Line)
	case le.UnknownCommand != nil:
		i.Commands = append(i.Commands, strings.Join(le.UnknownCommand.Command, " "))
	}
}

func (i *InteractionReport) init() {
	if i.interactions == nil {
		i.interactions = make(map[string]*InteractiveSession)
	}
}

// MarshalJSON implemnts custom JSON marshaler.
func (i *InteractionReport) MarshalJSON() ([]byte, error) {
	i.init()

	return json.Marshal(i.interactions)
}

func (i *InteractionReport) Update(le *LogEntry) {
	i.init()

	sessionID := le.SessionID
	if sessionID == "" {
		return
	}
	report, ok := i.interactions[sessionID]
	if !ok {
		report = &InteractiveSession{}
		i.interactions[sessionID] = report
	}

	report.Update(le)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of string tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
