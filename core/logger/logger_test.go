package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLinesLogRecorder(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewJsonLinesLogRecorder(buf).NewSession()

	require.NoError(t, log.Record(&SessionStart{Username: "jdoe", RemoteAddr: "192.0.2.1:22"}))
	require.NoError(t, log.Record(&PipelineRun{
		Line:       "echo hi",
		Commands:   [][]string{{"echo", "hi"}},
		Statuses:   []int{0},
		LastStatus: 0,
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.NotZero(t, first.TimestampMicros)
	assert.Equal(t, log.SessionID(), first.SessionID)
	require.NotNil(t, first.SessionStart)
	assert.Equal(t, "jdoe", first.SessionStart.Username)

	var second LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, first.SessionID, second.SessionID, "entries share the session")
	require.NotNil(t, second.PipelineRun)
	assert.Equal(t, "echo hi", second.PipelineRun.Line)
}

func TestNewSession_distinctIDs(t *testing.T) {
	log := NewNopLogger()

	a := log.NewSession()
	b := log.NewSession()

	assert.NotEmpty(t, a.SessionID())
	assert.NotEmpty(t, b.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestSessionless_omitsID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewJsonLinesLogRecorder(buf).Sessionless()

	require.NoError(t, log.Record(&ParseError{Line: "echo |", Error: "syntax error"}))

	assert.NotContains(t, buf.String(), "session_id")
}

func TestReadJSONLinesLog(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewJsonLinesLogRecorder(buf).NewSession()
	require.NoError(t, log.Record(&UnknownCommand{Command: []string{"frobnicate", "-x"}}))
	require.NoError(t, log.Record(&SessionEnd{ExitStatus: 2}))

	var got []*LogEntry
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		got = append(got, le)
	}))

	require.Len(t, got, 2)
	require.NotNil(t, got[0].UnknownCommand)
	assert.Equal(t, []string{"frobnicate", "-x"}, got[0].UnknownCommand.Command)
	require.NotNil(t, got[1].SessionEnd)
	assert.Equal(t, 2, got[1].SessionEnd.ExitStatus)
}

func TestReport_Update(t *testing.T) {
	entries := []*LogEntry{
		{SessionStart: &SessionStart{Username: "jdoe"}},
		{PipelineRun: &PipelineRun{
			Commands:   [][]string{{"yes"}, {"head", "-n", "3"}},
			LastStatus: 0,
		}},
		{PipelineRun: &PipelineRun{
			Commands:   [][]string{{"yes"}},
			LastStatus: 141,
		}},
		{UnknownCommand: &UnknownCommand{Command: []string{"frobnicate"}}},
		{ParseError: &ParseError{Line: "echo |", Error: "syntax error"}},
		{SessionEnd: &SessionEnd{}},
		{},
	}

	var report Report
	for _, le := range entries {
		report.Update(le)
	}

	assert.Equal(t, len(entries), report.LogEntries)

	out, err := json.Marshal(&report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	pipeline := decoded["pipeline_run_report"].(map[string]any)
	names := pipeline["command_names"].(map[string]any)
	assert.EqualValues(t, 2, names["yes"])
	assert.EqualValues(t, 1, names["head"])

	unknown := decoded["unknown_command_report"].(map[string]any)
	assert.EqualValues(t, 1, unknown["command_names"].(map[string]any)["frobnicate"])
}

func TestInteractionReport(t *testing.T) {
	buf := &bytes.Buffer{}
	base := NewJsonLinesLogRecorder(buf)

	alice := base.NewSession()
	require.NoError(t, alice.Record(&SessionStart{Username: "alice"}))
	require.NoError(t, alice.Record(&PipelineRun{Line: "echo hi | wc -l"}))

	bob := base.NewSession()
	require.NoError(t, bob.Record(&SessionStart{Username: "bob"}))

	var report InteractionReport
	require.NoError(t, ReadJSONLinesLog(buf, report.Update))

	out, err := json.Marshal(&report)
	require.NoError(t, err)

	var decoded map[string]*InteractiveSession
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 2)

	aliceSession := decoded[alice.SessionID()]
	require.NotNil(t, aliceSession)
	assert.Equal(t, "alice", aliceSession.Login.Username)
	assert.Equal(t, []string{"echo hi | wc -l"}, aliceSession.Commands)
}

func TestPathCounter_MarshalJSON(t *testing.T) {
	ctr := NewPathCounter("line", "error")
	ctr.Increment("echo |", "syntax error")
	ctr.Increment("echo |", "syntax error")
	ctr.Increment("cat >", "expected file")

	out, err := json.Marshal(ctr)
	require.NoError(t, err)

	var decoded []struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))

	require.Len(t, decoded, 2)
	// Highest count sorts first.
	assert.Equal(t, 2, decoded[0].Count)
	assert.Equal(t, "echo |", decoded[0].Fields["line"])
	assert.Equal(t, 1, decoded[1].Count)
}
