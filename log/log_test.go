package log

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

var (
	sampleProposal = uint64(7)
	sampleRoot     = []byte{0xab, 0xcd}
	sampleVotes    = []uint64{60, 40}
	sampleDuration = time.Second
	sampleTime     = time.Unix(12345678, 0)

	errSample = errors.New("quorum not met")
)

func doLogs() {
	Infof("proposal %d initialized with root %x", sampleProposal, sampleRoot)
	Debugw("vote relayed", "proposal", sampleProposal, "nullifier", "abc123")
	Errorf("cannot finalize proposal: %v", errSample)
	Warnw("various types",
		"votes", sampleVotes,
		"duration", sampleDuration,
		"time", sampleTime,
	)
	Errorw(errSample, "finalize rejected")
}

func TestCheckInvalidChars(t *testing.T) {
	t.Cleanup(func() { panicOnInvalidChars = false })

	v := []byte{'h', 'e', 'l', 'l', 'o', 0xff, 'w', 'o', 'r', 'l', 'd'}
	panicOnInvalidChars = false
	Init("debug", "stderr", nil)
	Debugf("%s", v)
	// should not panic since env var is false. if it panics, test will fail

	// now enable panic and try again: should recover() and never reach t.Errorf()
	panicOnInvalidChars = true
	Init("debug", "stderr", nil)
	defer func() { recover() }()
	Debugf("%s", v)
	t.Errorf("Debugf(%s) should have panicked because of invalid char", v)
}

func TestErrorOutput(t *testing.T) {
	c := qt.New(t)
	t.Cleanup(func() { Init(LogLevelError, "stderr", nil) })

	var out, errOut bytes.Buffer
	logTestWriter = &out
	Init(LogLevelInfo, logTestWriterName, &errOut)
	c.Assert(Level(), qt.Equals, LogLevelInfo)

	Infow("proposal executed", "proposal", sampleProposal)
	Errorw(errSample, "finalize rejected")
	Debugw("hidden at info level")

	c.Assert(strings.Contains(out.String(), "proposal executed"), qt.IsTrue)
	c.Assert(strings.Contains(out.String(), "hidden at info level"), qt.IsFalse)
	c.Assert(strings.Contains(errOut.String(), "finalize rejected"), qt.IsTrue)
	c.Assert(strings.Contains(errOut.String(), "proposal executed"), qt.IsFalse)
}

func BenchmarkLogger(b *testing.B) {
	logTestWriter = io.Discard // to not grow a buffer
	Init("debug", logTestWriterName, nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doLogs()
	}
}
