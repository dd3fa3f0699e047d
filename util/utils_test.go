package util

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTrimHex(t *testing.T) {
	c := qt.New(t)
	c.Assert(TrimHex("0xab"), qt.Equals, "ab")
	c.Assert(TrimHex("0XAB"), qt.Equals, "AB")
	c.Assert(TrimHex("ab"), qt.Equals, "ab")
	c.Assert(TrimHex("0"), qt.Equals, "0")
}

func TestRandom(t *testing.T) {
	c := qt.New(t)
	c.Assert(RandomBytes(16), qt.HasLen, 16)
	c.Assert(RandomHex(8), qt.HasLen, 16)
	c.Assert(RandomBytes(32), qt.Not(qt.DeepEquals), RandomBytes(32))
}
