package iotest

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingT struct {
	*testing.T

	Buffer bytes.Buffer
}

func (t *recordingT) Logf(msg string, args ...interface{}) {
	// Fprintln so every log entry ends in a newline,
	// matching testing.T's behavior.
	fmt.Fprintln(&t.Buffer, fmt.Sprintf(msg, args...))
}

func TestWriter(t *testing.T) {
	t.Parallel()

	rec := recordingT{T: t}
	w := Writer(&rec)

	_, err := io.WriteString(w, "hello\n")
	assert.NoError(t, err)
	_, err = io.WriteString(w, "world")
	assert.NoError(t, err)

	assert.Equal(t, "hello\nworld\n", rec.Buffer.String())
}
