package menu

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionMenu_ExitAndInvalidChoice(t *testing.T) {
	out := &bytes.Buffer{}
	m := New(nil, strings.NewReader("9\n4\n"), out)

	m.Run(context.Background())

	assert.Contains(t, out.String(), "Invalid choice! Please try again.")
	assert.Contains(t, out.String(), "Exiting application...")
}

func TestSessionMenu_StopsOnEndOfInput(t *testing.T) {
	out := &bytes.Buffer{}
	m := New(nil, strings.NewReader(""), out)

	m.Run(context.Background())

	assert.Contains(t, out.String(), "1. Open Account")
}
