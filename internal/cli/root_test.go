package cli

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
)

func TestExitCodeForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("bad flag"), 2},
		{"blocked gate", errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("blocked"), 3},
		{"unavailable", errbuilder.New().WithCode(errbuilder.CodeUnavailable).WithMsg("oracle down"), 4},
		{"not found", errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no report"), 5},
		{"internal", errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("io"), 5},
		{"plain error", errors.New("anything"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeForError(tc.err))
		})
	}
}

func TestErrorMessagePrefersBuilderMsg(t *testing.T) {
	err := errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("short operator message").WithCause(errors.New("gory detail"))
	assert.Equal(t, "short operator message", errorMessage(err))
	assert.Equal(t, "plain", errorMessage(errors.New("plain")))
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["scan"])
	assert.True(t, names["update"])
	assert.True(t, names["inspect"])
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}
