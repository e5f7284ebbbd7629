package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/getlawrence/injectgen/internal/codegen/edit"
	"github.com/getlawrence/injectgen/internal/codegen/injector"
)

func TestLogfRoutesToActiveSpinner(t *testing.T) {
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	Log("plain")
	require.Equal(t, "plain\n", buf.String())

	ch := make(chan logEntry, 1)
	setActiveLogChannel(ch)
	UILogger{}.Logf("under %s\n", "spinner")
	UILogger{}.Log("dropped when full")
	clearActiveLogChannel()

	entry := <-ch
	require.Equal(t, "under spinner\n", entry.message)
	require.Equal(t, "plain\n", buf.String())
}

func TestRenderInjection(t *testing.T) {
	ic := injector.InjectionContext{
		FilePath:  "/app/b/b.component.ts",
		ClassName: "BComponent",
		TypeName:  "LoggerService",
	}
	outcomes := []Outcome{
		{
			Context: ic,
			Result: &injector.Result{Changed: true, Directives: []edit.Directive{
				{Kind: edit.KindAddConstructor, Offset: 27},
				edit.Noop(ic.FilePath),
			}},
		},
		{
			Context: injector.InjectionContext{FilePath: "/app/a/a.component.ts", ClassName: "AComponent", TypeName: "LoggerService"},
			Result:  &injector.Result{},
		},
		{
			Context: injector.InjectionContext{FilePath: "/app/c/c.component.ts"},
			Err:     errors.New("no class found"),
		},
	}

	got := RenderInjection(outcomes, true)
	require.Contains(t, got, "(dry run)")
	require.Contains(t, got, "add_constructor at offset 27")
	require.NotContains(t, got, "noop")
	require.Contains(t, got, "LoggerService already injected into AComponent")
	require.Contains(t, got, "no class found")
	require.Contains(t, got, "Changed: 1, Unchanged: 1, Failed: 1")
	require.Less(t, strings.Index(got, "/app/a/"), strings.Index(got, "/app/b/"))
}

func TestRenderPlan(t *testing.T) {
	var buf bytes.Buffer
	RenderPlan(&buf, injector.InjectionContext{FilePath: "app.component.ts", ClassName: "AppComponent"}, []edit.Directive{
		{Kind: edit.KindAddParameter, Offset: 42, Text: "private loggerService: LoggerService"},
		edit.Noop("app.component.ts"),
	})

	got := buf.String()
	require.Contains(t, got, "add_parameter")
	require.Contains(t, got, "42")
	require.Contains(t, got, "already present")
	require.Contains(t, got, "1 pending")
}

func TestSpinnerKeyCancelsAction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	var actionErr error
	m := newSpinnerModel(ctx, cancel, "patching", make(chan logEntry), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		actionErr = ctx.Err()
		return actionErr
	})
	<-started

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.True(t, m.finished)
	require.ErrorIs(t, m.err, errCanceled)

	select {
	case <-m.stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("action still running after cancel")
	}
	require.ErrorIs(t, actionErr, context.Canceled)
	require.Contains(t, m.View(), "operation canceled")
}
