package landing

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/screen/screentest"
	"github.com/Emdad05/Quiz-Ai/internal/session"
)

func TestLandingScreen_View(t *testing.T) {
	f := screentest.New(t)
	l := New(f.Env)
	l.Init()

	view := l.View(100, 40)
	for _, want := range []string{"Start a new quiz", "History", "Context aware"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "unfinished quiz") {
		t.Error("no unfinished quiz expected")
	}
}

func TestLandingScreen_MenuNavigates(t *testing.T) {
	tests := []struct {
		downs int
		want  session.Screen
	}{
		{0, session.ScreenSetup},
		{1, session.ScreenHistory},
		{2, session.ScreenAPISetup},
		{3, session.ScreenHowTo},
	}
	for _, tt := range tests {
		f := screentest.New(t)
		l := New(f.Env)
		l.Init()
		for range tt.downs {
			l.Update(screentest.Special(tea.KeyDown))
		}
		l.Update(screentest.Special(tea.KeyEnter))
		if got := f.Env.Session.Screen(); got != tt.want {
			t.Errorf("after %d downs: screen = %v, want %v", tt.downs, got, tt.want)
		}
	}
}

func TestLandingScreen_Quit(t *testing.T) {
	f := screentest.New(t)
	l := New(f.Env)
	l.Init()
	for range 4 {
		l.Update(screentest.Special(tea.KeyDown))
	}
	_, cmd := l.Update(screentest.Special(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Quit should produce tea.QuitMsg")
	}
}

func TestLandingScreen_UnfinishedQuiz(t *testing.T) {
	f := screentest.New(t)
	f.StartQuiz(t)
	if err := f.Env.Session.Exit(f.Env.Ctx, true); err != nil {
		t.Fatal(err)
	}

	l := New(f.Env)
	l.Init()
	if !strings.Contains(l.View(100, 40), "unfinished quiz") {
		t.Error("view should point to the saved attempt")
	}
}
