package history

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/screen/screentest"
	"github.com/Emdad05/Quiz-Ai/internal/session"
)

// testHistoryScreen records one completed and one saved attempt, then
// opens History with the list loaded.
func testHistoryScreen(t *testing.T) (*HistoryScreen, *screentest.Fixture) {
	t.Helper()
	f := screentest.New(t)
	ctx := f.Env.Ctx
	sess := f.Env.Session

	f.StartQuiz(t)
	if err := sess.SelectOption(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := sess.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	if err := sess.Reattempt(ctx); err != nil {
		t.Fatal(err)
	}
	if err := sess.Exit(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := sess.OpenHistory(ctx); err != nil {
		t.Fatal(err)
	}

	s := New(f.Env)
	s.Update(s.Init()())
	return s, f
}

func TestHistoryScreen_Title(t *testing.T) {
	s := New(screentest.New(t).Env)
	if s.Title() != "History" {
		t.Errorf("Title = %q, want %q", s.Title(), "History")
	}
}

func TestHistoryScreen_Loads(t *testing.T) {
	s, _ := testHistoryScreen(t)
	if !s.loaded {
		t.Fatal("expected history to be loaded")
	}
	if len(s.attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(s.attempts))
	}
	view := s.View(120, 40)
	if !strings.Contains(view, "in progress") || !strings.Contains(view, "NEED REVIEW") {
		t.Errorf("view should show both attempts:\n%s", view)
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	f := screentest.New(t)
	s := New(f.Env)
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 24), "No attempts yet") {
		t.Error("expected the empty message")
	}
}

func TestHistoryScreen_ResumeSelected(t *testing.T) {
	s, f := testHistoryScreen(t)
	var inProgress int
	for i, a := range s.attempts {
		if !a.Completed() {
			inProgress = i
		}
	}
	s.selected = inProgress
	s.Update(screentest.Special(tea.KeyEnter))

	if f.Env.Session.Screen() != session.ScreenQuiz {
		t.Errorf("screen = %v, want QUIZ", f.Env.Session.Screen())
	}
}

func TestHistoryScreen_OpenCompleted(t *testing.T) {
	s, f := testHistoryScreen(t)
	for i, a := range s.attempts {
		if a.Completed() {
			s.selected = i
		}
	}
	s.Update(screentest.Special(tea.KeyEnter))

	if f.Env.Session.Screen() != session.ScreenResults {
		t.Errorf("screen = %v, want RESULTS", f.Env.Session.Screen())
	}
}

func TestHistoryScreen_DeleteConfirm(t *testing.T) {
	s, f := testHistoryScreen(t)
	s.Update(screentest.Key('d'))
	if s.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want confirm delete", s.mode)
	}
	s.Update(screentest.Key('n'))
	if s.mode != modeList {
		t.Fatal("n should cancel")
	}

	s.Update(screentest.Key('d'))
	_, cmd := s.Update(screentest.Key('y'))
	if cmd == nil {
		t.Fatal("delete should reload the list")
	}
	s.Update(cmd())

	if len(s.attempts) != 1 {
		t.Errorf("attempts = %d, want 1", len(s.attempts))
	}
	stored, _ := f.Env.Session.History().List(f.Env.Ctx)
	if len(stored) != 1 {
		t.Errorf("stored = %d, want 1", len(stored))
	}
}

func TestHistoryScreen_ClearAll(t *testing.T) {
	s, f := testHistoryScreen(t)
	s.Update(screentest.Key('c'))
	s.Update(screentest.Key('y'))

	stored, _ := f.Env.Session.History().List(f.Env.Ctx)
	if len(stored) != 0 {
		t.Errorf("stored = %d, want 0", len(stored))
	}
	if f.Env.Session.Screen() != session.ScreenSetup {
		t.Errorf("screen = %v, want SETUP", f.Env.Session.Screen())
	}
}

func TestHistoryScreen_ExpandDetails(t *testing.T) {
	s, _ := testHistoryScreen(t)
	s.Update(screentest.Key(' '))
	id := s.attempts[s.selected].ID
	if !s.expanded[id] {
		t.Fatal("space should expand the row")
	}
	if !strings.Contains(s.View(120, 40), "Press Enter") {
		t.Error("expanded row should show details")
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s, _ := testHistoryScreen(t)
	s.Update(screentest.Special(tea.KeyDown))
	s.Update(screentest.Special(tea.KeyDown))
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(screentest.Special(tea.KeyUp))
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a much longer title", 6); got != "a muc…" {
		t.Errorf("truncate = %q, want %q", got, "a muc…")
	}
}
