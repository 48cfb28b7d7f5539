package app

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Emdad05/Quiz-Ai/internal/screen"
	"github.com/Emdad05/Quiz-Ai/internal/screen/screentest"
	"github.com/Emdad05/Quiz-Ai/internal/screens/landing"
	quizscreen "github.com/Emdad05/Quiz-Ai/internal/screens/quiz"
	"github.com/Emdad05/Quiz-Ai/internal/screens/setup"
	"github.com/Emdad05/Quiz-Ai/internal/session"
)

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T, want AppModel", next)
	}
	return am, cmd
}

func TestNewScreenCoversEveryScreen(t *testing.T) {
	env := screentest.New(t).Env
	for s := session.ScreenLanding; s <= session.ScreenHistory; s++ {
		if NewScreen(env, s) == nil {
			t.Errorf("no view for %v", s)
		}
	}
}

func TestInitMountsCurrentScreen(t *testing.T) {
	f := screentest.New(t)
	m := NewModel(f.Env)
	m.Init()
	if _, ok := m.router.Active().(*landing.LandingScreen); !ok {
		t.Errorf("active = %T, want landing", m.router.Active())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := NewModel(screentest.New(t).Env)
	m.Init()
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestRouterFollowsSession(t *testing.T) {
	f := screentest.New(t)
	m := NewModel(f.Env)
	m.Init()

	// Landing menu: first item opens setup.
	m, _ = update(t, m, screentest.Special(tea.KeyEnter))
	if f.Env.Session.Screen() != session.ScreenSetup {
		t.Fatalf("screen = %v, want SETUP", f.Env.Session.Screen())
	}
	if _, ok := m.router.Active().(*setup.SetupScreen); !ok {
		t.Errorf("active = %T, want setup", m.router.Active())
	}
}

func TestGenerationDoneStartsQuiz(t *testing.T) {
	f := screentest.New(t)
	ctx := f.Env.Ctx
	if err := f.Env.Session.Navigate(ctx, session.ScreenSetup); err != nil {
		t.Fatal(err)
	}
	job, err := f.Env.Session.BeginGeneration(ctx, screentest.Config())
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(f.Env)
	m.Init()

	msg := screen.Generate(f.Env, job)()
	m, cmd := update(t, m, msg)

	if f.Env.Session.Screen() != session.ScreenQuiz {
		t.Fatalf("screen = %v, want QUIZ", f.Env.Session.Screen())
	}
	if _, ok := m.router.Active().(*quizscreen.QuizScreen); !ok {
		t.Errorf("active = %T, want quiz", m.router.Active())
	}
	if cmd == nil {
		t.Error("mounting the quiz should start its timer")
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	f := screentest.New(t)
	ctx := f.Env.Ctx
	if err := f.Env.Session.Navigate(ctx, session.ScreenSetup); err != nil {
		t.Fatal(err)
	}
	job, err := f.Env.Session.BeginGeneration(ctx, screentest.Config())
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Env.Session.AbandonGeneration(ctx); err != nil {
		t.Fatal(err)
	}
	m := NewModel(f.Env)
	m.Init()

	update(t, m, screen.GenerationDoneMsg{Ticket: job.Ticket, Data: screentest.SampleQuiz()})
	if f.Env.Session.Screen() != session.ScreenSetup {
		t.Errorf("screen = %v, want SETUP", f.Env.Session.Screen())
	}
}

func TestGenerationErrorShowsBanner(t *testing.T) {
	f := screentest.New(t)
	ctx := f.Env.Ctx
	if err := f.Env.Session.Navigate(ctx, session.ScreenSetup); err != nil {
		t.Fatal(err)
	}
	job, err := f.Env.Session.BeginGeneration(ctx, screentest.Config())
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(f.Env)
	m.Init()

	m, _ = update(t, m, screen.GenerationDoneMsg{Ticket: job.Ticket, Err: errors.New("upstream said no")})
	if f.Env.Session.Screen() != session.ScreenSetup {
		t.Fatalf("screen = %v, want SETUP", f.Env.Session.Screen())
	}
	if got := f.Env.Session.Error(); got != "upstream said no" {
		t.Errorf("banner = %q", got)
	}
	if _, ok := m.router.Active().(*setup.SetupScreen); !ok {
		t.Errorf("active = %T, want setup", m.router.Active())
	}
}

func TestKeyDismissesErrorBanner(t *testing.T) {
	f := screentest.New(t)
	m := NewModel(f.Env)
	m.Init()
	f.Env.Session.Fail(errors.New("disk full"))

	update(t, m, screentest.Special(tea.KeyDown))
	if f.Env.Session.Error() != "" {
		t.Errorf("error = %q, want dismissed", f.Env.Session.Error())
	}
}

func TestViewShowsClockDuringQuiz(t *testing.T) {
	f := screentest.New(t)
	f.StartQuiz(t)
	m := NewModel(f.Env)
	m.Init()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if !strings.Contains(m.status(), "02:00") {
		t.Errorf("status = %q, want the countdown", m.status())
	}
	if m.View().Content == nil {
		t.Error("expected rendered content")
	}
}

func TestViewTooSmall(t *testing.T) {
	m := NewModel(screentest.New(t).Env)
	m.Init()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if m.View().Content == nil {
		t.Error("expected the resize message")
	}
}
