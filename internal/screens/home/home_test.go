package home

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/digest"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/router"
	"github.com/abhisek/quizbook/internal/screens/history"
	"github.com/abhisek/quizbook/internal/screens/play"
	"github.com/abhisek/quizbook/internal/store"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testHome(t *testing.T, algorithm string) *HomeScreen {
	t.Helper()
	cat, err := bank.Builtin()
	if err != nil {
		t.Fatalf("builtin banks: %v", err)
	}
	d, err := digest.New(algorithm)
	if err != nil {
		t.Fatalf("digester: %v", err)
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return New(Options{
		Catalog:  cat,
		Digester: d,
		Results:  results.New(st.KV()),
		Events:   st.EventRepo(),
	})
}

func TestMenuListsBanks(t *testing.T) {
	h := testHome(t, digest.Default)

	if h.bankCount != 3 {
		t.Errorf("bank count = %d, want 3", h.bankCount)
	}
	if got := h.menuLabels[len(h.menuLabels)-1]; got != "QUIT" {
		t.Errorf("last item = %q, want QUIT", got)
	}
	if !strings.Contains(strings.Join(h.menuLabels, "\n"), "Grade 8") {
		t.Errorf("expected a detected grade label in %v", h.menuLabels)
	}
}

func TestSelectBankOpensIntake(t *testing.T) {
	h := testHome(t, digest.SHA3_256)

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*play.IntakeScreen); !ok {
		t.Errorf("expected *play.IntakeScreen, got %T", msg.Screen)
	}
}

func TestHistoryItem(t *testing.T) {
	h := testHome(t, digest.Default)
	for i := 0; i < h.bankCount; i++ {
		h.Update(specialKey(tea.KeyDown))
	}

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("expected *history.HistoryScreen, got %T", msg.Screen)
	}
}

func TestInitLoadsSavedCount(t *testing.T) {
	h := testHome(t, digest.Default)
	h.Update(h.Init()())
	if h.saved != 0 {
		t.Errorf("saved = %d, want 0", h.saved)
	}
	if !strings.Contains(h.View(100, 30), "0 RESULTS") {
		t.Error("expected the saved count in the view")
	}
}

func TestAutostartOpensIntakeOnce(t *testing.T) {
	h := testHome(t, digest.Default)
	h.opts.Autostart = "grade8-html-basics"

	batch, ok := h.Init()().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batch of commands")
	}
	var pushed bool
	for _, cmd := range batch {
		if msg, ok := cmd().(router.PushScreenMsg); ok {
			_, pushed = msg.Screen.(*play.IntakeScreen)
		}
	}
	if !pushed {
		t.Error("expected the intake screen to be pushed")
	}

	if _, ok := h.Init()().(tea.BatchMsg); ok {
		t.Error("autostart should only fire on the first Init")
	}
}
