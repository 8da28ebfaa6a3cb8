package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTaskUpdateMsg(t *testing.T) {
	m := NewTaskModel("tools")
	m.AddTask("steamcmd", "steamcmd")
	m.AddTask("fastgmad", "fastgmad")

	updated, _ := m.Update(TaskUpdateMsg{Key: "steamcmd", Status: "installed", Detail: "/tmp/steamcmd/steamcmd.sh"})
	m = updated.(TaskModel)

	if m.tasks[0].status != "installed" || m.tasks[0].detail != "/tmp/steamcmd/steamcmd.sh" {
		t.Errorf("unexpected first task %+v", m.tasks[0])
	}
	if m.tasks[1].status != "pending" {
		t.Errorf("second task should be untouched, got %+v", m.tasks[1])
	}

	updated, _ = m.Update(TaskUpdateMsg{Key: "steamcmd", Status: "cached"})
	m = updated.(TaskModel)
	if m.tasks[0].detail != "/tmp/steamcmd/steamcmd.sh" {
		t.Errorf("empty detail must not clear the previous one, got %q", m.tasks[0].detail)
	}
}

func TestTaskUpdateUnknownKey(t *testing.T) {
	m := NewTaskModel("")
	m.AddTask("a", "a")
	updated, _ := m.Update(TaskUpdateMsg{Key: "zzz", Status: "error"})
	if got := updated.(TaskModel).tasks[0].status; got != "pending" {
		t.Fatalf("expected pending, got %q", got)
	}
}

func TestWorkDoneAndError(t *testing.T) {
	m := NewTaskModel("")
	updated, cmd := m.Update(WorkDoneMsg{})
	if !updated.(TaskModel).Done() || cmd == nil {
		t.Fatalf("expected done with quit command")
	}

	updated, cmd = NewTaskModel("").Update(ErrorMsg{Err: errors.New("boom")})
	final := updated.(TaskModel)
	if !final.Done() || final.Err() == nil || cmd == nil {
		t.Fatalf("expected error state, got %+v", final)
	}
	if !strings.Contains(final.View(), "Error:") {
		t.Fatalf("expected error view, got %q", final.View())
	}
}

func TestTaskView(t *testing.T) {
	m := NewTaskModel("Provisioning")
	m.AddTask("steamcmd", "steamcmd")
	m.AddTask("fastgmad", "fastgmad")
	updated, _ := m.Update(TaskUpdateMsg{Key: "fastgmad", Status: "installed"})
	view := updated.(TaskModel).View()

	for _, want := range []string{"Provisioning", "TOOL", "STATUS", "steamcmd", "pending", "installed", "Processing 1/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestPasswordModel(t *testing.T) {
	m := NewPasswordModel("Steam password for user")

	var model tea.Model = m
	for _, r := range "hunter2" {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if strings.Contains(model.View(), "hunter2") {
		t.Fatalf("password echoed in view: %q", model.View())
	}

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit after enter")
	}
	got, err := model.(PasswordModel).Value()
	if err != nil || got != "hunter2" {
		t.Fatalf("Value() = %q, %v", got, err)
	}
}

func TestPasswordModelEmptyEnterIgnored(t *testing.T) {
	model, cmd := NewPasswordModel("x").Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("empty submit should not quit")
	}
	if _, err := model.(PasswordModel).Value(); !errors.Is(err, ErrPromptCancelled) {
		t.Fatalf("expected no value yet, got %v", err)
	}
}

func TestPasswordModelCancel(t *testing.T) {
	model, _ := NewPasswordModel("x").Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, err := model.(PasswordModel).Value(); !errors.Is(err, ErrPromptCancelled) {
		t.Fatalf("expected ErrPromptCancelled, got %v", err)
	}
}

func TestDetectModePlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	if got := DetectMode(&buf, false, false); got != ModePlain {
		t.Fatalf("expected plain mode for buffer, got %v", got)
	}
	if got := DetectMode(&buf, false, true); got != ModeJSON {
		t.Fatalf("expected json mode, got %v", got)
	}
	if IsInteractive(&buf, &buf) {
		t.Fatalf("buffers are not interactive")
	}
}

func TestStatusWriterPrintf(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStatusWriter(&buf)
	sw.Printf("downloading %s", "steamcmd")
	sw.mu.Lock()
	msg := sw.message
	sw.mu.Unlock()
	sw.Stop()
	if msg != "downloading steamcmd" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestStage(t *testing.T) {
	if got := Stage(2, 6, "updating SteamCMD"); !strings.Contains(got, "[2/6]") || !strings.Contains(got, "updating SteamCMD") {
		t.Fatalf("unexpected stage banner %q", got)
	}
}

func TestRunWithWorkReturnsWorkError(t *testing.T) {
	m := NewTaskModel("")
	m.AddTask("steamcmd", "steamcmd")
	want := errors.New("steamcmd: fetch failed")

	var out bytes.Buffer
	err := RunWithWork(&out, m, func(send func(tea.Msg)) error {
		send(TaskUpdateMsg{Key: "steamcmd", Status: "error"})
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected work error, got %v", err)
	}
}
