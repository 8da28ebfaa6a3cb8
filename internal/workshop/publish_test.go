package workshop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"workshopupload/internal/runner"
	"workshopupload/internal/tools"
)

type fakeProvisioner struct{ calls int }

func (f *fakeProvisioner) EnsureInstalled(_ context.Context, _ tools.Descriptor) (string, error) {
	f.calls++
	return "/tools/steamcmd/steamcmd.sh", nil
}

type fakeAuth bool

func (f fakeAuth) IsAuthenticated(string) bool { return bool(f) }

type fakeRunner struct {
	code     runner.ExitCode
	args     [][]string
	manifest string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args []string, _ runner.RunOptions) (runner.ExitCode, error) {
	f.args = append(f.args, args)
	if data, err := os.ReadFile(args[5]); err == nil {
		f.manifest = string(data)
	}
	return f.code, nil
}

func newPublisher(t *testing.T, authed bool, code runner.ExitCode) (*Publisher, *fakeRunner) {
	t.Helper()
	fr := &fakeRunner{code: code}
	return &Publisher{
		Tools:   &fakeProvisioner{},
		Auth:    fakeAuth(authed),
		Runner:  fr,
		BaseDir: t.TempDir(),
	}, fr
}

func TestPublishRelativeFolder(t *testing.T) {
	for _, folder := range []string{"relative/path", "addon", "./out", ""} {
		p, fr := newPublisher(t, true, 0)
		err := p.Publish(context.Background(), "user", Options{AppID: "4000", Folder: folder})
		if !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("folder %q: expected ErrInvalidPath, got %v", folder, err)
		}
		if len(fr.args) != 0 {
			t.Fatalf("folder %q: expected no subprocess", folder)
		}
		entries, _ := os.ReadDir(p.BaseDir)
		if len(entries) != 0 {
			t.Fatalf("folder %q: expected no files written, got %v", folder, entries)
		}
	}
}

func TestPublishRelativeIcon(t *testing.T) {
	p, fr := newPublisher(t, true, 0)
	folder := filepath.Join(t.TempDir(), "out")
	err := p.Publish(context.Background(), "user", Options{AppID: "4000", Folder: folder, Icon: "icon.jpg"})
	var pathErr *InvalidPathError
	if !errors.As(err, &pathErr) || pathErr.Field != "icon" {
		t.Fatalf("expected icon InvalidPathError, got %v", err)
	}
	if len(fr.args) != 0 {
		t.Fatalf("expected no subprocess")
	}
}

func TestPublishNotAuthenticated(t *testing.T) {
	p, fr := newPublisher(t, false, 0)
	err := p.Publish(context.Background(), "user", Options{AppID: "4000", Folder: "relative"})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated before path checks, got %v", err)
	}
	if len(fr.args) != 0 {
		t.Fatalf("expected no subprocess")
	}
}

func TestPublishWritesManifestAndInvokesClient(t *testing.T) {
	for _, code := range []runner.ExitCode{0, 7} {
		p, fr := newPublisher(t, true, code)
		folder := filepath.Join(t.TempDir(), "addon")
		opts := Options{AppID: "4000", Folder: folder, ID: "123", Changelog: `hi "there"`}

		if err := p.Publish(context.Background(), "user", opts); err != nil {
			t.Fatalf("exit %s: Publish: %v", code, err)
		}
		manifestPath := filepath.Join(p.BaseDir, ManifestFileName)
		want := []string{"+@ShutdownOnFailedCommand", "1", "+login", "user", "+workshop_build_item", manifestPath, "+quit"}
		if len(fr.args) != 1 || !reflect.DeepEqual(fr.args[0], want) {
			t.Fatalf("unexpected args %v", fr.args)
		}
		if fr.manifest != BuildManifest(opts, nil).String() {
			t.Fatalf("manifest on disk differs:\n%s", fr.manifest)
		}
	}
}

func TestPublishRejectedExitCode(t *testing.T) {
	p, _ := newPublisher(t, true, 2)
	err := p.Publish(context.Background(), "user", Options{AppID: "4000", Folder: filepath.Join(t.TempDir(), "a")})
	var pubErr *PublishError
	if !errors.As(err, &pubErr) || pubErr.Code != 2 {
		t.Fatalf("expected PublishError with code 2, got %v", err)
	}
	if !errors.Is(err, ErrPublish) {
		t.Fatalf("expected ErrPublish, got %v", err)
	}
}
