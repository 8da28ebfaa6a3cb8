package gmad

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

type fakeProvisioner struct {
	path string
	tool string
}

func (f *fakeProvisioner) EnsureInstalled(_ context.Context, tool tools.Descriptor) (string, error) {
	f.tool = tool.Name
	return f.path, nil
}

type fakeRunner struct {
	code runner.ExitCode
	// seenDir records whether the output directory existed at spawn time.
	seenDir bool
	watch   string
	args    []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args []string, _ runner.RunOptions) (runner.ExitCode, error) {
	f.args = args
	if info, err := os.Stat(f.watch); err == nil && info.IsDir() {
		f.seenDir = true
	}
	return f.code, nil
}

func TestPackageCreatesParentFirst(t *testing.T) {
	base := t.TempDir()
	output := filepath.Join(base, "out", "nested", "addon.gma")
	fr := &fakeRunner{watch: filepath.Dir(output)}
	fp := &fakeProvisioner{path: "/tools/gmad/fastgmad"}
	p := &Packager{Tools: fp, Runner: fr}

	got, err := p.Package(context.Background(), "/src/addon", output)
	if err != nil {
		t.Fatalf("Package: %v", err)
	}
	if got != output {
		t.Fatalf("expected %q, got %q", output, got)
	}
	if !fr.seenDir {
		t.Fatalf("output directory must exist before the packager runs")
	}
	if fp.tool != tools.FastGMAD {
		t.Fatalf("expected fastgmad to be provisioned, got %q", fp.tool)
	}
	want := []string{"create", "-warninvalid", "-folder", "/src/addon", "-out", output}
	if !reflect.DeepEqual(fr.args, want) {
		t.Fatalf("unexpected args %v", fr.args)
	}
}

func TestPackageNonZeroExit(t *testing.T) {
	for _, code := range []runner.ExitCode{1, 7, runner.Unknown} {
		fr := &fakeRunner{code: code}
		p := &Packager{Tools: &fakeProvisioner{path: "fastgmad"}, Runner: fr}

		got, err := p.Package(context.Background(), "/src", filepath.Join(t.TempDir(), "addon.gma"))
		if !errors.Is(err, ErrPackaging) {
			t.Fatalf("exit %s: expected ErrPackaging, got %v", code, err)
		}
		if got != "" {
			t.Fatalf("exit %s: expected no path, got %q", code, got)
		}
		var pkgErr *PackagingError
		if !errors.As(err, &pkgErr) || pkgErr.Code != code {
			t.Fatalf("exit %s: expected code in error, got %v", code, err)
		}
	}
}
