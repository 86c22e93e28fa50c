package file_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/hollowmere/emberfall/internal/infra/persistence/file"
)

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		data    []byte
		setupFS func(fs afero.Fs) error
		want    string
	}{
		{
			name: "creates parent directories",
			path: ".emberfall/saves/slot1.sav",
			data: []byte("encoded artifact"),
			want: "encoded artifact",
		},
		{
			name: "overwrites existing file",
			path: ".emberfall/state.json",
			data: []byte(`{"current_state":"combat"}`),
			setupFS: func(fs afero.Fs) error {
				return afero.WriteFile(fs, ".emberfall/state.json", []byte(`{"current_state":"main_menu"}`), 0o644)
			},
			want: `{"current_state":"combat"}`,
		},
		{
			name: "empty payload",
			path: "empty.sav",
			data: []byte{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tt.setupFS != nil {
				if err := tt.setupFS(fs); err != nil {
					t.Fatalf("setup: %v", err)
				}
			}

			if err := file.WriteFileAtomic(fs, tt.path, tt.data); err != nil {
				t.Fatalf("WriteFileAtomic() error = %v", err)
			}

			content, err := afero.ReadFile(fs, tt.path)
			if err != nil {
				t.Fatalf("failed to read back: %v", err)
			}
			if string(content) != tt.want {
				t.Errorf("content = %q, want %q", string(content), tt.want)
			}

			assertNoTempFiles(t, fs, tt.path)
		})
	}
}

// failRenameFs fails every rename, to exercise the cleanup path
type failRenameFs struct {
	afero.Fs
}

func (f *failRenameFs) Rename(oldname, newname string) error {
	return errors.New("rename failed")
}

func TestWriteFileAtomic_RenameFailure(t *testing.T) {
	fs := &failRenameFs{Fs: afero.NewMemMapFs()}

	err := file.WriteFileAtomic(fs, "slot1.sav", []byte("content"))
	if err == nil {
		t.Fatal("expected error when rename fails")
	}

	if exists, _ := afero.Exists(fs, "slot1.sav"); exists {
		t.Error("destination should not exist after failed rename")
	}
	assertNoTempFiles(t, fs, "slot1.sav")
}

func assertNoTempFiles(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	dir := "."
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		dir = path[:idx]
	}
	entries, _ := afero.ReadDir(fs, dir)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}
