package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chordworks/chartgen"
)

// Store receives rendered buffers by destination name. The engine does not
// manage directories or paths beyond the deterministic name it suggests.
type Store interface {
	Write(name string, data []byte) error
}

// Dir writes buffers into a single output directory, backing up any file it
// would overwrite.
type Dir struct {
	root   string
	backup *chartgen.BackupManager
	// NoBackup disables backup-before-overwrite
	NoBackup bool
}

func NewDir(root string) *Dir {
	return &Dir{
		root:   root,
		backup: chartgen.NewBackupManager(),
	}
}

func (d *Dir) Root() string { return d.root }

func (d *Dir) Write(name string, data []byte) error {
	if err := os.MkdirAll(d.root, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(d.root, name)

	if !d.NoBackup {
		if _, err := d.backup.CreateBackupOf(path); err != nil {
			return fmt.Errorf("backup error: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
