package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Disk stores uploaded files on the local filesystem, one directory per
// customer.
type Disk struct {
	root string
}

func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{root: root}, nil
}

// Save writes the file under a fresh UUID-prefixed name and returns the path
// relative to the storage root.
func (d *Disk) Save(customerID, fileName string, r io.Reader) (string, error) {
	dir := filepath.Join(d.root, customerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create customer dir: %w", err)
	}

	rel := filepath.Join(customerID, uuid.NewString()+"_"+filepath.Base(fileName))
	f, err := os.Create(filepath.Join(d.root, rel))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return rel, nil
}

func (d *Disk) Open(relPath string) (*os.File, error) {
	return os.Open(filepath.Join(d.root, relPath))
}

func (d *Disk) Remove(relPath string) error {
	err := os.Remove(filepath.Join(d.root, relPath))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
