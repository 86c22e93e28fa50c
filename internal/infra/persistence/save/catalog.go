package save

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/hollowmere/emberfall/internal/infra/persistence/file"
	"github.com/hollowmere/emberfall/internal/pkg/slotpath"
)

// DefaultMaxSaves bounds the catalog when no explicit limit is
// configured
const DefaultMaxSaves = 10

// Entry pairs a slot name with the metadata embedded in its artifact
type Entry struct {
	Slot string   `json:"slot"`
	Meta Metadata `json:"metadata"`
}

// Catalog enumerates, bounds and relocates save artifacts. Listing is
// best effort: artifacts that fail to decode are skipped, not
// reported as catalog errors.
type Catalog struct {
	codec    *Codec
	maxSaves int
}

// NewCatalog creates a catalog over the codec's artifact directory
func NewCatalog(codec *Codec, maxSaves int) *Catalog {
	if maxSaves <= 0 {
		maxSaves = DefaultMaxSaves
	}
	return &Catalog{codec: codec, maxSaves: maxSaves}
}

// Put encodes the game state under the slot name and then enforces
// retention. A retention failure after a successful write is logged
// but does not fail the save.
func (c *Catalog) Put(gameState map[string]interface{}, slot string) (string, Metadata, error) {
	slot, meta, err := c.codec.Encode(gameState, slot)
	if err != nil {
		return "", Metadata{}, err
	}
	if _, err := c.EnforceRetention(); err != nil {
		GetLogger().Warn("retention enforcement failed after save %s: %v", slot, err)
	}
	return slot, meta, nil
}

// Load decodes the named save artifact
func (c *Catalog) Load(slot string) (map[string]interface{}, Metadata, error) {
	return c.codec.Decode(slot)
}

// List returns the catalog entries newest-first by timestamp.
// Artifacts that fail to decode are silently skipped (logged at
// debug level only).
func (c *Catalog) List() ([]Entry, error) {
	infos, err := afero.ReadDir(c.codec.fs, c.codec.dir)
	if err != nil {
		if exists, _ := afero.DirExists(c.codec.fs, c.codec.dir); !exists {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), artifactExt) {
			continue
		}
		slot := strings.TrimSuffix(info.Name(), artifactExt)
		_, meta, err := c.codec.Decode(slot)
		if err != nil {
			GetLogger().Debug("skipping undecodable save artifact %s: %v", info.Name(), err)
			continue
		}
		entries = append(entries, Entry{Slot: slot, Meta: meta})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Meta.Timestamp > entries[j].Meta.Timestamp
	})
	return entries, nil
}

// EnforceRetention deletes the oldest surplus artifacts until at most
// maxSaves remain. Returns the number of artifacts deleted.
func (c *Catalog) EnforceRetention() (int, error) {
	entries, err := c.List()
	if err != nil {
		return 0, err
	}
	if len(entries) <= c.maxSaves {
		return 0, nil
	}

	deleted := 0
	for _, entry := range entries[c.maxSaves:] {
		if err := c.codec.fs.Remove(c.codec.ArtifactPath(entry.Slot)); err != nil {
			return deleted, fmt.Errorf("%w: %v", ErrCatalogIO, err)
		}
		GetLogger().Info("retired save artifact %s (id %s)", entry.Slot, entry.Meta.SaveID)
		deleted++
	}
	return deleted, nil
}

// Delete removes the named artifact. It reports false without error
// when no artifact exists under the slot name.
func (c *Catalog) Delete(slot string) (bool, error) {
	slot = slotpath.Slugify(slot)
	path := c.codec.ArtifactPath(slot)

	exists, err := afero.Exists(c.codec.fs, path)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}
	if !exists {
		return false, nil
	}
	if err := c.codec.fs.Remove(path); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}
	return true, nil
}

// ExportTo copies the encoded artifact byte-for-byte to an external
// path
func (c *Catalog) ExportTo(slot string, externalPath string) error {
	slot = slotpath.Slugify(slot)
	path := c.codec.ArtifactPath(slot)

	exists, err := afero.Exists(c.codec.fs, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, slot)
	}

	data, err := afero.ReadFile(c.codec.fs, path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}
	if err := file.WriteFileAtomic(c.codec.fs, externalPath, data); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}
	return nil
}

// ImportFrom accepts an external artifact into the catalog. The
// artifact must pass the same structural and version checks as a
// decode before it is admitted; retention is enforced afterwards.
// An empty slot name derives one from the embedded save ID.
func (c *Catalog) ImportFrom(externalPath string, slot string) (string, Metadata, error) {
	data, err := afero.ReadFile(c.codec.fs, externalPath)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}

	env, err := c.codec.decodeEnvelope(data)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("import %s: %w", externalPath, err)
	}

	slot = resolveSlot(slot, env.Metadata.SaveID)
	if err := file.WriteFileAtomic(c.codec.fs, c.codec.ArtifactPath(slot), data); err != nil {
		return "", Metadata{}, fmt.Errorf("%w: %v", ErrCatalogIO, err)
	}

	if _, err := c.EnforceRetention(); err != nil {
		GetLogger().Warn("retention enforcement failed after import %s: %v", slot, err)
	}
	return slot, env.Metadata, nil
}
