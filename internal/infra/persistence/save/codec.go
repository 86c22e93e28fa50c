package save

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/hollowmere/emberfall/internal/infra/persistence/file"
	"github.com/hollowmere/emberfall/internal/pkg/slotpath"
)

// artifactExt is the on-disk extension for save artifacts
const artifactExt = ".sav"

// Codec turns an in-memory game state into a durable, versioned
// artifact and back. The pipeline is fixed: JSON, then gzip, then
// base64 text. Artifacts on disk are never raw JSON, so decode has no
// legacy fallback path.
type Codec struct {
	fs      afero.Fs
	dir     string
	version string
}

// NewCodec creates a codec writing artifacts under dir, stamping each
// with the given semantic version
func NewCodec(fs afero.Fs, dir string, version string) *Codec {
	return &Codec{fs: fs, dir: dir, version: version}
}

// Version returns the semantic version stamped into new artifacts
func (c *Codec) Version() string {
	return c.version
}

// ArtifactPath returns the on-disk path for a slot name
func (c *Codec) ArtifactPath(slot string) string {
	return filepath.Join(c.dir, slot+artifactExt)
}

// resolveSlot normalizes a user-supplied slot name, or derives an
// auto slot from the save ID when the name is empty
func resolveSlot(slot, saveID string) string {
	if slot == "" {
		return "save_" + saveID
	}
	return slotpath.Slugify(slot)
}

// Encode wraps the game state with fresh metadata, runs it through
// the encode pipeline and persists it under the slot name. It returns
// the resolved slot together with the embedded metadata.
func (c *Codec) Encode(gameState map[string]interface{}, slot string) (string, Metadata, error) {
	meta := buildMetadata(gameState, c.version, time.Now().UTC())
	slot = resolveSlot(slot, meta.SaveID)

	data, err := encodeEnvelope(envelope{Metadata: meta, GameState: gameState})
	if err != nil {
		return "", Metadata{}, err
	}
	if err := file.WriteFileAtomic(c.fs, c.ArtifactPath(slot), data); err != nil {
		return "", Metadata{}, fmt.Errorf("failed to persist save %s: %w", slot, err)
	}
	GetLogger().Debug("save artifact written: %s (id %s)", slot, meta.SaveID)
	return slot, meta, nil
}

// Decode reads the artifact under the slot name and reverses the
// encode pipeline. Structural faults at any stage yield ErrCorrupt;
// a major version mismatch yields ErrVersionIncompatible and no
// partial data.
func (c *Codec) Decode(slot string) (map[string]interface{}, Metadata, error) {
	if slot != "" {
		slot = slotpath.Slugify(slot)
	}
	path := c.ArtifactPath(slot)

	exists, err := afero.Exists(c.fs, path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to stat save %s: %w", slot, err)
	}
	if !exists {
		return nil, Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, slot)
	}

	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("failed to read save %s: %w", slot, err)
	}

	env, err := c.decodeEnvelope(data)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("save %s: %w", slot, err)
	}
	return env.GameState, env.Metadata, nil
}

// encodeEnvelope runs the forward pipeline: JSON -> gzip -> base64
func encodeEnvelope(env envelope) ([]byte, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal save data: %w", err)
	}

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to compress save data: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress save data: %w", err)
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(compressed.Len()))
	base64.StdEncoding.Encode(encoded, compressed.Bytes())
	return encoded, nil
}

// decodeEnvelope reverses the pipeline and gates on the major version
func (c *Codec) decodeEnvelope(data []byte) (envelope, error) {
	compressed, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return envelope{}, fmt.Errorf("%w: text decode failed: %v", ErrCorrupt, err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return envelope{}, fmt.Errorf("%w: decompression failed: %v", ErrCorrupt, err)
	}
	raw, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return envelope{}, fmt.Errorf("%w: decompression failed: %v", ErrCorrupt, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: parse failed: %v", ErrCorrupt, err)
	}

	artifactMajor, err := majorVersion(env.Metadata.Version)
	if err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	systemMajor, err := majorVersion(c.version)
	if err != nil {
		return envelope{}, fmt.Errorf("system version: %w", err)
	}
	if artifactMajor != systemMajor {
		return envelope{}, fmt.Errorf("%w: artifact %s vs system %s",
			ErrVersionIncompatible, env.Metadata.Version, c.version)
	}
	return env, nil
}
