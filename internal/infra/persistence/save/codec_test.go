package save

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savesDir = ".emberfall/saves"

func newTestCodec(version string) (*Codec, afero.Fs) {
	fs := afero.NewMemMapFs()
	return NewCodec(fs, savesDir, version), fs
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, _ := newTestCodec("1.0.0")

	gameState := map[string]interface{}{
		"player": map[string]interface{}{
			"level":    5.0,
			"location": "Forest",
			"playtime": 742.5,
		},
		"flags": map[string]interface{}{"met_warden": true},
		"party": []interface{}{"Wren", "Ash"},
	}

	slot, meta, err := codec.Encode(gameState, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "slot1", slot)
	assert.Equal(t, 5, meta.PlayerLevel)
	assert.Equal(t, "Forest", meta.Location)
	assert.Equal(t, 742.5, meta.Playtime)
	assert.Equal(t, "1.0.0", meta.Version)
	assert.NotEmpty(t, meta.SaveID)

	decoded, gotMeta, err := codec.Decode("slot1")
	require.NoError(t, err)
	assert.Equal(t, gameState, decoded)
	assert.Equal(t, meta.SaveID, gotMeta.SaveID)
}

func TestCodec_ArtifactIsNeverRawJSON(t *testing.T) {
	codec, fs := newTestCodec("1.0.0")

	_, _, err := codec.Encode(map[string]interface{}{"player": map[string]interface{}{}}, "slot1")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, savesDir+"/slot1.sav")
	require.NoError(t, err)

	// The stored text must be base64 of a gzip stream, not JSON
	assert.NotContains(t, string(data), "{")
	compressed, err := base64.StdEncoding.DecodeString(string(data))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(compressed), 2)
	assert.Equal(t, byte(0x1f), compressed[0], "gzip magic byte")
	assert.Equal(t, byte(0x8b), compressed[1], "gzip magic byte")
}

func TestCodec_MetadataDefaults(t *testing.T) {
	codec, _ := newTestCodec("1.0.0")

	_, meta, err := codec.Encode(map[string]interface{}{"scene": "intro"}, "fresh")
	require.NoError(t, err)
	assert.Equal(t, 1, meta.PlayerLevel)
	assert.Equal(t, "Unknown", meta.Location)
	assert.Equal(t, 0.0, meta.Playtime)
}

func TestCodec_AutoSlot(t *testing.T) {
	codec, _ := newTestCodec("1.0.0")

	slot, meta, err := codec.Encode(map[string]interface{}{}, "")
	require.NoError(t, err)
	assert.Equal(t, "save_"+meta.SaveID, slot)

	_, _, err = codec.Decode(slot)
	assert.NoError(t, err)
}

func TestCodec_SlotNamesAreSlugged(t *testing.T) {
	codec, _ := newTestCodec("1.0.0")

	slot, _, err := codec.Encode(map[string]interface{}{}, "Forest Camp 1")
	require.NoError(t, err)
	assert.Equal(t, "forest-camp-1", slot)

	// Decode accepts the original spelling
	_, _, err = codec.Decode("Forest Camp 1")
	assert.NoError(t, err)
}

func TestCodec_DecodeNotFound(t *testing.T) {
	codec, _ := newTestCodec("1.0.0")

	_, _, err := codec.Decode("missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestCodec_DecodeCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not base64", "!!! not base64 !!!"},
		{"base64 of garbage", base64.StdEncoding.EncodeToString([]byte("not gzip"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, fs := newTestCodec("1.0.0")
			require.NoError(t, afero.WriteFile(fs, savesDir+"/bad.sav", []byte(tt.content), 0o644))

			_, _, err := codec.Decode("bad")
			assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
		})
	}
}

func TestCodec_DecodeGzipOfGarbageIsCorrupt(t *testing.T) {
	codec, fs := newTestCodec("1.0.0")

	// Valid base64 and gzip, but the decompressed text is not JSON
	raw := gzipBase64(t, []byte("this is not json"))
	require.NoError(t, afero.WriteFile(fs, savesDir+"/bad.sav", raw, 0o644))

	_, _, err := codec.Decode("bad")
	assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
}

func gzipBase64(t *testing.T, raw []byte) []byte {
	t.Helper()
	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	if _, err := zw.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return []byte(base64.StdEncoding.EncodeToString(compressed.Bytes()))
}

func TestCodec_VersionGate(t *testing.T) {
	writer, fs := newTestCodec("2.3.1")
	_, _, err := writer.Encode(map[string]interface{}{"era": "second"}, "slot1")
	require.NoError(t, err)

	t.Run("major mismatch is rejected without partial data", func(t *testing.T) {
		reader := NewCodec(fs, savesDir, "1.0.0")
		state, _, err := reader.Decode("slot1")
		assert.True(t, errors.Is(err, ErrVersionIncompatible), "got %v", err)
		assert.Nil(t, state)
	})

	t.Run("minor and patch may differ", func(t *testing.T) {
		reader := NewCodec(fs, savesDir, "2.9.9")
		_, _, err := reader.Decode("slot1")
		assert.NoError(t, err)
	})
}

func TestCodec_MalformedVersionIsCorrupt(t *testing.T) {
	writer, fs := newTestCodec("banana")
	// Encode succeeds (version string is opaque on write) but decode
	// cannot gate on it
	_, _, err := writer.Encode(map[string]interface{}{}, "slot1")
	require.NoError(t, err)

	reader := NewCodec(fs, savesDir, "1.0.0")
	_, _, err = reader.Decode("slot1")
	assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
}
