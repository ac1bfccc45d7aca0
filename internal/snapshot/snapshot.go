// Package snapshot reads and writes the crash-recovery file: a JSON header
// line followed by a gob body, the whole stream zstd-compressed.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Version is the format written by Write.
const Version = 1

// ErrVersion is returned by Read for files of an unknown format.
var ErrVersion = errors.New("snapshot: unsupported version")

type Header struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Players int       `json:"players"`
	Loot    int       `json:"loot"`
}

// StateV1 is everything needed to resume the world: live players, then the
// loot lying on their maps.
type StateV1 struct {
	Header  Header     `json:"header"`
	Players []PlayerV1 `json:"players"`
	Loot    []LootV1   `json:"loot"`
}

type PlayerV1 struct {
	ID    uint64 `json:"id"`
	Token string `json:"token"`
	MapID string `json:"map_id"`
	Dog   DogV1  `json:"dog"`
}

type DogV1 struct {
	Name        string        `json:"name"`
	Pos         [2]float64    `json:"pos"`
	Speed       [2]float64    `json:"speed"`
	Direction   string        `json:"dir"`
	Bag         []ItemV1      `json:"bag"`
	BagCapacity int           `json:"bag_capacity"`
	Score       int           `json:"score"`
	PlayTime    time.Duration `json:"play_time"`
	IdleTime    time.Duration `json:"idle_time"`
}

type ItemV1 struct {
	ID   uint64     `json:"id"`
	Type int        `json:"type"`
	Pos  [2]float64 `json:"pos"`
}

type LootV1 struct {
	MapID string `json:"map_id"`
	Item  ItemV1 `json:"item"`
}

// Write stores state at path. The data goes to a temporary file in the same
// directory first and is renamed over path, so a crash mid-write leaves the
// previous snapshot intact.
func Write(path string, state StateV1) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: cannot create directory: %w", err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("snapshot: cannot create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // no-op after a successful rename

	state.Header.Version = Version
	state.Header.Players = len(state.Players)
	state.Header.Loot = len(state.Loot)
	if state.Header.SavedAt.IsZero() {
		state.Header.SavedAt = time.Now().UTC()
	}

	if err := encode(f, &state); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: cannot sync: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: cannot close: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("snapshot: cannot rename: %w", err)
	}
	return nil
}

func encode(f *os.File, state *StateV1) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("snapshot: zstd writer: %w", err)
	}
	bw := bufio.NewWriterSize(enc, 64*1024)

	hb, err := json.Marshal(state.Header)
	if err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: header: %w", err)
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if err := gob.NewEncoder(bw).Encode(state); err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("snapshot: zstd close: %w", err)
	}
	return nil
}

// Read loads the state stored at path. A missing file yields an error
// matching os.ErrNotExist.
func Read(path string) (StateV1, error) {
	var state StateV1
	f, err := os.Open(path)
	if err != nil {
		return state, fmt.Errorf("snapshot: cannot open: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return state, fmt.Errorf("snapshot: zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return state, fmt.Errorf("snapshot: read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(line, &header); err != nil {
		return state, fmt.Errorf("snapshot: parse header: %w", err)
	}
	if header.Version != Version {
		return state, fmt.Errorf("%w: %d", ErrVersion, header.Version)
	}

	if err := gob.NewDecoder(br).Decode(&state); err != nil {
		return state, fmt.Errorf("snapshot: gob decode: %w", err)
	}
	return state, nil
}
