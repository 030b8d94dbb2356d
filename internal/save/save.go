// Package save implements the canonical binary codec for world saves:
// a fixed little-endian layout of header, row-major cells, and agents.
// Plan history is session-scoped and never persisted.
package save

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"outpost/internal/agent"
	"outpost/internal/grid"
	"outpost/internal/nav"
)

// Magic spells "OTPS" and guards against loading a file that was never a
// save. Version gates layout changes; a mismatch aborts the load and the
// caller keeps its current state.
const (
	Magic   uint32 = 0x4F545053
	Version uint32 = 1
)

// ErrCorrupt reports a magic or version mismatch on load.
var ErrCorrupt = errors.New("save: corrupt or incompatible file")

type binWriter struct {
	w   io.Writer
	err error
}

func (b *binWriter) write(v interface{}) {
	if b.err == nil {
		b.err = binary.Write(b.w, binary.LittleEndian, v)
	}
}

type binReader struct {
	r   io.Reader
	err error
}

func (b *binReader) read(v interface{}) {
	if b.err == nil {
		b.err = binary.Read(b.r, binary.LittleEndian, v)
	}
}

// Write serializes the world and colonists to w in the canonical layout:
// magic u32, version u32, width u32, height u32, seed u64, wood i32,
// food f32; per cell built u8, planned u8, priority u8, work f32,
// reserved i32; agent count u32; per agent id u32, pos f32 pair, state
// u8, target i32 pair (-1,-1 when the colonist has no target).
func Write(w io.Writer, world *grid.World, seed uint64, colonists *agent.Arena) error {
	bw := &binWriter{w: w}
	bw.write(Magic)
	bw.write(Version)
	bw.write(uint32(world.Width()))
	bw.write(uint32(world.Height()))
	bw.write(seed)
	bw.write(world.Inventory.Wood)
	bw.write(float32(world.Inventory.Food))

	world.ForEachCell(func(x, y int, c *grid.Cell) {
		bw.write(uint8(c.Built))
		bw.write(uint8(c.Planned))
		bw.write(c.PlanPriority)
		bw.write(float32(c.WorkRemaining))
		bw.write(int32(c.ReservedBy))
	})

	bw.write(uint32(colonists.Len()))
	colonists.ForEach(func(c *agent.Colonist) {
		bw.write(uint32(c.ID))
		bw.write(float32(c.X))
		bw.write(float32(c.Y))
		bw.write(uint8(c.State))
		tx, ty := int32(-1), int32(-1)
		if c.Target != nil {
			tx, ty = int32(c.Target.X), int32(c.Target.Y)
		}
		bw.write(tx)
		bw.write(ty)
	})

	if bw.err != nil {
		return fmt.Errorf("save: write: %w", bw.err)
	}
	return nil
}

// Read deserializes a save produced by Write, returning the restored
// world, its seed, and the colonist arena. economics may be nil to use
// the built-in tile table. On any mismatch or truncation the returned
// error wraps ErrCorrupt and nothing is returned; the caller keeps its
// current state.
func Read(r io.Reader, economics *grid.Economics) (*grid.World, uint64, *agent.Arena, error) {
	br := &binReader{r: r}

	var magic, version uint32
	br.read(&magic)
	br.read(&version)
	if br.err != nil {
		return nil, 0, nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if magic != Magic {
		return nil, 0, nil, fmt.Errorf("%w: bad magic %#x", ErrCorrupt, magic)
	}
	if version != Version {
		return nil, 0, nil, fmt.Errorf("%w: version %d, want %d", ErrCorrupt, version, Version)
	}

	var width, height uint32
	var seed uint64
	var wood int32
	var food float32
	br.read(&width)
	br.read(&height)
	br.read(&seed)
	br.read(&wood)
	br.read(&food)
	if br.err != nil {
		return nil, 0, nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if width == 0 || height == 0 || width > 1<<14 || height > 1<<14 {
		return nil, 0, nil, fmt.Errorf("%w: implausible dimensions %dx%d", ErrCorrupt, width, height)
	}

	world := grid.NewWorld(int(width), int(height), economics)
	world.Inventory.Wood = wood
	world.Inventory.Food = float64(food)

	var readErr error
	world.ForEachCell(func(x, y int, c *grid.Cell) {
		var built, planned, priority uint8
		var work float32
		var reserved int32
		br.read(&built)
		br.read(&planned)
		br.read(&priority)
		br.read(&work)
		br.read(&reserved)
		c.Built = grid.TileType(built)
		c.Planned = grid.TileType(planned)
		c.PlanPriority = priority
		c.WorkRemaining = float64(work)
		c.ReservedBy = grid.AgentID(reserved)
	})
	if br.err != nil {
		readErr = fmt.Errorf("%w: truncated cell data", ErrCorrupt)
	}
	if readErr != nil {
		return nil, 0, nil, readErr
	}

	var agentCount uint32
	br.read(&agentCount)
	if br.err != nil || agentCount > uint32(width)*uint32(height) {
		return nil, 0, nil, fmt.Errorf("%w: bad agent count", ErrCorrupt)
	}

	colonists := agent.NewArena()
	for i := uint32(0); i < agentCount; i++ {
		var id uint32
		var px, py float32
		var state uint8
		var tx, ty int32
		br.read(&id)
		br.read(&px)
		br.read(&py)
		br.read(&state)
		br.read(&tx)
		br.read(&ty)
		if br.err != nil {
			return nil, 0, nil, fmt.Errorf("%w: truncated agent data", ErrCorrupt)
		}
		c := agent.Colonist{
			ID:    grid.AgentID(int32(id)),
			X:     float64(px),
			Y:     float64(py),
			State: agent.State(state),
		}
		if tx >= 0 && ty >= 0 {
			c.Target = &nav.Coord{X: int(tx), Y: int(ty)}
		}
		// Paths are not persisted; a loaded walking colonist comes back
		// idle with its target intact and re-paths on its first step.
		if c.State == agent.StateWalking {
			c.State = agent.StateIdle
		}
		colonists.Restore(c)
	}

	return world, seed, colonists, nil
}
