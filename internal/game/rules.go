// Package game implements the deterministic simulation rules shared by the
// server's rule-driving engine and the client's event-driving state
// reconstruction, grounded on the original Game/GameServer/GameClient
// base-and-derived split: here expressed as one shared pure-function rule
// set (explosion propagation) consumed by two otherwise independent types.
package game

import (
	"sort"

	"github.com/olafplacha/bomberarena/internal/proto"
)

// Rules is the immutable subset of a round's config the simulation
// primitives need: board dimensions and the bomb blast parameters.
type Rules struct {
	SizeX, SizeY    uint16
	ExplosionRadius uint16
	BombTimer       uint16
}

// explodeOneDirection traces one cardinal arm from pos out to
// r.ExplosionRadius cells, stopping at the board edge or immediately after
// a blocked cell (the blocked cell itself is included).
func explodeOneDirection(r Rules, blocks map[proto.Position]struct{}, pos proto.Position, dx, dy int, explosions map[proto.Position]struct{}) {
	x, y := int(pos.X), int(pos.Y)
	for radius := 0; x >= 0 && x < int(r.SizeX) && y >= 0 && y < int(r.SizeY) && radius <= int(r.ExplosionRadius); radius++ {
		p := proto.Position{X: uint16(x), Y: uint16(y)}
		explosions[p] = struct{}{}
		if _, blocked := blocks[p]; blocked {
			return
		}
		x += dx
		y += dy
	}
}

// findExplosions computes the full set of cells a bomb at pos detonates,
// tracing all four cardinal arms.
func findExplosions(r Rules, blocks map[proto.Position]struct{}, pos proto.Position) map[proto.Position]struct{} {
	explosions := make(map[proto.Position]struct{})
	explodeOneDirection(r, blocks, pos, 0, 1, explosions)
	explodeOneDirection(r, blocks, pos, 1, 0, explosions)
	explodeOneDirection(r, blocks, pos, 0, -1, explosions)
	explodeOneDirection(r, blocks, pos, -1, 0, explosions)
	return explosions
}

// directionDelta maps a move direction to its (dx, dy) step. Both dialects
// reject out-of-range directions at decode time; any value other than Up,
// Right or Down takes the default branch, the Left step.
func directionDelta(d proto.Direction) (dx, dy int) {
	switch d {
	case proto.Up:
		return 0, 1
	case proto.Right:
		return 1, 0
	case proto.Down:
		return 0, -1
	default:
		return -1, 0
	}
}

func sortedPositions(set map[proto.Position]struct{}) []proto.Position {
	out := make([]proto.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

