package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/vec"
	"github.com/annel0/voxel-content/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (rs *RestServer) requireWorld() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rs.world == nil {
			fail(c, http.StatusServiceUnavailable, "world is not loaded")
			return
		}
		c.Next()
	}
}

func (rs *RestServer) handleWorldStats(c *gin.Context) {
	stats := rs.world.Stats()
	ok(c, gin.H{
		"name":       rs.world.Name(),
		"players":    stats.Players,
		"entities":   stats.Entities,
		"blocks":     stats.Blocks,
		"biomes":     stats.Biomes,
		"structures": stats.Structures,
		"pending":    stats.Pending,
		"dirty":      stats.Dirty,
		"by_type":    rs.world.BlockCounts(),
	})
}

func parsePos(c *gin.Context) (vec.Vec3, error) {
	var v [3]int64
	for i, name := range []string{"x", "y", "z"} {
		n, err := strconv.ParseInt(c.Param(name), 10, 64)
		if err != nil {
			return vec.Vec3{}, fmt.Errorf("%s: %w", name, err)
		}
		v[i] = n
	}
	return vec.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// BlockView — блок мира
type BlockView struct {
	ID    content.ID `json:"id"`
	Light uint8      `json:"light"`
	Data  string     `json:"data"`
}

func (rs *RestServer) handleGetBlock(c *gin.Context) {
	pos, err := parsePos(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	id, light, found := rs.world.BlockAt(pos)
	if !found {
		fail(c, http.StatusNotFound, fmt.Sprintf("no block at %v", pos))
		return
	}
	data, _ := rs.world.BlockData(pos)
	ok(c, BlockView{ID: id, Light: light, Data: hex.EncodeToString(data)})
}

// EventRequest описывает событие мира в JSON.
// Type: place_block, break_block, spawn_entity, move_entity, despawn_entity, give_item.
type EventRequest struct {
	Type     string     `json:"type" binding:"required"`
	ID       string     `json:"id"`
	Hex      string     `json:"hex"`
	Position [3]int64   `json:"position"`
	Light    uint8      `json:"light"`
	Entity   string     `json:"entity"`
	Exact    [3]float64 `json:"exact"` // позиция сущности в блоках
	Player   string     `json:"player"`
}

func (req EventRequest) toEvent() (world.Event, error) {
	data, err := hex.DecodeString(req.Hex)
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	pos := vec.Vec3{X: req.Position[0], Y: req.Position[1], Z: req.Position[2]}
	exact := vec.Vec3Fixed{
		X: vec.FixedFromFloat(req.Exact[0]),
		Y: vec.FixedFromFloat(req.Exact[1]),
		Z: vec.FixedFromFloat(req.Exact[2]),
	}

	switch req.Type {
	case "place_block":
		return world.BlockEvent{EventType: world.EventTypePlaceBlock, Position: pos, ID: content.ID(req.ID), Data: data, Light: req.Light}, nil
	case "break_block":
		return world.BlockEvent{EventType: world.EventTypeBreakBlock, Position: pos}, nil
	case "spawn_entity", "move_entity", "despawn_entity":
		uid, err := uuid.Parse(req.Entity)
		if err != nil {
			return nil, fmt.Errorf("entity: %w", err)
		}
		t := map[string]world.EventType{
			"spawn_entity":   world.EventTypeSpawnEntity,
			"move_entity":    world.EventTypeMoveEntity,
			"despawn_entity": world.EventTypeDespawnEntity,
		}[req.Type]
		return world.EntityEvent{EventType: t, EntityID: uid, Position: exact, ID: content.ID(req.ID), Data: data}, nil
	case "give_item":
		uid, err := uuid.Parse(req.Player)
		if err != nil {
			return nil, fmt.Errorf("player: %w", err)
		}
		return world.ItemEvent{PlayerID: uid, ID: content.ID(req.ID), Data: data}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", req.Type)
}

func (rs *RestServer) handlePostEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ev, err := req.toEvent()
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := rs.world.Enqueue(ev); err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: "queued"})
}

func (rs *RestServer) handleStep(c *gin.Context) {
	report := rs.world.Step(c.Request.Context())
	rejected := make([]string, len(report.Rejected))
	for i, r := range report.Rejected {
		rejected[i] = fmt.Sprintf("%s: %v", r.Event.GetType(), r.Err)
	}
	ok(c, gin.H{"applied": report.Applied, "rejected": rejected})
}

func (rs *RestServer) handleSave(c *gin.Context) {
	n, err := rs.world.Save(c.Request.Context())
	if errors.Is(err, world.ErrClosed) {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, gin.H{"saved": n})
}
