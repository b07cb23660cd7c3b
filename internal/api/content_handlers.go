package api

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/gin-gonic/gin"
)

// DescriptorView — JSON-представление дескриптора
type DescriptorView struct {
	ID    string   `json:"id"`
	Tags  []string `json:"tags"`
	Roles []string `json:"roles"`
}

func viewDescriptor(d *content.Descriptor) DescriptorView {
	v := DescriptorView{ID: string(d.ID()), Tags: []string{}, Roles: []string{}}
	for _, t := range d.Tags() {
		v.Tags = append(v.Tags, t.String())
	}
	for _, r := range d.Roles() {
		v.Roles = append(v.Roles, r.String())
	}
	return v
}

func (rs *RestServer) handleTags(c *gin.Context) {
	out := make(map[string][]content.ID)
	for _, tag := range content.AllTags() {
		out[tag.String()] = rs.registry.FilterByTag(tag)
	}
	ok(c, out)
}

func (rs *RestServer) handleTag(c *gin.Context) {
	tag, found := content.ParseTag(c.Param("tag"))
	if !found {
		fail(c, http.StatusNotFound, fmt.Sprintf("unknown tag %q", c.Param("tag")))
		return
	}
	ok(c, rs.registry.FilterByTag(tag))
}

func (rs *RestServer) handleContentList(c *gin.Context) {
	descriptors := rs.registry.Descriptors()
	out := make([]DescriptorView, len(descriptors))
	for i, d := range descriptors {
		out[i] = viewDescriptor(d)
	}
	ok(c, out)
}

func (rs *RestServer) handleContent(c *gin.Context) {
	d, found := rs.registry.Lookup(content.ID(c.Param("id")))
	if !found {
		fail(c, http.StatusNotFound, fmt.Sprintf("content id %q not found", c.Param("id")))
		return
	}
	ok(c, viewDescriptor(d))
}

// RoundTripRequest — данные в hex; пусто — пустой вход
type RoundTripRequest struct {
	Hex string `json:"hex"`
}

// RoundTripResponse — результат цикла десериализация/сериализация
type RoundTripResponse struct {
	In    string `json:"in"`
	Out   string `json:"out"`
	Value string `json:"value"`
}

func (rs *RestServer) handleRoundTrip(c *gin.Context) {
	var req RoundTripRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	role, found := content.ParseRole(c.Param("role"))
	if !found {
		fail(c, http.StatusBadRequest, fmt.Sprintf("unknown role %q", c.Param("role")))
		return
	}
	src, err := hex.DecodeString(req.Hex)
	if err != nil {
		fail(c, http.StatusBadRequest, "hex: "+err.Error())
		return
	}

	id := content.ID(c.Param("id"))
	var out []byte
	var desc string
	switch role {
	case content.RoleBlock:
		v, found := rs.registry.DeserializeBlock(src, id)
		if found {
			out, desc = v.Serialize(), v.String()
			v.Close()
		}
	case content.RoleEntity:
		v, found := rs.registry.DeserializeEntity(src, id)
		if found {
			out, desc = v.Serialize(), v.String()
			v.Close()
		}
	case content.RoleItem:
		v, found := rs.registry.DeserializeItem(src, id)
		if found {
			out, desc = v.Serialize(), v.String()
			v.Close()
		}
	}
	if desc == "" {
		fail(c, http.StatusNotFound, fmt.Sprintf("%q can not be deserialized as %s", id, role))
		return
	}

	ok(c, RoundTripResponse{In: hex.EncodeToString(src), Out: hex.EncodeToString(out), Value: desc})
}
