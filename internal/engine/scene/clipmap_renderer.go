// Package scene owns the GPU resources the landscape is drawn from.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/logger"
	"github.com/Faultbox/landsculpt/internal/render"
)

// ringBuffer is one ring's height cache on the GPU: a buffer object viewed
// through a buffer texture.
type ringBuffer struct {
	tbo      uint32
	tex      uint32
	revision uint64
	uploaded bool
}

// ClipmapRenderer holds the shared grid, the eight index buffers and one
// height buffer per ring. It implements render.Drawer.
type ClipmapRenderer struct {
	vao uint32
	vbo uint32

	ebos   [clipmap.SetCount]uint32
	counts [clipmap.SetCount]int32

	rings      []ringBuffer
	cacheSize  int
	generation uint64

	uploads int // ring uploads since the last Stats call
}

// Source is what the renderer mirrors to the GPU.
type Source interface {
	Generation() uint64
	Topology() *clipmap.Topology
	Rings() []*clipmap.Ring
}

// NewClipmapRenderer creates an empty renderer; call Sync before drawing.
func NewClipmapRenderer() *ClipmapRenderer {
	return &ClipmapRenderer{}
}

// Sync rebuilds GPU resources when the landscape was replaced and uploads
// every ring whose cache changed since the last frame.
func (r *ClipmapRenderer) Sync(src Source) error {
	if r.vao == 0 || src.Generation() != r.generation {
		if err := r.rebuild(src.Topology(), src.Rings()); err != nil {
			return err
		}
		r.generation = src.Generation()
	}

	for i, ring := range src.Rings() {
		rb := &r.rings[i]
		if rb.uploaded && rb.revision == ring.Revision() {
			continue
		}
		heights := ring.Heights()
		gl.BindBuffer(gl.TEXTURE_BUFFER, rb.tbo)
		gl.BufferSubData(gl.TEXTURE_BUFFER, 0, len(heights)*4, unsafe.Pointer(&heights[0]))
		rb.revision = ring.Revision()
		rb.uploaded = true
		r.uploads++
	}
	gl.BindBuffer(gl.TEXTURE_BUFFER, 0)
	return nil
}

// Uploads returns and clears the number of ring uploads done by Sync.
func (r *ClipmapRenderer) Uploads() int {
	n := r.uploads
	r.uploads = 0
	return n
}

func (r *ClipmapRenderer) rebuild(topo *clipmap.Topology, rings []*clipmap.Ring) error {
	if len(rings) == 0 {
		return fmt.Errorf("clipmap renderer: no rings")
	}
	r.release()

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(topo.Vertices)*4, unsafe.Pointer(&topo.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(int32(clipmap.SetCount), &r.ebos[0])
	for id := clipmap.SetID(0); id < clipmap.SetCount; id++ {
		indices := topo.Set(id)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebos[id])
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
		r.counts[id] = int32(len(indices))
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.cacheSize = rings[0].Size()
	r.rings = make([]ringBuffer, len(rings))
	bytes := r.cacheSize * r.cacheSize * 4
	for i := range r.rings {
		rb := &r.rings[i]
		gl.GenBuffers(1, &rb.tbo)
		gl.BindBuffer(gl.TEXTURE_BUFFER, rb.tbo)
		gl.BufferData(gl.TEXTURE_BUFFER, bytes, nil, gl.DYNAMIC_DRAW)

		gl.GenTextures(1, &rb.tex)
		gl.BindTexture(gl.TEXTURE_BUFFER, rb.tex)
		gl.TexBuffer(gl.TEXTURE_BUFFER, gl.R32F, rb.tbo)
	}
	gl.BindTexture(gl.TEXTURE_BUFFER, 0)
	gl.BindBuffer(gl.TEXTURE_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("clipmap renderer: GL error 0x%x while building buffers", code)
	}

	logger.Info("clipmap buffers built",
		zap.Int("vertices", topo.VertexCount()),
		zap.Int32("centerIndices", r.counts[clipmap.SetCenter1]),
		zap.Int32("ringIndices", r.counts[clipmap.SetRing1]),
		zap.Int("rings", len(rings)),
		zap.Int("cacheSize", r.cacheSize),
	)
	return nil
}

// DrawRing draws one ring with the given index set. The ring's height buffer
// is bound to render.HeightCacheUnit.
func (r *ClipmapRenderer) DrawRing(level int, set clipmap.SetID, _ *clipmap.Ring) {
	if r.vao == 0 || level >= len(r.rings) {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + render.HeightCacheUnit)
	gl.BindTexture(gl.TEXTURE_BUFFER, r.rings[level].tex)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebos[set])
	gl.DrawElements(gl.TRIANGLE_STRIP, r.counts[set], gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (r *ClipmapRenderer) release() {
	for i := range r.rings {
		gl.DeleteTextures(1, &r.rings[i].tex)
		gl.DeleteBuffers(1, &r.rings[i].tbo)
	}
	r.rings = nil

	if r.ebos[0] != 0 {
		gl.DeleteBuffers(int32(clipmap.SetCount), &r.ebos[0])
		r.ebos = [clipmap.SetCount]uint32{}
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}

// Destroy releases all GPU resources.
func (r *ClipmapRenderer) Destroy() {
	r.release()
}
