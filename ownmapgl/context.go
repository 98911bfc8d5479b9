package ownmapgl

// Context is the GPU device as seen by the renderer. Implementations are not safe for
// concurrent use: a frame is drawn by a single goroutine.
type Context interface {
	SetActiveTexture(unit int)
	CreateVertexBuffer(array VertexArray, dynamic bool) VertexBuffer
	CreateIndexBuffer(array IndexArray) IndexBuffer
}
