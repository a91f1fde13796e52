package vectorindex

import (
	"strconv"

	"github.com/google/uuid"
	getsafe "github.com/w-h-a/docchat/util/get_safe"
)

const (
	PayloadDocumentId = "document_id"
	PayloadChunkIndex = "chunk_index"
	PayloadText       = "text"
	PayloadFilename   = "filename"
)

// points live in a fixed namespace so ids are stable across processes
var pointNamespace = uuid.MustParse("8f0c1d2e-5b6a-4c3d-9e8f-7a6b5c4d3e2f")

type Point struct {
	Id      string
	Vector  []float32
	Payload map[string]any
}

type Match struct {
	Id      string
	Score   float32
	Payload map[string]any
}

func (m Match) Text() string {
	return getsafe.String(m.Payload, PayloadText)
}

func (m Match) DocumentId() string {
	return getsafe.String(m.Payload, PayloadDocumentId)
}

func (m Match) ChunkIndex() int {
	return getsafe.Int(m.Payload, PayloadChunkIndex)
}

// PointId derives the id of a chunk from its document and position.
func PointId(documentId string, chunkIndex int) string {
	return uuid.NewSHA1(pointNamespace, []byte(documentId+":"+strconv.Itoa(chunkIndex))).String()
}

func NewPoint(documentId string, chunkIndex int, text string, vector []float32) Point {
	return Point{
		Id:     PointId(documentId, chunkIndex),
		Vector: vector,
		Payload: map[string]any{
			PayloadDocumentId: documentId,
			PayloadChunkIndex: chunkIndex,
			PayloadText:       text,
		},
	}
}
