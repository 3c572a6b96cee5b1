package mapper

import (
	"encoding/json"

	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToModel(e *entity.DocumentChunk) *model.DocumentChunk {
	var meta datatypes.JSON
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}
	return &model.DocumentChunk{
		Id:             e.Id,
		FileName:       e.FileName,
		ChunkIndex:     e.ChunkIndex,
		Content:        e.Content,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		Metadata:       meta,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToEntity(mo *model.DocumentChunk) *entity.DocumentChunk {
	var meta map[string]interface{}
	if len(mo.Metadata) > 0 {
		_ = json.Unmarshal(mo.Metadata, &meta)
	}
	return &entity.DocumentChunk{
		Id:         mo.Id,
		FileName:   mo.FileName,
		ChunkIndex: mo.ChunkIndex,
		Content:    mo.Content,
		Embedding:  mo.EmbeddingValue.Slice(),
		Metadata:   meta,
		CreatedAt:  mo.CreatedAt,
	}
}
