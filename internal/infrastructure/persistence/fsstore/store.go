// Package fsstore 提供基于本地 JSON 文件的工件回退存储
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fastcrew-api/internal/domain/entity"
)

var tracer = otel.Tracer("fsstore")

// historyDocument 单个分区文件的磁盘格式
type historyDocument struct {
	History []map[string]any `json:"history"`
}

// Store 本地回退存储
//
// 每个 (kind, user_id) 分区对应一个文件 <dataDir>/<kind>/<user_id>.json，
// 内容为 {"history": [...]}，新记录追加到末尾。
//
// Save 为读-改-写：同一分区的并发写入者可能互相覆盖，
// 当前部署按单用户单写入者假设运行，不加锁。
type Store struct {
	dataDir string
}

// NewStore 创建本地回退存储
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Save 追加 payload（合并 user_id）到分区历史文件
func (s *Store) Save(ctx context.Context, kind entity.ArtifactKind, userID string, payload map[string]any) error {
	_, span := tracer.Start(ctx, "fsstore.Save",
		trace.WithAttributes(attribute.String("artifact.kind", string(kind))))
	defer span.End()

	path := s.partitionPath(kind, userID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create partition dir: %w", err)
	}

	doc := s.readDocument(path)

	merged := make(map[string]any, len(payload)+1)
	merged["user_id"] = userID
	for k, v := range payload {
		merged[k] = v
	}
	doc.History = append(doc.History, merged)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// GetLatest 返回分区最后一条记录
//
// 分区不存在、读取失败或内容损坏都视为"无记录"，返回 (nil, nil)。
func (s *Store) GetLatest(ctx context.Context, kind entity.ArtifactKind, userID string) (map[string]any, error) {
	_, span := tracer.Start(ctx, "fsstore.GetLatest",
		trace.WithAttributes(attribute.String("artifact.kind", string(kind))))
	defer span.End()

	doc := s.readDocument(s.partitionPath(kind, userID))
	if len(doc.History) == 0 {
		return nil, nil
	}
	return doc.History[len(doc.History)-1], nil
}

// History 返回分区内全部记录，分区不存在时返回空切片
func (s *Store) History(ctx context.Context, kind entity.ArtifactKind, userID string) ([]map[string]any, error) {
	_, span := tracer.Start(ctx, "fsstore.History",
		trace.WithAttributes(attribute.String("artifact.kind", string(kind))))
	defer span.End()

	doc := s.readDocument(s.partitionPath(kind, userID))
	return doc.History, nil
}

// partitionPath 计算分区文件路径
func (s *Store) partitionPath(kind entity.ArtifactKind, userID string) string {
	return filepath.Join(s.dataDir, string(kind), userID+".json")
}

// readDocument 读取分区文件，任何错误都降级为空历史
func (s *Store) readDocument(path string) historyDocument {
	var doc historyDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return historyDocument{}
	}
	return doc
}
