// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// ArtifactKind 工件分类，同时作为存储分区名
type ArtifactKind string

const (
	ArtifactKindResearch ArtifactKind = "marketing_research"
	ArtifactKindPlan     ArtifactKind = "marketing_plan"
	ArtifactKindContent  ArtifactKind = "marketing_content"
)

// ParseArtifactKind 解析工件分类，接受完整分区名或短名
func ParseArtifactKind(s string) (ArtifactKind, error) {
	switch s {
	case string(ArtifactKindResearch), "research":
		return ArtifactKindResearch, nil
	case string(ArtifactKindPlan), "plan":
		return ArtifactKindPlan, nil
	case string(ArtifactKindContent), "content":
		return ArtifactKindContent, nil
	default:
		return "", fmt.Errorf("invalid artifact kind: %s", s)
	}
}

// MarketingArtifact 单个工作流步骤产出的持久化记录
//
// (kind, user_id) 分区内按 created_at 追加，只增不改。
type MarketingArtifact struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string          `json:"user_id" gorm:"type:varchar(128);index;not null"`
	Kind      ArtifactKind    `json:"kind" gorm:"type:varchar(32);index;not null"`
	Payload   json.RawMessage `json:"payload" gorm:"type:jsonb;not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (MarketingArtifact) TableName() string {
	return "marketing_artifacts"
}
