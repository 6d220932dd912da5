package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/civitaslabs/planqd/internal/config"
	"github.com/civitaslabs/planqd/internal/vectorstore"
)

var tracer = otel.Tracer("planqd.memory")

// relevanceDistanceCeiling filters semantic recall: cosine distance below
// 0.4 corresponds to similarity above 0.6.
const relevanceDistanceCeiling = 0.4

// ConversationMemory is one stored conversation turn.
type ConversationMemory struct {
	ID                string          `gorm:"type:uuid;primaryKey"`
	UserID            string          `gorm:"size:255;not null;index"`
	SessionID         string          `gorm:"size:255;not null;index"`
	UserQuery         string          `gorm:"type:text;not null"`
	AssistantResponse string          `gorm:"type:text;not null"`
	Embedding         pgvector.Vector `gorm:"type:vector(384)"`
	Timestamp         time.Time       `gorm:"not null;index"`
}

// TableName keeps the table name stable regardless of gorm pluralization.
func (ConversationMemory) TableName() string { return "conversation_memory" }

// Manager stores and recalls conversation turns.
type Manager struct {
	db       *gorm.DB
	embedder vectorstore.Embedder
	logger   *zap.Logger
}

// New connects to Postgres, enables pgvector, and migrates the schema.
func New(cfg config.MemoryConfig, embedder vectorstore.Embedder, logger *zap.Logger) (*Manager, error) {
	if embedder == nil {
		return nil, fmt.Errorf("memory: embedder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password.Value(), cfg.Database, cfg.SSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("enabling pgvector extension: %w", err)
	}
	if err := db.AutoMigrate(&ConversationMemory{}); err != nil {
		return nil, fmt.Errorf("migrating conversation memory schema: %w", err)
	}
	indexSQL := `CREATE INDEX IF NOT EXISTS conversation_memory_embedding_idx
ON conversation_memory USING hnsw (embedding vector_cosine_ops)`
	if err := db.Exec(indexSQL).Error; err != nil {
		// Recall still works without the index, just slower.
		logger.Warn("creating embedding index failed", zap.Error(err))
	}

	logger.Info("conversation memory initialized",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)
	return &Manager{db: db, embedder: embedder, logger: logger}, nil
}

// StartSession mints a session ID for a user.
func StartSession(userID string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d", userID, time.Now().UnixNano())))
	return hex.EncodeToString(sum[:])[:16]
}

// AddTurn records one exchange, embedding the combined text for later
// semantic recall.
func (m *Manager) AddTurn(ctx context.Context, userID, sessionID, userQuery, assistantResponse string) error {
	ctx, span := tracer.Start(ctx, "Manager.AddTurn")
	defer span.End()

	combined := fmt.Sprintf("Q: %s A: %s", userQuery, assistantResponse)
	embedding, err := m.embedder.EmbedQuery(ctx, combined)
	if err != nil {
		return fmt.Errorf("embedding conversation turn: %w", err)
	}

	turn := ConversationMemory{
		ID:                uuid.NewString(),
		UserID:            userID,
		SessionID:         sessionID,
		UserQuery:         userQuery,
		AssistantResponse: assistantResponse,
		Embedding:         pgvector.NewVector(embedding),
		Timestamp:         time.Now(),
	}
	if err := m.db.WithContext(ctx).Create(&turn).Error; err != nil {
		return fmt.Errorf("storing conversation turn: %w", err)
	}
	return nil
}

// SessionContext returns the session transcript in turn order.
func (m *Manager) SessionContext(ctx context.Context, sessionID string) (string, error) {
	var turns []ConversationMemory
	err := m.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp asc").
		Find(&turns).Error
	if err != nil {
		return "", fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	return formatTranscript(turns), nil
}

// scoredMemory carries a row plus its cosine distance to the query.
type scoredMemory struct {
	ConversationMemory
	Distance float64
}

// RelevantHistory finds past exchanges semantically close to the query
// across all of the user's sessions. Returns "" when nothing clears the
// relevance threshold.
func (m *Manager) RelevantHistory(ctx context.Context, userID, query string, limit int) (string, error) {
	ctx, span := tracer.Start(ctx, "Manager.RelevantHistory")
	defer span.End()

	if query == "" {
		return "", nil
	}
	if limit <= 0 {
		limit = 3
	}

	embedding, err := m.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embedding query for recall: %w", err)
	}
	vec := pgvector.NewVector(embedding)

	// Overfetch, then filter by the distance ceiling.
	var rows []scoredMemory
	err = m.db.WithContext(ctx).
		Model(&ConversationMemory{}).
		Select("*, embedding <=> ? AS distance", vec).
		Where("user_id = ?", userID).
		Order(gorm.Expr("embedding <=> ?", vec)).
		Limit(limit * 2).
		Find(&rows).Error
	if err != nil {
		return "", fmt.Errorf("searching conversation memory: %w", err)
	}

	relevant := make([]scoredMemory, 0, limit)
	for _, row := range rows {
		if row.Distance < relevanceDistanceCeiling {
			relevant = append(relevant, row)
		}
		if len(relevant) == limit {
			break
		}
	}
	return formatRelevant(relevant), nil
}

// Count reports the number of stored turns for a user.
func (m *Manager) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := m.db.WithContext(ctx).
		Model(&ConversationMemory{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func formatTranscript(turns []ConversationMemory) string {
	if len(turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(turns)*2)
	for _, t := range turns {
		lines = append(lines, "User: "+t.UserQuery, "Assistant: "+t.AssistantResponse)
	}
	return strings.Join(lines, "\n")
}

func formatRelevant(rows []scoredMemory) string {
	if len(rows) == 0 {
		return ""
	}
	parts := []string{"Relevant past conversations:"}
	for _, row := range rows {
		parts = append(parts, fmt.Sprintf("- Past Q: '%s' (Response: '%s...')",
			row.UserQuery, truncate(row.AssistantResponse, 80)))
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
