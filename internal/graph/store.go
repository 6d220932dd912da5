package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/civitaslabs/planqd/internal/config"
)

var tracer = otel.Tracer("planqd.graph")

// runner executes one cypher query and returns its rows. Abstracted from the
// driver so search logic can be tested without a Neo4j instance.
type runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}

// driverRunner runs queries through the Neo4j driver.
type driverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (r *driverRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, r.driver, cypher, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.database))
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, len(result.Records))
	for i, record := range result.Records {
		rows[i] = record.AsMap()
	}
	return rows, nil
}

// Store is the Neo4j-backed knowledge graph.
type Store struct {
	runner runner
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewStore connects to Neo4j and verifies connectivity.
func NewStore(ctx context.Context, cfg config.GraphConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password.Value(), ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	logger.Info("neo4j store initialized",
		zap.String("uri", cfg.URI),
		zap.String("database", cfg.Database),
	)
	return &Store{
		runner: &driverRunner{driver: driver, database: cfg.Database},
		driver: driver,
		logger: logger,
	}, nil
}

// Close releases the driver's connection pool.
func (s *Store) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

// Count reports the total node count, used for health checks and to decide
// whether ingestion is needed.
func (s *Store) Count(ctx context.Context) (int, error) {
	rows, err := s.runner.Run(ctx, "MATCH (n) RETURN count(n) as count", nil)
	if err != nil {
		return 0, fmt.Errorf("counting graph nodes: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	count, _ := rows[0]["count"].(int64)
	return int(count), nil
}
