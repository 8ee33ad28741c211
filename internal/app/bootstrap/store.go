package bootstrap

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/wolfman30/leadflow/internal/config"
	"github.com/wolfman30/leadflow/internal/leads"
)

// BuildLeadRepository picks the submission store named by LEAD_STORE.
func BuildLeadRepository(cfg *appconfig.Config, pool *pgxpool.Pool, awsCfg *aws.Config) (leads.Repository, error) {
	switch cfg.LeadStore {
	case appconfig.LeadStoreMemory, "":
		return leads.NewInMemoryRepository(), nil
	case appconfig.LeadStorePostgres:
		if pool == nil {
			return nil, errors.New("bootstrap: postgres pool required for LEAD_STORE=postgres")
		}
		return leads.NewPostgresRepository(pool), nil
	case appconfig.LeadStoreDynamoDB:
		if awsCfg == nil {
			return nil, errAWSConfigRequired
		}
		return leads.NewDynamoRepository(dynamodb.NewFromConfig(*awsCfg), cfg.LeadsTable), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown LEAD_STORE %q", cfg.LeadStore)
	}
}
