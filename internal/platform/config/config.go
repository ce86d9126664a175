package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	// Platform principal that owns access control and receives minted supply.
	PlatformOwner string

	// Governance parameters, basis points unless noted.
	VotingPeriodBlocks    uint64
	QuorumBps             uint64
	ProposalThresholdBps  uint64
	MarketplaceFeeBps     uint64
	ManagementFeeBps      uint64
	PlatformFeeBps        uint64
	MaintenanceReserveBps uint64

	EnableOrderExpirer   bool
	EnableEscrowExpirer  bool
	EnableProposalCloser bool
	EnableOutboxRelay    bool
}

func Load() (Config, error) {
	// Best effort: local .env overrides nothing that is already exported.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "propshare"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	owner := strings.TrimSpace(os.Getenv("PLATFORM_OWNER"))
	if owner == "" {
		owner = "platform-treasury"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		PlatformOwner: owner,

		VotingPeriodBlocks:    envUint("VOTING_PERIOD_BLOCKS", 1008),
		QuorumBps:             envUint("QUORUM_BPS", 2000),
		ProposalThresholdBps:  envUint("PROPOSAL_THRESHOLD_BPS", 100),
		MarketplaceFeeBps:     envUint("MARKETPLACE_FEE_BPS", 250),
		ManagementFeeBps:      envUint("MANAGEMENT_FEE_BPS", 800),
		PlatformFeeBps:        envUint("PLATFORM_FEE_BPS", 200),
		MaintenanceReserveBps: envUint("MAINTENANCE_RESERVE_BPS", 500),

		EnableOrderExpirer:   envBool("ENABLE_ORDER_EXPIRER", true),
		EnableEscrowExpirer:  envBool("ENABLE_ESCROW_EXPIRER", true),
		EnableProposalCloser: envBool("ENABLE_PROPOSAL_CLOSER", true),
		EnableOutboxRelay:    envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envUint(name string, fallback uint64) uint64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
