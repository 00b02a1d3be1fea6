package nats

import (
	"fmt"

	"rfid-wallet-backend/config"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Connect establishes the NATS connection to the hardware broker.
func Connect(cfg config.TransportConfig, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ClientID),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	log.Info().
		Str("url", cfg.URL).
		Str("client_id", cfg.ClientID).
		Msg("NATS connection established")

	return nc, nil
}

// Topics holds the team-namespaced subject names the card readers use.
type Topics struct {
	CardStatus  string
	CardBalance string
	CardTopup   string
}

// TopicsFor builds the subject names for one team's reader fleet.
func TopicsFor(teamID string) Topics {
	return Topics{
		CardStatus:  fmt.Sprintf("rfid.%s.card.status", teamID),
		CardBalance: fmt.Sprintf("rfid.%s.card.balance", teamID),
		CardTopup:   fmt.Sprintf("rfid.%s.card.topup", teamID),
	}
}
