// Package app wires the resolved configuration into the session store and
// the bitcoind RPC client, and implements the session bookkeeping behind
// the send, receive, and resume subcommands.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/payjoinlabs/payjoin-cli/internal/bitcoind"
	"github.com/payjoinlabs/payjoin-cli/internal/config"
	"github.com/payjoinlabs/payjoin-cli/internal/logger"
	"github.com/payjoinlabs/payjoin-cli/internal/store"
)

// App holds the collaborators a subcommand needs after configuration has
// resolved.
type App struct {
	cfg      *config.Config
	sessions *store.SessionStore
	rpc      *bitcoind.Client
	log      *logger.Logger
}

// New opens the session database and constructs the RPC client from the
// resolved configuration. No RPC call is made until a subcommand runs.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	sessions, err := store.NewSessionStore(ctx, cfg.DBPath, log)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	rpc, err := bitcoind.NewClient(
		cfg.Bitcoind.RPCHost,
		cfg.Bitcoind.RPCUser,
		cfg.Bitcoind.RPCPassword,
		cfg.Bitcoind.Cookie,
		log,
	)
	if err != nil {
		sessions.Close()
		return nil, fmt.Errorf("create bitcoind client: %w", err)
	}

	return &App{cfg: cfg, sessions: sessions, rpc: rpc, log: log}, nil
}

func (a *App) Close() error {
	return a.sessions.Close()
}

type sendPayload struct {
	URI      string `json:"uri"`
	Address  string `json:"address"`
	Amount   string `json:"amount,omitempty"`
	Endpoint string `json:"endpoint"`
}

// Send checks node connectivity, validates the BIP21 URI, and records a
// pending sender session for it.
func (a *App) Send(ctx context.Context, uri string) error {
	info, err := a.rpc.GetBlockchainInfo(ctx)
	if err != nil {
		return fmt.Errorf("bitcoind is unreachable: %w", err)
	}
	a.log.Debug().Str("chain", info.Chain).Int64("blocks", info.Blocks).Msg("connected to bitcoind")

	parsed, err := parseBIP21(uri)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(sendPayload{
		URI:      uri,
		Address:  parsed.Address,
		Amount:   parsed.Amount,
		Endpoint: parsed.PJEndpoint,
	})
	if err != nil {
		return fmt.Errorf("encode send session: %w", err)
	}

	session, err := a.sessions.Insert(ctx, store.KindSend, string(payload))
	if err != nil {
		return err
	}

	a.log.Info().Str("session_id", session.ID).Str("endpoint", parsed.PJEndpoint).Msg("sender session created")
	return nil
}

type receivePayload struct {
	Address    string `json:"address"`
	AmountSat  uint64 `json:"amount_sat"`
	Endpoint   string `json:"endpoint"`
	MaxFeeRate string `json:"max_fee_rate,omitempty"`
}

// Receive asks the node wallet for a fresh address and records a pending
// receiver session advertising the configured variant endpoint.
func (a *App) Receive(ctx context.Context, amountSat uint64) error {
	address, err := a.rpc.GetNewAddress(ctx)
	if err != nil {
		return fmt.Errorf("get receive address: %w", err)
	}

	payload := receivePayload{
		Address:   address,
		AmountSat: amountSat,
		Endpoint:  receiverEndpoint(a.cfg),
	}
	if a.cfg.MaxFeeRate != nil {
		payload.MaxFeeRate = a.cfg.MaxFeeRate.String()
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode receive session: %w", err)
	}

	session, err := a.sessions.Insert(ctx, store.KindReceive, string(encoded))
	if err != nil {
		return err
	}

	fmt.Println(bip21URI(address, amountSat, payload.Endpoint))
	a.log.Info().Str("session_id", session.ID).Str("address", address).Msg("receiver session created")
	return nil
}

// Resume reports the sessions that have not completed yet.
func (a *App) Resume(ctx context.Context) error {
	pending, err := a.sessions.Pending(ctx)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		a.log.Info().Msg("no pending sessions")
		return nil
	}

	for _, session := range pending {
		a.log.Info().
			Str("session_id", session.ID).
			Str("kind", session.Kind).
			Time("created_at", session.CreatedAt).
			Msg("pending session")
	}
	return nil
}

// bip21URI renders the URI a receiver shares with the sender. The amount
// parameter is denominated in BTC per BIP21.
func bip21URI(address string, amountSat uint64, endpoint string) string {
	amount := strconv.FormatFloat(float64(amountSat)/1e8, 'f', -1, 8)
	return fmt.Sprintf("bitcoin:%s?amount=%s&pj=%s", address, amount, endpoint)
}
