// Package wallet talks to the MobileCoin full-service wallet over its
// JSON-RPC API.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dropbot/internal/usecase/interfaces"
)

var ErrWalletRPC = errors.New("wallet rpc error")

// FullServiceClient implements IWalletClient against a full-service node.
//
// Supported env vars:
//   - FULL_SERVICE_URL (default: http://localhost:9090/wallet)
//   - FULL_SERVICE_PUBLIC_ADDRESS (the bot account's public address, used for
//     receipt status checks)
//   - WALLET_MOCK (true enables mock mode for local runs without a node)
type FullServiceClient struct {
	url           string
	publicAddress string
	httpClient    *http.Client
	mockMode      bool
}

var _ interfaces.IWalletClient = (*FullServiceClient)(nil)

func NewFullServiceClient() *FullServiceClient {
	if strings.EqualFold(os.Getenv("WALLET_MOCK"), "true") {
		log.Printf("[wallet][client] mock mode enabled")
		return &FullServiceClient{mockMode: true}
	}
	return &FullServiceClient{
		url:           getenvDefault("FULL_SERVICE_URL", "http://localhost:9090/wallet"),
		publicAddress: os.Getenv("FULL_SERVICE_PUBLIC_ADDRESS"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

func (c *FullServiceClient) rpc(ctx context.Context, method string, params interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{Method: method, Params: params, JSONRPC: "2.0", ID: 1})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if len(envelope.Error) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrWalletRPC, method, string(envelope.Error))
	}
	if result == nil {
		return nil
	}
	return json.Unmarshal(envelope.Result, result)
}

func (c *FullServiceClient) GetUnspentPmob(ctx context.Context, accountID string) (int64, error) {
	if c.mockMode {
		return 1_000_000_000_000_000, nil
	}
	var result struct {
		Balance struct {
			UnspentPmob string `json:"unspent_pmob"`
		} `json:"balance"`
	}
	err := c.rpc(ctx, "get_balance_for_account", map[string]string{"account_id": accountID}, &result)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(result.Balance.UnspentPmob, 10, 64)
}

func (c *FullServiceClient) GetMinimumFeePmob(ctx context.Context) (int64, error) {
	if c.mockMode {
		return 400_000_000, nil
	}
	var result struct {
		NetworkStatus struct {
			FeePmob string `json:"fee_pmob"`
		} `json:"network_status"`
	}
	if err := c.rpc(ctx, "get_network_status", map[string]string{}, &result); err != nil {
		return 0, err
	}
	return strconv.ParseInt(result.NetworkStatus.FeePmob, 10, 64)
}

func (c *FullServiceClient) BuildTransaction(ctx context.Context, accountID string, amountPmob int64, toAddress string) (json.RawMessage, error) {
	if c.mockMode {
		proposal, _ := json.Marshal(map[string]interface{}{
			"mock":       true,
			"value_pmob": strconv.FormatInt(amountPmob, 10),
			"to_address": toAddress,
		})
		return proposal, nil
	}
	var result struct {
		TxProposal json.RawMessage `json:"tx_proposal"`
	}
	err := c.rpc(ctx, "build_transaction", map[string]string{
		"account_id":               accountID,
		"recipient_public_address": toAddress,
		"value_pmob":               strconv.FormatInt(amountPmob, 10),
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.TxProposal, nil
}

func (c *FullServiceClient) SubmitTransaction(ctx context.Context, proposal json.RawMessage, accountID string) (string, error) {
	if c.mockMode {
		return uuid.NewString(), nil
	}
	var result struct {
		TransactionLog struct {
			OutputTxos []struct {
				TxoIDHex string `json:"txo_id_hex"`
			} `json:"output_txos"`
		} `json:"transaction_log"`
	}
	err := c.rpc(ctx, "submit_transaction", map[string]interface{}{
		"tx_proposal": proposal,
		"account_id":  accountID,
	}, &result)
	if err != nil {
		return "", err
	}
	// One payout output per transaction is an invariant; anything else risks
	// double-payment downstream.
	if len(result.TransactionLog.OutputTxos) != 1 {
		return "", interfaces.ErrMultipleTxOutputs
	}
	return result.TransactionLog.OutputTxos[0].TxoIDHex, nil
}

func (c *FullServiceClient) GetTxo(ctx context.Context, txoID string) error {
	if c.mockMode {
		return nil
	}
	err := c.rpc(ctx, "get_txo", map[string]string{"txo_id": txoID}, nil)
	if err != nil && errors.Is(err, ErrWalletRPC) {
		return interfaces.ErrTxoNotFound
	}
	return err
}

func (c *FullServiceClient) CreateReceipt(ctx context.Context, proposal json.RawMessage) (string, error) {
	if c.mockMode {
		return `{"mock_receipt":true}`, nil
	}
	var result struct {
		ReceiverReceipts []json.RawMessage `json:"receiver_receipts"`
	}
	err := c.rpc(ctx, "create_receiver_receipts", map[string]interface{}{
		"tx_proposal": proposal,
	}, &result)
	if err != nil {
		return "", err
	}
	if len(result.ReceiverReceipts) == 0 {
		return "", fmt.Errorf("%w: create_receiver_receipts returned no receipt", ErrWalletRPC)
	}
	return string(result.ReceiverReceipts[0]), nil
}

func (c *FullServiceClient) CheckReceiptStatus(ctx context.Context, receipt string) (interfaces.ReceiptStatus, error) {
	if c.mockMode {
		return interfaces.ReceiptStatus{Status: interfaces.TransactionSucceeded, AmountPmob: 1_000_000_000_000}, nil
	}
	var result struct {
		ReceiptTransactionStatus string `json:"receipt_transaction_status"`
		Txo                      struct {
			ValuePmob string `json:"value_pmob"`
		} `json:"txo"`
	}
	err := c.rpc(ctx, "check_receiver_receipt_status", map[string]interface{}{
		"address":          c.publicAddress,
		"receiver_receipt": json.RawMessage(receipt),
	}, &result)
	if err != nil {
		return interfaces.ReceiptStatus{}, err
	}

	status := interfaces.ReceiptStatus{}
	switch result.ReceiptTransactionStatus {
	case "TransactionPending":
		status.Status = interfaces.TransactionPending
	case "TransactionSuccess":
		status.Status = interfaces.TransactionSucceeded
		status.AmountPmob, _ = strconv.ParseInt(result.Txo.ValuePmob, 10, 64)
	default:
		status.Status = interfaces.TransactionFailed
	}
	return status, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
