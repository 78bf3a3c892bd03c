// Package messaging talks to Signal through a signald socket.
package messaging

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"dropbot/internal/usecase/interfaces"
)

var ErrSignaldRequestFailed = errors.New("signald request failed")

// SignaldClient implements IMessagingTransport over signald's JSON socket
// protocol. Outbound requests use a short-lived connection each; the Run loop
// holds its own subscribed connection for inbound traffic.
//
// Supported env vars:
//   - SIGNALD_SOCKET (default: /var/run/signald/signald.sock)
//   - BOT_NUMBER (the bot's Signal number, required)
type SignaldClient struct {
	socketPath string
	username   string
}

var _ interfaces.IMessagingTransport = (*SignaldClient)(nil)

func NewSignaldClient() *SignaldClient {
	return &SignaldClient{
		socketPath: getenvDefault("SIGNALD_SOCKET", "/var/run/signald/signald.sock"),
		username:   os.Getenv("BOT_NUMBER"),
	}
}

type signaldRequest struct {
	Type             string          `json:"type"`
	ID               string          `json:"id"`
	Version          string          `json:"version,omitempty"`
	Username         string          `json:"username,omitempty"`
	Account          string          `json:"account,omitempty"`
	RecipientAddress *signaldAddress `json:"recipientAddress,omitempty"`
	MessageBody      string          `json:"messageBody,omitempty"`
	Attachments      []signaldAttach `json:"attachments,omitempty"`
	Payment          *signaldPayment `json:"payment,omitempty"`
}

type signaldAddress struct {
	Number string `json:"number"`
}

type signaldAttach struct {
	Filename string `json:"filename"`
}

type signaldPayment struct {
	Receipt string `json:"receipt"`
	Note    string `json:"note,omitempty"`
}

type signaldResponse struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

func (c *SignaldClient) SendMessage(ctx context.Context, destination, text string, attachments []string) error {
	req := signaldRequest{
		Type:             "send",
		Version:          "v1",
		Username:         c.username,
		RecipientAddress: &signaldAddress{Number: destination},
		MessageBody:      text,
	}
	for _, a := range attachments {
		req.Attachments = append(req.Attachments, signaldAttach{Filename: a})
	}
	_, err := c.request(ctx, req)
	return err
}

func (c *SignaldClient) SendPaymentReceipt(ctx context.Context, destination, receipt, note string) error {
	_, err := c.request(ctx, signaldRequest{
		Type:             "send_payment",
		Version:          "v1",
		Account:          c.username,
		RecipientAddress: &signaldAddress{Number: destination},
		Payment:          &signaldPayment{Receipt: receipt, Note: note},
	})
	return err
}

func (c *SignaldClient) GetPaymentsAddress(ctx context.Context, destination string) (string, error) {
	data, err := c.request(ctx, signaldRequest{
		Type:             "get_profile",
		Version:          "v1",
		Account:          c.username,
		RecipientAddress: &signaldAddress{Number: destination},
	})
	if err != nil {
		return "", err
	}
	var profile struct {
		PaymentsAddress string `json:"paymentsAddress"`
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return "", err
	}
	return profile.PaymentsAddress, nil
}

// request sends one request over a fresh connection and reads frames until
// the reply with the matching id arrives.
func (c *SignaldClient) request(ctx context.Context, req signaldRequest) (json.RawMessage, error) {
	req.ID = uuid.NewString()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var resp signaldResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			continue
		}
		if resp.ID != req.ID {
			continue
		}
		if len(resp.Error) > 0 {
			return nil, fmt.Errorf("%w: %s: %s", ErrSignaldRequestFailed, req.Type, string(resp.Error))
		}
		return resp.Data, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s: connection closed before reply", ErrSignaldRequestFailed, req.Type)
}

// Inbound envelope shapes, reduced to the fields the bot consumes.
type inboundEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Source struct {
			Number string `json:"number"`
		} `json:"source"`
		DataMessage struct {
			Body    string `json:"body"`
			Payment struct {
				Receipt string `json:"receipt"`
			} `json:"payment"`
		} `json:"data_message"`
	} `json:"data"`
}

// Handlers receive inbound traffic from the Run loop. Both are invoked from
// the same goroutine; implementations decide their own concurrency.
type Handlers struct {
	OnMessage func(ctx context.Context, source, text string)
	OnPayment func(ctx context.Context, source, receipt string)
}

// Run subscribes to the bot's number and pumps inbound envelopes to the
// handlers until the context is cancelled. Dropped connections are redialed
// with a small delay.
func (c *SignaldClient) Run(ctx context.Context, h Handlers) error {
	for {
		if err := c.runOnce(ctx, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[messaging][signald] receive loop error: %v, reconnecting", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *SignaldClient) runOnce(ctx context.Context, h Handlers) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	sub := signaldRequest{Type: "subscribe", Version: "v1", ID: uuid.NewString(), Account: c.username}
	if err := json.NewEncoder(conn).Encode(sub); err != nil {
		return err
	}
	log.Printf("[messaging][signald] subscribed as %s", c.username)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var envelope inboundEnvelope
		if err := json.Unmarshal(scanner.Bytes(), &envelope); err != nil {
			continue
		}
		if envelope.Type != "IncomingMessage" {
			continue
		}
		source := envelope.Data.Source.Number
		if source == "" {
			continue
		}
		if receipt := envelope.Data.DataMessage.Payment.Receipt; receipt != "" {
			if h.OnPayment != nil {
				h.OnPayment(ctx, source, receipt)
			}
			continue
		}
		if body := strings.TrimSpace(envelope.Data.DataMessage.Body); body != "" && h.OnMessage != nil {
			h.OnMessage(ctx, source, body)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errors.New("signald socket closed")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
