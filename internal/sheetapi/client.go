// Package sheetapi talks to the script endpoint in front of the spreadsheet
// backend. Reads are query-string-addressed GETs returning JSON arrays;
// writes are JSON POSTs discriminated by an "action" field.
package sheetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/dates"
	"github.com/renovadesk/renova/internal/model"
	"github.com/renovadesk/renova/internal/service"
)

// Config holds the endpoint settings.
type Config struct {
	BaseURL string
	// Sheet is the tab name passed to getLeads.
	Sheet string
	// Timeout bounds each direct request. Zero means 30s.
	Timeout time.Duration
}

// Client implements service.RemoteClient against the script endpoint.
type Client struct {
	baseURL    string
	sheet      string
	httpClient *http.Client
	retryOpts  service.RetryOptions
}

// NewClient creates a new script-endpoint client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: sheet endpoint URL", common.ErrMissingConfig)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint URL: %v", common.ErrInvalidConfig, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = "Leads"
	}
	return &Client{
		baseURL: cfg.BaseURL,
		sheet:   sheet,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
		},
	}, nil
}

// FetchLeads retrieves the open-lead collection.
func (c *Client) FetchLeads(ctx context.Context) ([]model.Lead, error) {
	body, err := c.get(ctx, url.Values{"v": {"getLeads"}, "sheet": {c.sheet}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	var rows []leadDTO
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode leads response: %w", err)
	}

	leads := make([]model.Lead, len(rows))
	for i, row := range rows {
		leads[i] = row.toModel(i)
	}
	return leads, nil
}

// FetchClosedLeads retrieves the closed/renewed collection.
func (c *Client) FetchClosedLeads(ctx context.Context) ([]model.ClosedLead, error) {
	body, err := c.get(ctx, url.Values{"v": {"pegar_clientes_fechados"}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch closed leads: %w", err)
	}

	var rows []closedLeadDTO
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode closed leads response: %w", err)
	}

	leads := make([]model.ClosedLead, len(rows))
	for i, row := range rows {
		leads[i] = row.toModel(i)
	}
	return leads, nil
}

// FetchUsers retrieves the user sheet.
func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	body, err := c.get(ctx, url.Values{"v": {"pegar_usuario"}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	var rows []userDTO
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}

	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = row.toModel()
	}
	return users, nil
}

// FetchGoal retrieves the renewal goal scalar.
func (c *Client) FetchGoal(ctx context.Context) float64 {
	return c.fetchScalar(ctx, url.Values{"action": {"getTotalRenovacoes"}})
}

// FetchProgress retrieves the renewal progress scalar.
func (c *Client) FetchProgress(ctx context.Context) float64 {
	return c.fetchScalar(ctx, url.Values{"action": {"getRenovacoesCellI2"}})
}

// NotifyStatus tells the backend about a confirmed status transition. The
// engine calls this fire-and-forget; the local state is already updated.
func (c *Client) NotifyStatus(ctx context.Context, leadID int, status model.Status, phoneNumber string) error {
	_, err := c.post(ctx, statusRequest{
		Action: "alterar_status",
		Lead:   leadID,
		Status: string(status),
		Phone:  phoneNumber,
	})
	return err
}

// ConfirmInsurer writes the confirmed insurer terms for a closed lead. This
// is the one write whose response matters: the backend's success flag gates
// the caller's follow-up reconciliation poll.
func (c *Client) ConfirmInsurer(ctx context.Context, lead model.ClosedLead) error {
	resp, err := c.post(ctx, confirmInsurerRequest{
		Action: "alterar_seguradora",
		Lead: confirmInsurerLead{
			ID:              lead.ID,
			Seguradora:      lead.Insurer,
			PremioLiquido:   lead.NetPremium,
			Comissao:        lead.CommissionPct,
			Parcelamento:    lead.InstallmentPlan,
			VigenciaInicial: lead.PeriodStart,
			VigenciaFinal:   lead.PeriodEnd,
		},
	})
	if err != nil {
		return err
	}

	var result writeResponse
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to decode insurer confirmation response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", common.ErrRemoteRejected, result.Message)
	}
	return nil
}

// SaveNote persists a lead's free-text note.
func (c *Client) SaveNote(ctx context.Context, leadID int, note string) error {
	_, err := c.post(ctx, noteRequest{
		Action:     "salvarObservacao",
		LeadID:     leadID,
		Observacao: note,
	})
	return err
}

// SaveSchedule persists a lead's scheduling date.
func (c *Client) SaveSchedule(ctx context.Context, leadID int, date time.Time) error {
	_, err := c.post(ctx, scheduleRequest{
		Action:       "salvarAgendamento",
		LeadID:       leadID,
		DataAgendada: dates.FormatSlash(date),
	})
	return err
}

// SetGoal overwrites the renewal goal scalar.
func (c *Client) SetGoal(ctx context.Context, total float64) error {
	_, err := c.post(ctx, goalRequest{
		Action:          "setTotalRenovacoes",
		TotalRenovacoes: total,
	})
	return err
}

func (c *Client) get(ctx context.Context, query url.Values) ([]byte, error) {
	var body []byte
	err := common.WithRetry(ctx, func() error {
		b, err := c.getOnce(ctx, query)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		body = b
		return nil
	}, c.retryOpts)
	return body, err
}

func (c *Client) getOnce(ctx context.Context, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEndpointUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", common.ErrEndpointUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEndpointUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d: %s", common.ErrEndpointUnavailable, resp.StatusCode, body)
	}
	return body, nil
}
