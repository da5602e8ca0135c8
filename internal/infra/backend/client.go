package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voucher-console/internal/domain/voucher"
	"voucher-console/internal/infra/metrics"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/pkg/reqctx"
	"voucher-console/internal/usecase/shared"
)

const (
	vouchersPath = "/api/vouchers/"
	statsPath    = "/api/vouchers/stats/"
	activityPath = "/api/vouchers/activity/"
	exportPath   = "/api/vouchers/export/"

	errorBodyLimit = 512
)

const (
	opList         = "list"
	opStats        = "stats"
	opActivity     = "activity"
	opGenerate     = "generate"
	opUpdateStatus = "update_status"
	opDelete       = "delete"
	opExport       = "export"
)

// Client talks to the voucher REST backend. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ shared.VoucherGateway = (*Client)(nil)

func NewClient(cfg config.BackendConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (c *Client) ListVouchers(ctx context.Context) ([]voucher.Voucher, error) {
	resp, err := c.send(ctx, opList, http.MethodGet, vouchersPath, nil)
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)
	if err = c.checkStatus(opList, resp); err != nil {
		return nil, err
	}

	var items []voucherDTO
	if err = decodeJSON(opList, resp.Body, &items); err != nil {
		return nil, err
	}
	out := make([]voucher.Voucher, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDomain())
	}
	return out, nil
}

func (c *Client) Stats(ctx context.Context) (shared.Stats, error) {
	resp, err := c.send(ctx, opStats, http.MethodGet, statsPath, nil)
	if err != nil {
		return shared.Stats{}, err
	}
	defer drainClose(resp.Body)
	if err = c.checkStatus(opStats, resp); err != nil {
		return shared.Stats{}, err
	}

	var dto statsDTO
	if err = decodeJSON(opStats, resp.Body, &dto); err != nil {
		return shared.Stats{}, err
	}
	return shared.Stats{
		Total:       dto.Total,
		Active:      dto.Active,
		UsedToday:   dto.UsedToday,
		SuccessRate: string(dto.SuccessRate),
	}, nil
}

func (c *Client) Activity(ctx context.Context) ([]shared.ActivityItem, error) {
	resp, err := c.send(ctx, opActivity, http.MethodGet, activityPath, nil)
	if err != nil {
		return nil, err
	}
	defer drainClose(resp.Body)
	if err = c.checkStatus(opActivity, resp); err != nil {
		return nil, err
	}

	var items []activityDTO
	if err = decodeJSON(opActivity, resp.Body, &items); err != nil {
		return nil, err
	}
	out := make([]shared.ActivityItem, 0, len(items))
	for _, it := range items {
		out = append(out, shared.ActivityItem{Code: it.Code, Status: it.Status, Time: string(it.Time)})
	}
	return out, nil
}

func (c *Client) Generate(ctx context.Context, req shared.GenerateRequest) (shared.GenerateResult, error) {
	body := generateBody{
		Quantity:  req.Quantity,
		Duration:  req.Duration,
		DataLimit: req.DataLimit,
		ExpiresAt: voucher.FormatISO(req.ExpiresAt),
	}
	resp, err := c.send(ctx, opGenerate, http.MethodPost, vouchersPath, body)
	if err != nil {
		return shared.GenerateResult{}, err
	}
	defer drainClose(resp.Body)

	if resp.StatusCode == http.StatusBadRequest {
		return c.partialCreation(resp)
	}
	if err = c.checkStatus(opGenerate, resp); err != nil {
		return shared.GenerateResult{}, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.GenerateResult{}, errs.Mark(errs.Wrap(err, "backend generate: read body"), errs.ErrBackendRequestFailed)
	}
	codes, err := decodeCodes(raw)
	if err != nil {
		return shared.GenerateResult{}, errs.Mark(errs.Wrap(err, "backend generate: decode body"), errs.ErrBackendDecodeFailed)
	}
	return shared.GenerateResult{Codes: codes}, nil
}

// partialCreation handles a 400 response. When the body lists created vouchers their codes are
// returned alongside the error; otherwise it is a plain status error.
func (c *Client) partialCreation(resp *http.Response) (shared.GenerateResult, error) {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var dto partialCreationDTO
	if err := json.Unmarshal(raw, &dto); err != nil || dto.Created == nil {
		return shared.GenerateResult{}, c.statusError(opGenerate, resp.StatusCode, raw)
	}

	codes := collectCodes(dto.Created)
	perr := &PartialCreationError{Created: len(codes), Detail: truncate(string(dto.Errors))}
	c.logger.Warn("backend created a partial batch", "created", len(codes), "errors", perr.Detail)
	return shared.GenerateResult{Codes: codes},
		errs.Mark(errs.Mark(perr, errs.ErrPartialCreation), errs.ErrBackendRequestFailed)
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status voucher.Status) error {
	resp, err := c.send(ctx, opUpdateStatus, http.MethodPatch, voucherPath(id), statusBody{Status: status.String()})
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)
	return c.checkStatus(opUpdateStatus, resp)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.send(ctx, opDelete, http.MethodDelete, voucherPath(id), nil)
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)
	return c.checkStatus(opDelete, resp)
}

// Export streams the backend CSV. The download name is always vouchers.csv.
func (c *Client) Export(ctx context.Context) (*shared.ExportFile, error) {
	resp, err := c.send(ctx, opExport, http.MethodGet, exportPath, nil)
	if err != nil {
		return nil, err
	}
	if err = c.checkStatus(opExport, resp); err != nil {
		drainClose(resp.Body)
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/csv"
	}
	return &shared.ExportFile{
		Body:          resp.Body,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Filename:      shared.ExportFilename,
	}, nil
}

func (c *Client) send(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errs.Wrapf(err, "backend %s: encode request", op)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "backend %s: build request", op), errs.ErrBackendRequestFailed)
	}
	req.Header.Set("Accept", "application/json")
	if id := reqctx.RequestID(ctx); id != "" {
		req.Header.Set(reqctx.Header, id)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveBackend(op, 0, time.Since(start))
		c.logger.Warn("backend request failed", "request_id", reqctx.RequestID(ctx), "op", op, "method", method, "path", path, "error", err)
		return nil, errs.Mark(errs.Wrapf(err, "backend %s", op), errs.ErrBackendRequestFailed)
	}
	metrics.ObserveBackend(op, resp.StatusCode, time.Since(start))
	return resp, nil
}

func (c *Client) checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	return c.statusError(op, resp.StatusCode, snippet)
}

func (c *Client) statusError(op string, code int, body []byte) error {
	serr := &StatusError{Op: op, StatusCode: code, Body: truncate(strings.TrimSpace(string(body)))}
	c.logger.Warn("backend returned non-2xx", "op", op, "status", code)

	err := errs.Mark(serr, errs.ErrBackendRequestFailed)
	if code == http.StatusNotFound {
		err = errs.Mark(err, errs.ErrVoucherNotFound)
	}
	return err
}

func decodeJSON(op string, r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errs.Mark(errs.Wrapf(err, "backend %s: decode body", op), errs.ErrBackendDecodeFailed)
	}
	return nil
}

func voucherPath(id string) string {
	return vouchersPath + url.PathEscape(id) + "/"
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}

func truncate(s string) string {
	if len(s) > errorBodyLimit {
		return s[:errorBodyLimit]
	}
	return s
}
