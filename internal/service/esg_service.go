package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/fadilmartias/esg-dashboard/internal/config"
	"github.com/fadilmartias/esg-dashboard/internal/metrics"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

type ESGServiceInterface interface {
	GetCompanies(ctx context.Context) ([]model.Company, error)
	GetCompanyDetail(ctx context.Context, id int64) (*model.Company, error)
	GetNews(ctx context.Context) ([]model.News, error)
	GetCompanyReport(ctx context.Context, company string) (*model.Report, error)
	PredictESG(ctx context.Context, req model.PredictionRequest) (*model.PredictionResponse, error)
	UploadZip(ctx context.Context, filename string, r io.Reader, size int64, onProgress func(int)) (*model.UploadSummary, error)
}

// ESGService is the single client of the ESG REST backend.
type ESGService struct {
	client  *resty.Client
	timeout time.Duration
	metrics *metrics.Metrics
	log     *logrus.Logger
}

func NewESGService(cfg *config.BackendConfig, m *metrics.Metrics, log *logrus.Logger) *ESGService {
	// One client serves every browser, so no jar: credentials travel only
	// in the per-request Cookie header set by WithCookies.
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetCookieJar(nil).
		SetHeader("Accept", "application/json")

	return &ESGService{
		client:  client,
		timeout: cfg.Timeout,
		metrics: m,
		log:     log,
	}
}

// HTTPClient exposes the transport, mainly so tests can mock it.
func (s *ESGService) HTTPClient() *http.Client {
	return s.client.GetClient()
}

type cookieKey struct{}

// WithCookies attaches the browser's raw Cookie header so it is forwarded on
// every backend call made with the returned context.
func WithCookies(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, cookieKey{}, raw)
}

func (s *ESGService) newRequest(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx)
	if raw, ok := ctx.Value(cookieKey{}).(string); ok && raw != "" {
		req.SetHeader("Cookie", raw)
	}
	return req
}

func (s *ESGService) GetCompanies(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	if err := s.doJSON(ctx, "companies", http.MethodGet, "/companies/", nil, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *ESGService) GetCompanyDetail(ctx context.Context, id int64) (*model.Company, error) {
	var company model.Company
	path := fmt.Sprintf("/companies/%d/", id)
	if err := s.doJSON(ctx, "company_detail", http.MethodGet, path, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *ESGService) GetNews(ctx context.Context) ([]model.News, error) {
	var news []model.News
	if err := s.doJSON(ctx, "news", http.MethodGet, "/news/", nil, &news); err != nil {
		return nil, err
	}
	return news, nil
}

func (s *ESGService) GetCompanyReport(ctx context.Context, company string) (*model.Report, error) {
	var report model.Report
	path := "/reports/" + url.PathEscape(company) + "/"
	if err := s.doJSON(ctx, "company_report", http.MethodGet, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *ESGService) PredictESG(ctx context.Context, req model.PredictionRequest) (*model.PredictionResponse, error) {
	var prediction model.PredictionResponse
	if err := s.doJSON(ctx, "predict", http.MethodPost, "/predict/", req, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

// UploadZip streams r to the backend as a multipart form with a single
// `file` field. onProgress, when set, receives whole percents of size.
// Uploads are bounded by ctx only, not by the client timeout.
func (s *ESGService) UploadZip(ctx context.Context, filename string, r io.Reader, size int64, onProgress func(int)) (*model.UploadSummary, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	defer pr.Close()

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, newProgressReader(r, size, onProgress)); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	start := time.Now()
	resp, err := s.newRequest(ctx).
		SetHeader("Content-Type", mw.FormDataContentType()).
		SetBody(pr).
		Post("/upload-zip/")
	if err := s.check("upload_zip", start, resp, err); err != nil {
		return nil, err
	}

	var summary model.UploadSummary
	if err := json.Unmarshal(resp.Body(), &summary); err != nil {
		return nil, fmt.Errorf("decode upload summary: %w", err)
	}
	return &summary, nil
}

func (s *ESGService) doJSON(ctx context.Context, endpoint, method, path string, body, out any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req := s.newRequest(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err := s.check(endpoint, start, resp, err); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (s *ESGService) check(endpoint string, start time.Time, resp *resty.Response, err error) error {
	status := 0
	if resp != nil && resp.RawResponse != nil {
		status = resp.StatusCode()
	}
	s.metrics.ObserveBackend(endpoint, status, time.Since(start))

	if err != nil {
		s.log.WithFields(logrus.Fields{"endpoint": endpoint}).WithError(err).Warn("backend unreachable")
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	if !resp.IsSuccess() {
		apiErr := newAPIError(status, resp.Body())
		s.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   status,
		}).Warn(apiErr.Error())
		return apiErr
	}
	return nil
}
