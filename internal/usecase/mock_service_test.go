package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/fadilmartias/esg-dashboard/internal/model"
)

// mockESGService is a configurable stand-in for the backend client.
type mockESGService struct {
	mu sync.Mutex

	companies    []model.Company
	companiesErr error
	company      *model.Company
	companyErr   error
	news         []model.News
	newsErr      error
	report       *model.Report
	reportErr    error
	prediction   *model.PredictionResponse
	predictErr   error
	predictHook  func()
	summary      *model.UploadSummary
	uploadErr    error

	predictCalls int
	uploadCalls  int
	uploaded     []byte
	uploadName   string
	lastPredict  model.PredictionRequest
}

func (m *mockESGService) GetCompanies(ctx context.Context) ([]model.Company, error) {
	return m.companies, m.companiesErr
}

func (m *mockESGService) GetCompanyDetail(ctx context.Context, id int64) (*model.Company, error) {
	return m.company, m.companyErr
}

func (m *mockESGService) GetNews(ctx context.Context) ([]model.News, error) {
	return m.news, m.newsErr
}

func (m *mockESGService) GetCompanyReport(ctx context.Context, company string) (*model.Report, error) {
	return m.report, m.reportErr
}

func (m *mockESGService) PredictESG(ctx context.Context, req model.PredictionRequest) (*model.PredictionResponse, error) {
	m.mu.Lock()
	m.predictCalls++
	m.lastPredict = req
	hook := m.predictHook
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return m.prediction, m.predictErr
}

func (m *mockESGService) UploadZip(ctx context.Context, filename string, r io.Reader, size int64, onProgress func(int)) (*model.UploadSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadCalls++
	m.uploadName = filename
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.uploaded = data
	if onProgress != nil {
		onProgress(50)
		onProgress(100)
	}
	return m.summary, m.uploadErr
}
