package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"planejeja/internal/models"
	"planejeja/internal/repo"
	"planejeja/pkg/money"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

var (
	ErrInvalidReportConfig = errors.New("invalid report service config")
	ErrPremiumRequired     = errors.New("premium plan required")
	ErrInvalidReportMonth  = errors.New("invalid report month")
)

const defaultReportModel = "gemini-2.0-flash"

// FallbackReport is returned when the model is not configured or the
// generation call fails, so the feature degrades instead of erroring.
const FallbackReport = `### Relatório de Finanças Pessoais

O relatório inteligente não está disponível no momento. Seguem orientações gerais:

- **Crie um orçamento mensal** com limite de gastos por categoria.
- **Acompanhe as despesas de alimentação e transporte**, que costumam concentrar os maiores valores.
- **Estabeleça metas de poupança** a partir dos seus depósitos mensais.
- **Revise despesas recorrentes** e renegocie o que estiver acima do mercado.

Tente gerar o relatório novamente mais tarde.`

const reportSystemPrompt = "Você é um especialista em gestão e organização de " +
	"finanças pessoais. Você ajuda as pessoas a organizarem melhor as suas finanças."

// FinanceReader lists finance transactions for the report window.
type FinanceReader interface {
	ListFinanceTransactions(filter repo.FinanceFilter) ([]models.FinanceTransaction, error)
}

// ReportService builds the monthly AI financial report. The Gemini client is
// optional; without one the service serves the fallback report.
type ReportService struct {
	logger  *slog.Logger
	finance FinanceReader
	client  *genai.Client
	model   string
}

type ReportOption func(*ReportService)

func WithReportLogger(l *slog.Logger) ReportOption {
	return func(s *ReportService) {
		s.logger = l
	}
}

func WithReportFinance(f FinanceReader) ReportOption {
	return func(s *ReportService) {
		s.finance = f
	}
}

func WithReportClient(c *genai.Client) ReportOption {
	return func(s *ReportService) {
		s.client = c
	}
}

func WithReportModel(model string) ReportOption {
	return func(s *ReportService) {
		s.model = model
	}
}

func (s *ReportService) IsValid() error {
	switch {
	case s.logger == nil:
		return errors.Wrap(ErrInvalidReportConfig, "logger cannot be nil")
	case s.finance == nil:
		return errors.Wrap(ErrInvalidReportConfig, "finance reader cannot be nil")
	default:
		return nil
	}
}

func NewReportService(opts ...ReportOption) (*ReportService, error) {
	s := &ReportService{
		model: defaultReportModel,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.IsValid(); err != nil {
		return nil, err
	}
	return s, nil
}

// BuildMonthlyReport generates the financial report for the user's
// transactions in the given month. Premium-plan users only.
func (s *ReportService) BuildMonthlyReport(ctx context.Context, user *models.User, month, year int) (string, error) {
	if user.Plan != models.PlanPremium {
		return "", ErrPremiumRequired
	}
	if month < 1 || month > 12 || year <= 0 {
		return "", errors.Wrapf(ErrInvalidReportMonth, "month=%d year=%d", month, year)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	transactions, err := s.finance.ListFinanceTransactions(repo.FinanceFilter{
		UserID: user.ID,
		Start:  &start,
		End:    &end,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to load transactions")
	}

	if len(transactions) == 0 || s.client == nil {
		return FallbackReport, nil
	}

	report, err := s.generate(ctx, s.prompt(start, transactions))
	if err != nil {
		s.logger.Error("report generation failed, serving fallback", "error", err)
		return FallbackReport, nil
	}
	return report, nil
}

func (s *ReportService) prompt(start time.Time, transactions []models.FinanceTransaction) string {
	var deposits, expenses, investments float64
	var lines []string

	for _, tx := range transactions {
		amount := money.Parse(tx.Amount)
		switch tx.Type {
		case models.FinanceTypeDeposit:
			deposits += amount
		case models.FinanceTypeExpense:
			expenses += amount
		case models.FinanceTypeInvestment:
			investments += amount
		}
		lines = append(lines, fmt.Sprintf("%s-R$%s-%s-%s",
			tx.Date.Format("02/01/2006"), money.Format(amount), tx.Type, tx.Category))
	}

	return fmt.Sprintf(`Gere um relatório do mês de referência %s, liste as transações,
apresente os valores abaixo e dê dicas de controle financeiro.
**Renda total:** R$%.2f;
**Total de Despesas:** R$%.2f;
**Total de Investimentos:** R$%.2f.
Os dados seguem abaixo:
%s`,
		start.Format("01/2006"), deposits, expenses, investments, strings.Join(lines, ";"))
}

func (s *ReportService) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(reportSystemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("model returned an empty report")
	}
	return text, nil
}
