// internal/agent/agent.go
package agent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"monday-bi-agent/internal/analytics"
	"monday-bi-agent/internal/board"
	"monday-bi-agent/internal/common/config"
	apperrors "monday-bi-agent/internal/common/errors"
	"monday-bi-agent/internal/common/logger"
	"monday-bi-agent/internal/common/metrics"
	"monday-bi-agent/internal/common/observability"
	"monday-bi-agent/internal/inference"
	"monday-bi-agent/internal/llm"
)

// Input is one question plus the caller's optional overrides and history.
type Input struct {
	// RequestID is generated when empty.
	RequestID string
	Question  string
	Overrides config.Overrides
	History   []llm.Message
}

type Options struct {
	Fetcher   board.Fetcher
	Generator llm.Generator
	Router    *analytics.Router
	// Lookup supplies environment defaults for credentials.
	Lookup        config.LookupFunc
	Observability *observability.Observability
	Logger        logger.Logger
	// NewRequestID defaults to a random UUID.
	NewRequestID func() string
}

// Agent answers one question against freshly fetched boards. It holds no
// state between calls.
type Agent struct {
	fetcher   board.Fetcher
	generator llm.Generator
	router    *analytics.Router
	lookup    config.LookupFunc
	obs       *observability.Observability
	logger    logger.Logger
	newID     func() string
}

func New(opts Options) *Agent {
	a := &Agent{
		fetcher:   opts.Fetcher,
		generator: opts.Generator,
		router:    opts.Router,
		lookup:    opts.Lookup,
		obs:       opts.Observability,
		logger:    opts.Logger,
		newID:     opts.NewRequestID,
	}
	if a.router == nil {
		a.router = analytics.DefaultRouter()
	}
	if a.logger == nil {
		a.logger = logger.NewNoOpLogger()
	}
	a.logger = logger.ForComponent(a.logger, "agent")
	if a.newID == nil {
		a.newID = func() string { return uuid.New().String() }
	}
	return a
}

// ProcessQuery fetches deals then work orders, infers columns, and answers
// from the first analytic branch that applies or from the language model.
func (a *Agent) ProcessQuery(ctx context.Context, in *Input) (*analytics.Result, error) {
	start := time.Now()
	requestID := in.RequestID
	if requestID == "" {
		requestID = a.newID()
	}
	log := a.logger.With(map[string]interface{}{"requestId": requestID})

	ctx, span := a.obs.StartSpan(ctx, "agent.ProcessQuery", attribute.String("request.id", requestID))
	defer span.End()

	log.Info("processing query", map[string]interface{}{
		"questionLength": len(in.Question),
		"historyLength":  len(in.History),
	})

	result, err := a.process(ctx, requestID, in, log)
	if err != nil {
		stdErr := apperrors.Normalize(err)
		metrics.QueriesFailed.WithLabelValues(string(stdErr.Code)).Inc()
		a.obs.RecordQueryProcessed(ctx, "", "failed")
		a.obs.RecordQueryDuration(ctx, time.Since(start), "failed")
		span.RecordError(err)
		return nil, stdErr
	}

	branch := string(result.Trace.Branch)
	metrics.QueriesAnswered.WithLabelValues(branch).Inc()
	metrics.QueryDuration.WithLabelValues(branch).Observe(time.Since(start).Seconds())
	a.obs.RecordQueryProcessed(ctx, branch, "ok")
	a.obs.RecordQueryDuration(ctx, time.Since(start), "ok")

	log.Info("query answered", map[string]interface{}{
		"branch":     branch,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (a *Agent) process(ctx context.Context, requestID string, in *Input, log logger.Logger) (*analytics.Result, error) {
	creds := config.ResolveCredentials(in.Overrides, a.lookup)
	if creds.MondayAPIKey == "" {
		log.Warn("no board service API key resolved; the service will likely reject the request", nil)
	}

	deals, err := a.fetchRows(ctx, "deals", creds.DealsBoardID, creds.MondayAPIKey, log)
	if err != nil {
		return nil, err
	}
	workOrders, err := a.fetchRows(ctx, "work_orders", creds.WorkOrdersBoardID, creds.MondayAPIKey, log)
	if err != nil {
		return nil, err
	}

	ds := &analytics.Dataset{
		Deals:      deals,
		WorkOrders: workOrders,
		Columns:    inference.Infer(deals, workOrders),
	}
	a.recordDetections(ctx, ds.Columns)

	trace := analytics.NewTrace(requestID, ds)
	log.Info("columns detected", map[string]interface{}{
		"status":           trace.StatusColumnDetected,
		"revenue":          trace.RevenueColumnDetected,
		"company":          trace.CompanyColumnDetected,
		"workOrderCompany": trace.WorkOrderCompanyColumnDetected,
	})

	branch, answer, ok := a.router.Route(in.Question, ds)
	if !ok {
		answer, err = a.fallback(ctx, creds.GeminiAPIKey, ds, in, log)
		if err != nil {
			return nil, err
		}
	}
	trace.Branch = branch

	return &analytics.Result{Answer: answer, Trace: trace}, nil
}

func (a *Agent) fetchRows(ctx context.Context, role, boardID, apiKey string, log logger.Logger) (board.Collection, error) {
	ctx, span := a.obs.StartSpan(ctx, "board.fetch",
		attribute.String("board.role", role),
		attribute.String("board.id", boardID))
	defer span.End()

	start := time.Now()
	raw, err := a.fetcher.FetchBoardItems(ctx, boardID, apiKey)
	metrics.BoardFetchDuration.WithLabelValues(role).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.NewBoardFetchFailedError(boardID, err)
	}

	resp, err := board.ParseResponse(raw)
	if err != nil {
		return nil, apperrors.NewBoardResponseMalformedError(boardID, err)
	}
	if len(resp.Errors) > 0 {
		log.Warn("board service returned errors", map[string]interface{}{
			"board":   role,
			"boardId": boardID,
			"errors":  len(resp.Errors),
		})
	}

	rows, err := board.ExtractRows(resp)
	if err != nil {
		return nil, apperrors.NewBoardResponseMalformedError(boardID, err)
	}

	metrics.BoardRowsFetched.WithLabelValues(role).Set(float64(len(rows)))
	log.Info("board fetched", map[string]interface{}{
		"board":      role,
		"boardId":    boardID,
		"rows":       len(rows),
		"durationMs": time.Since(start).Milliseconds(),
	})
	return rows, nil
}

func (a *Agent) fallback(ctx context.Context, apiKey string, ds *analytics.Dataset, in *Input, log logger.Logger) (string, error) {
	if apiKey == "" {
		return "", apperrors.NewMissingCredentialsError(config.EnvGeminiAPIKey)
	}

	ctx, span := a.obs.StartSpan(ctx, "llm.generate")
	defer span.End()

	prompt := llm.BuildPrompt(llm.PromptInput{
		DealCount:      len(ds.Deals),
		WorkOrderCount: len(ds.WorkOrders),
		History:        in.History,
		Question:       in.Question,
	})

	log.Info("delegating to language model", map[string]interface{}{
		"promptLength": len(prompt),
	})

	answer, err := a.generator.Generate(ctx, apiKey, prompt)
	if err != nil {
		metrics.LLMRequests.WithLabelValues("error").Inc()
		span.RecordError(err)
		if errors.Is(err, llm.ErrTimeout) {
			return "", apperrors.NewLLMTimeoutError(err)
		}
		return "", apperrors.NewLLMSynthesisFailedError(err)
	}
	metrics.LLMRequests.WithLabelValues("ok").Inc()
	log.Info("language model answered", map[string]interface{}{
		"answerLength": len(answer),
	})
	return answer, nil
}

func (a *Agent) recordDetections(ctx context.Context, cols inference.Columns) {
	a.obs.RecordDetection(ctx, "status", cols.Status.Found)
	a.obs.RecordDetection(ctx, "revenue", cols.Revenue.Found)
	a.obs.RecordDetection(ctx, "company", cols.Company.Found)
	a.obs.RecordDetection(ctx, "workorder_company", cols.WorkOrderCompany.Found)
}
